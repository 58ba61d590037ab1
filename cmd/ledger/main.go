// Package main provides the offline CLI for the attendance ledger.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	defaultRunFile   = "run.toml"
	defaultOffsetMin = 180
)

var (
	runFrom    string
	runTo      string
	runUser    int64
	runFile    string
	runSheet   string
	runOffset  int
	runTZ      string
	computeOut string

	tokenOperator string
	tokenAdmin    bool

	logLevel  string
	logFile   string
	logCloser io.Closer
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ledger",
		Short:        "Attendance ledger tools",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this rotated file instead of stderr")

	rootCmd.AddCommand(newComputeCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newTokenCmd())
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runFrom, "from", "", "first visible date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&runTo, "to", "", "last visible date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&runUser, "user", 0, "only this user id")
	cmd.Flags().StringVar(&runFile, "run", defaultRunFile, "run file with holidays and fixes (.toml or .yaml)")
	cmd.Flags().StringVar(&runSheet, "file", "", "read punches from a workbook instead of the device")
	cmd.Flags().IntVar(&runOffset, "offset", defaultOffsetMin, "minutes added to workbook timestamps")
	cmd.Flags().StringVar(&runTZ, "tz", "", "ledger time zone (default: LEDGER_TIME_ZONE)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func newComputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the ledger for a date range",
		RunE:  runComputeCmd,
	}
	addRunFlags(cmd)
	cmd.Flags().StringVar(&computeOut, "out", "", "write an xlsx workbook instead of printing a table")
	return cmd
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Print the days that need an operator fix as YAML",
		RunE:  runReviewCmd,
	}
	addRunFlags(cmd)
	return cmd
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token for the API",
		RunE:  runTokenCmd,
	}
	cmd.Flags().StringVar(&tokenOperator, "operator", "", "operator id")
	cmd.Flags().BoolVar(&tokenAdmin, "admin", false, "allow writes to fixes, holidays and sync")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}

// setupLogging keeps stdout free for command output.
func setupLogging() {
	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logger.ParseLevel(logLevel),
		})))
		return
	}

	log, closer := logger.New(logger.Config{
		Level:      logLevel,
		File:       logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}, nil)
	logCloser = closer
	slog.SetDefault(log)
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
