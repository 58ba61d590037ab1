package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/controlid"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	attendanceService "github.com/cmlabs-hris/attendance-ledger/internal/service/attendance"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func buildLedgerService() (attendance.LedgerService, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tz := runTZ
	if tz == "" {
		tz = cfg.Ledger.TimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", tz, err)
	}

	var source attendance.PunchSource
	switch {
	case runSheet != "":
		source = spreadsheet.NewReader(runSheet, time.Duration(runOffset)*time.Minute, loc)
	case cfg.Device.BaseURL != "":
		source = controlid.NewPunchSource(newDeviceClient(cfg), loc)
	default:
		return nil, fmt.Errorf("no punch source: pass --file or set DEVICE_BASE_URL")
	}

	rf, err := config.LoadRunFile(runFile)
	if err != nil {
		return nil, err
	}
	calendar, err := rf.Calendar(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid run file: %w", err)
	}
	fixes, err := rf.ExceptionFixes(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid run file: %w", err)
	}

	return attendanceService.NewLedgerService(attendanceService.LedgerDeps{
		Source:    source,
		Fixes:     attendanceService.StaticFixes(fixes),
		Calendars: attendanceService.StaticCalendar{Calendar: calendar},
		Exporter:  spreadsheet.NewExporter(),
		Location:  loc,
	}), nil
}

func computeRequest() attendance.ComputeLedgerRequest {
	req := attendance.ComputeLedgerRequest{From: runFrom, To: runTo}
	if runUser > 0 {
		id := runUser
		req.UserID = &id
	}
	return req
}

func runComputeCmd(cmd *cobra.Command, _ []string) error {
	svc, err := buildLedgerService()
	if err != nil {
		return err
	}

	if computeOut != "" {
		data, err := svc.Export(cmd.Context(), computeRequest())
		if err != nil {
			return fmt.Errorf("failed to export ledger: %w", err)
		}
		if err := os.WriteFile(computeOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", computeOut, err)
		}
		logErrf("ledger written to %s\n", computeOut)
		return nil
	}

	ledger, err := svc.Compute(cmd.Context(), computeRequest())
	if err != nil {
		return fmt.Errorf("failed to compute ledger: %w", err)
	}
	return writeTable(cmd.OutOrStdout(), ledger)
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	svc, err := buildLedgerService()
	if err != nil {
		return err
	}

	rows, err := svc.Review(cmd.Context(), computeRequest())
	if err != nil {
		return fmt.Errorf("failed to build review queue: %w", err)
	}
	return writeReview(cmd.OutOrStdout(), rows)
}

func runTokenCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(tokenOperator, tokenAdmin)
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	logErrf("expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	return nil
}

func writeTable(w io.Writer, ledger attendance.Ledger) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tUSER\tSHIFT\tIN\tOUT\tLATE\tEXTRA\tNET\t50%\t100%\tSTATE\tDESCRIPTION")
	for _, r := range ledger.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			utils.DateKey(r.Date), r.UserName, r.Shift.Code(),
			utils.FormatClock(r.In), utils.FormatClock(r.Out),
			r.LatenessMin, r.OvertimeMin, r.NetMin,
			r.Premium50.String(), r.Premium100.String(),
			r.State, r.Description)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "USER\tLATE\tEXTRA\tNET\t50%\t100%")
	for _, t := range ledger.Totals {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			t.UserName, t.LatenessMin, t.OvertimeMin, t.NetMin,
			t.Premium50.String(), t.Premium100.String())
	}
	return tw.Flush()
}

type reviewEntry struct {
	Date        string `yaml:"date"`
	UserID      int64  `yaml:"user_id"`
	User        string `yaml:"user"`
	Shift       string `yaml:"shift"`
	In          string `yaml:"in,omitempty"`
	Out         string `yaml:"out,omitempty"`
	State       string `yaml:"state"`
	Description string `yaml:"description,omitempty"`
}

func writeReview(w io.Writer, rows []attendance.ComputedRow) error {
	entries := make([]reviewEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, reviewEntry{
			Date:        utils.DateKey(r.Date),
			UserID:      r.UserID,
			User:        r.UserName,
			Shift:       r.Shift.Code(),
			In:          utils.FormatClock(r.In),
			Out:         utils.FormatClock(r.Out),
			State:       r.State.String(),
			Description: r.Description,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"count": len(entries), "days": entries}); err != nil {
		return fmt.Errorf("failed to encode review queue: %w", err)
	}
	return enc.Close()
}
