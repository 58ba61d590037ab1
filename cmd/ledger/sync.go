package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/controlid"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-ledger/internal/service/attendance"
	"github.com/spf13/cobra"
)

var syncDays int

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy recent device punches into the database cache once",
		RunE:  runSyncCmd,
	}
	cmd.Flags().IntVar(&syncDays, "days", -1, "days before today to pull (default: CRON_SYNC_LOOKBACK_DAYS)")
	return cmd
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Device.BaseURL == "" {
		return errors.New("DEVICE_BASE_URL is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load time zone: %w", err)
	}

	ctx := cmd.Context()
	db, err := database.NewPostgreSQLDBWithPool(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		return err
	}

	punchRepo := postgresql.NewPunchRepository(db, loc)
	svc := attendanceService.NewLedgerService(attendanceService.LedgerDeps{
		Source:    punchRepo,
		Device:    controlid.NewPunchSource(newDeviceClient(cfg), loc),
		PunchRepo: punchRepo,
		Location:  loc,
	})

	days := syncDays
	if days < 0 {
		days = cfg.Cron.LookbackDays
	}
	return syncOnce(ctx, svc, days, loc)
}

// syncOnce runs the punch sync job a single time outside the API scheduler loop.
func syncOnce(ctx context.Context, svc attendance.LedgerService, lookbackDays int, loc *time.Location) error {
	scheduler := cron.NewScheduler(ctx)
	defer scheduler.Stop()

	// the interval only matters for Start
	cron.NewPunchSyncJobs(svc, time.Hour, lookbackDays, loc).RegisterJobs(scheduler)
	return scheduler.RunOnce(ctx)
}

func newDeviceClient(cfg *config.Config) *controlid.Client {
	return controlid.NewClient(controlid.Config{
		BaseURL:    cfg.Device.BaseURL,
		Login:      cfg.Device.Login,
		Password:   cfg.Device.Password,
		Timeout:    cfg.Device.Timeout,
		TimeOffset: cfg.Device.TimeOffset,
		UserLimit:  cfg.Device.UserLimit,
		LogLimit:   cfg.Device.LogLimit,
	})
}
