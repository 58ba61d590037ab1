package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

const punchSyncJob = "sync_device_punches"

// PunchSyncJobs copies recent device punches into the punch cache.
type PunchSyncJobs struct {
	ledgerService attendance.LedgerService
	interval      time.Duration
	lookbackDays  int
	loc           *time.Location
	now           func() time.Time
}

func NewPunchSyncJobs(ledgerService attendance.LedgerService, interval time.Duration, lookbackDays int, loc *time.Location) *PunchSyncJobs {
	if loc == nil {
		loc = time.Local
	}
	if lookbackDays < 0 {
		lookbackDays = 0
	}
	return &PunchSyncJobs{
		ledgerService: ledgerService,
		interval:      interval,
		lookbackDays:  lookbackDays,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *PunchSyncJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(punchSyncJob, j.interval, j.SyncRecentPunches)
}

// SyncRecentPunches pulls today and the previous lookback days from the device.
func (j *PunchSyncJobs) SyncRecentPunches(ctx context.Context) error {
	today := utils.DayOf(j.now().In(j.loc))
	req := attendance.SyncPunchesRequest{
		From: utils.DateKey(today.AddDate(0, 0, -j.lookbackDays)),
		To:   utils.DateKey(today),
	}

	slog.Info("Cron: Starting punch sync", "from", req.From, "to", req.To)

	resp, err := j.ledgerService.SyncPunches(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to sync punches: %w", err)
	}

	slog.Info("Cron: Punch sync completed",
		"users", resp.Users,
		"punches", resp.Punches,
		"stored", resp.Stored)
	return nil
}
