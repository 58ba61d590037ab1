package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// FixProvider lists operator fixes for a run.
type FixProvider interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]attendance.ExceptionFix, error)
}

// CalendarProvider builds the holiday calendar for a run.
type CalendarProvider interface {
	CalendarFor(ctx context.Context, from, to time.Time) (holiday.Calendar, error)
}

// Exporter renders a ledger as a workbook.
type Exporter interface {
	Export(ledger attendance.Ledger) ([]byte, error)
}

type ledgerServiceImpl struct {
	source    attendance.PunchSource
	device    attendance.PunchSource
	punchRepo attendance.PunchRepository
	fixes     FixProvider
	calendars CalendarProvider
	exporter  Exporter
	loc       *time.Location
}

// LedgerDeps wires the collaborators of a ledger service. Device and
// PunchRepo are only needed for SyncPunches.
type LedgerDeps struct {
	Source    attendance.PunchSource
	Device    attendance.PunchSource
	PunchRepo attendance.PunchRepository
	Fixes     FixProvider
	Calendars CalendarProvider
	Exporter  Exporter
	Location  *time.Location
}

func NewLedgerService(deps LedgerDeps) attendance.LedgerService {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return &ledgerServiceImpl{
		source:    deps.Source,
		device:    deps.Device,
		punchRepo: deps.PunchRepo,
		fixes:     deps.Fixes,
		calendars: deps.Calendars,
		exporter:  deps.Exporter,
		loc:       loc,
	}
}

func (s *ledgerServiceImpl) Compute(ctx context.Context, req attendance.ComputeLedgerRequest) (attendance.Ledger, error) {
	input, err := s.snapshot(ctx, req)
	if err != nil {
		return attendance.Ledger{}, err
	}

	ledger := RunPipeline(input)
	slog.Info("Ledger computed",
		"from", req.From,
		"to", req.To,
		"rows", len(ledger.Rows),
		"users", len(ledger.Totals),
	)
	return ledger, nil
}

func (s *ledgerServiceImpl) Review(ctx context.Context, req attendance.ComputeLedgerRequest) ([]attendance.ComputedRow, error) {
	input, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	return ReviewRows(input), nil
}

func (s *ledgerServiceImpl) Export(ctx context.Context, req attendance.ComputeLedgerRequest) ([]byte, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("ledger exporter is not configured")
	}

	ledger, err := s.Compute(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := s.exporter.Export(ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to export ledger: %w", err)
	}
	return data, nil
}

func (s *ledgerServiceImpl) SyncPunches(ctx context.Context, req attendance.SyncPunchesRequest) (attendance.SyncPunchesResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SyncPunchesResponse{}, err
	}
	if s.device == nil || s.punchRepo == nil {
		return attendance.SyncPunchesResponse{}, attendance.ErrPunchCacheDisabled
	}

	from, to, err := s.parseRange(req.From, req.To)
	if err != nil {
		return attendance.SyncPunchesResponse{}, err
	}

	var (
		users   attendance.Directory
		punches []attendance.PunchEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.device.FetchUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		punches, err = s.device.FetchPunches(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.SyncPunchesResponse{}, sourceError(err)
	}

	if err := s.punchRepo.UpsertUsers(ctx, users); err != nil {
		return attendance.SyncPunchesResponse{}, fmt.Errorf("failed to store users: %w", err)
	}
	stored, err := s.punchRepo.UpsertPunches(ctx, punches)
	if err != nil {
		return attendance.SyncPunchesResponse{}, fmt.Errorf("failed to store punches: %w", err)
	}

	slog.Info("Punches synced", "from", req.From, "to", req.To, "users", len(users), "punches", len(punches), "stored", stored)

	return attendance.SyncPunchesResponse{
		Users:   len(users),
		Punches: len(punches),
		Stored:  stored,
	}, nil
}

// snapshot gathers every input of a run concurrently. A source failure
// aborts the run as a whole.
func (s *ledgerServiceImpl) snapshot(ctx context.Context, req attendance.ComputeLedgerRequest) (PipelineInput, error) {
	if err := req.Validate(); err != nil {
		return PipelineInput{}, err
	}
	if s.source == nil {
		return PipelineInput{}, attendance.ErrPunchSourceUnavailable
	}

	from, to, err := s.parseRange(req.From, req.To)
	if err != nil {
		return PipelineInput{}, err
	}
	fetchFrom, fetchTo := FetchStart(from), FetchEnd(to)

	input := PipelineInput{From: from, To: to}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.source.FetchUsers(gctx)
		if err != nil {
			return sourceError(err)
		}
		input.Directory = users
		return nil
	})
	g.Go(func() error {
		punches, err := s.source.FetchPunches(gctx, fetchFrom, fetchTo)
		if err != nil {
			return sourceError(err)
		}
		input.Punches = punches
		return nil
	})
	if s.fixes != nil {
		g.Go(func() error {
			fixes, err := s.fixes.ListByRange(gctx, fetchFrom, to)
			if err != nil {
				return fmt.Errorf("failed to list exception fixes: %w", err)
			}
			input.Fixes = fixes
			return nil
		})
	}
	if s.calendars != nil {
		g.Go(func() error {
			cal, err := s.calendars.CalendarFor(gctx, fetchFrom, fetchTo)
			if err != nil {
				return fmt.Errorf("failed to load holidays: %w", err)
			}
			input.Calendar = cal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PipelineInput{}, err
	}

	if req.UserID != nil {
		input.Punches = punchesOf(input.Punches, *req.UserID)
	}
	return input, nil
}

func (s *ledgerServiceImpl) parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := utils.ParseDateIn(fromStr, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDateRange
	}
	to, err := utils.ParseDateIn(toStr, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDateRange
	}
	return from, to, nil
}

func sourceError(err error) error {
	if errors.Is(err, attendance.ErrPunchSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", attendance.ErrPunchSourceUnavailable, err)
}

func punchesOf(punches []attendance.PunchEvent, userID int64) []attendance.PunchEvent {
	out := make([]attendance.PunchEvent, 0)
	for _, p := range punches {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}
