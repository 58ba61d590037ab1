package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	started := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_SkipsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(context.Background())
	s.AddJob("never", 0, func(ctx context.Context) error { return nil })

	assert.Empty(t, s.jobs)
	s.Start()
	s.Stop()
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(context.Background())
	boom := errors.New("boom")

	var order []string
	s.AddJob("first", time.Minute, func(ctx context.Context) error {
		order = append(order, "first")
		return boom
	})
	s.AddJob("second", time.Minute, func(ctx context.Context) error {
		order = append(order, "second")
		panic("bad job")
	})
	s.AddJob("third", time.Minute, func(ctx context.Context) error {
		order = append(order, "third")
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "second panicked")
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	s := NewScheduler(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	s.AddJob("blocking", time.Hour, func(ctx context.Context) error {
		defer wg.Done()
		<-ctx.Done()
		return ctx.Err()
	})

	s.Start()
	s.Stop()
	wg.Wait()
}

type fakeLedgerService struct {
	attendance.LedgerService
	mu   sync.Mutex
	reqs []attendance.SyncPunchesRequest
	err  error
}

func (f *fakeLedgerService) SyncPunches(ctx context.Context, req attendance.SyncPunchesRequest) (attendance.SyncPunchesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return attendance.SyncPunchesResponse{}, f.err
	}
	return attendance.SyncPunchesResponse{Users: 2, Punches: 10, Stored: 4}, nil
}

func TestPunchSyncJobs_SyncRecentPunches(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	svc := &fakeLedgerService{}
	jobs := NewPunchSyncJobs(svc, time.Minute, 3, loc)
	// 01:00 UTC is still the previous day in ART
	jobs.now = func() time.Time { return time.Date(2024, time.March, 6, 1, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.SyncRecentPunches(context.Background()))
	require.Len(t, svc.reqs, 1)
	assert.Equal(t, attendance.SyncPunchesRequest{From: "2024-03-02", To: "2024-03-05"}, svc.reqs[0])
}

func TestPunchSyncJobs_PropagatesError(t *testing.T) {
	svc := &fakeLedgerService{err: attendance.ErrPunchCacheDisabled}
	jobs := NewPunchSyncJobs(svc, time.Minute, 1, time.UTC)

	s := NewScheduler(context.Background())
	jobs.RegisterJobs(s)

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, attendance.ErrPunchCacheDisabled)
	assert.Len(t, svc.reqs, 1)
}
