package main

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLedgerService struct {
	attendance.LedgerService
	requests []attendance.SyncPunchesRequest
	err      error
}

func (s *recordingLedgerService) SyncPunches(ctx context.Context, req attendance.SyncPunchesRequest) (attendance.SyncPunchesResponse, error) {
	s.requests = append(s.requests, req)
	return attendance.SyncPunchesResponse{Users: 1, Punches: 4, Stored: 4}, s.err
}

func TestSyncOnce(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	svc := &recordingLedgerService{}

	today := utils.DayOf(time.Now().In(loc))
	require.NoError(t, syncOnce(context.Background(), svc, 2, loc))

	require.Len(t, svc.requests, 1)
	assert.Equal(t, utils.DateKey(today.AddDate(0, 0, -2)), svc.requests[0].From)
	assert.Equal(t, utils.DateKey(today), svc.requests[0].To)
}

func TestSyncOnce_ReturnsJobError(t *testing.T) {
	svc := &recordingLedgerService{err: attendance.ErrDeviceAuthFailed}

	err := syncOnce(context.Background(), svc, 0, time.UTC)
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrDeviceAuthFailed)
	assert.Len(t, svc.requests, 1)
}
