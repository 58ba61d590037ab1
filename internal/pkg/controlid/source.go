package controlid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
)

// PunchSource exposes the device as an attendance.PunchSource
type PunchSource struct {
	client *Client
	loc    *time.Location
}

func NewPunchSource(client *Client, loc *time.Location) *PunchSource {
	if loc == nil {
		loc = time.Local
	}
	return &PunchSource{client: client, loc: loc}
}

// FetchUsers implements attendance.PunchSource.
func (s *PunchSource) FetchUsers(ctx context.Context) (attendance.Directory, error) {
	return attendance.Directory(s.client.Users(ctx)), nil
}

// FetchPunches implements attendance.PunchSource.
func (s *PunchSource) FetchPunches(ctx context.Context, from, to time.Time) ([]attendance.PunchEvent, error) {
	logs, err := s.client.AccessLogs(ctx, from, to, s.loc)
	if err != nil {
		var apiErr *APIError
		if errors.Is(err, ErrLoginRejected) || (errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %w", attendance.ErrDeviceAuthFailed, err)
		}
		return nil, fmt.Errorf("failed to fetch access logs: %w", err)
	}

	punches := make([]attendance.PunchEvent, 0, len(logs))
	for _, l := range logs {
		punches = append(punches, attendance.PunchEvent{ID: l.ID, UserID: l.UserID, Timestamp: l.Time})
	}
	return punches, nil
}
