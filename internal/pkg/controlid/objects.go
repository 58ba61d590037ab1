package controlid

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"
)

// User is a person enrolled on the device
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AccessLog is one raw punch as stored by the device
type AccessLog struct {
	ID     int64  `json:"id"`
	Time   int64  `json:"time"`
	UserID *int64 `json:"user_id"`
}

// Punch is an access log placed on the local clock
type Punch struct {
	ID     int64
	UserID *int64
	Time   time.Time
}

type whereClause struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    int64  `json:"value"`
}

type loadObjectsRequest struct {
	Object string        `json:"object"`
	Where  []whereClause `json:"where,omitempty"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset,omitempty"`
}

// maxLogPages stops a device that ignores offset from looping forever.
const maxLogPages = 1000

// Users returns the device directory keyed by id. Users without a name are
// named by their id. Any failure yields an empty directory so a run can still
// show punches by id.
func (c *Client) Users(ctx context.Context) map[int64]string {
	var resp struct {
		Users []User `json:"users"`
	}
	req := loadObjectsRequest{Object: "users", Limit: c.userLimit}
	if err := c.call(ctx, "load_objects.fcgi", req, &resp); err != nil {
		slog.Warn("Control iD users unavailable", "error", err)
		return map[int64]string{}
	}

	users := make(map[int64]string, len(resp.Users))
	for _, u := range resp.Users {
		name := u.Name
		if name == "" {
			name = strconv.FormatInt(u.ID, 10)
		}
		users[u.ID] = name
	}
	return users
}

// AccessLogs returns the punches whose shifted local date is within [from, to],
// ordered by user (unknown users last) and time.
func (c *Client) AccessLogs(ctx context.Context, from, to time.Time, loc *time.Location) ([]Punch, error) {
	if loc == nil {
		loc = time.Local
	}
	start := dayStart(from, loc)
	end := dayStart(to, loc).AddDate(0, 0, 1).Add(-time.Second)

	req := loadObjectsRequest{
		Object: "access_logs",
		Where: []whereClause{
			{Field: "time", Operator: ">=", Value: start.Add(-c.timeOffset).Unix()},
			{Field: "time", Operator: "<=", Value: end.Add(-c.timeOffset).Unix()},
		},
		Limit: c.logLimit,
	}

	var logs []AccessLog
	for page := 0; ; page++ {
		if page == maxLogPages {
			return nil, fmt.Errorf("access logs exceed %d pages of %d", maxLogPages, c.logLimit)
		}

		var resp struct {
			AccessLogs []AccessLog `json:"access_logs"`
		}
		req.Offset = page * c.logLimit
		if err := c.call(ctx, "load_objects.fcgi", req, &resp); err != nil {
			return nil, err
		}
		logs = append(logs, resp.AccessLogs...)
		if len(resp.AccessLogs) < c.logLimit {
			break
		}
		slog.Debug("Control iD access logs page full, fetching next", "offset", req.Offset+c.logLimit)
	}

	punches := make([]Punch, 0, len(logs))
	for _, l := range logs {
		if l.Time <= 0 {
			continue
		}
		ts := time.Unix(l.Time, 0).Add(c.timeOffset).In(loc)
		if ts.Before(start) || ts.After(end) {
			continue
		}
		punches = append(punches, Punch{ID: l.ID, UserID: l.UserID, Time: ts})
	}

	sort.SliceStable(punches, func(i, j int) bool {
		a, b := punches[i], punches[j]
		switch {
		case a.UserID == nil && b.UserID == nil:
			return a.Time.Before(b.Time)
		case a.UserID == nil:
			return false
		case b.UserID == nil:
			return true
		case *a.UserID != *b.UserID:
			return *a.UserID < *b.UserID
		default:
			return a.Time.Before(b.Time)
		}
	})
	return punches, nil
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
