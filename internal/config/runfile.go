package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"gopkg.in/yaml.v3"
)

// RunFile holds the holidays and fixes for an offline ledger run.
type RunFile struct {
	Holidays []HolidayEntry `toml:"holidays" yaml:"holidays"`
	Fixes    []FixEntry     `toml:"fixes" yaml:"fixes"`
}

type HolidayEntry struct {
	Date string `toml:"date" yaml:"date"`
	From string `toml:"from" yaml:"from"`
	To   string `toml:"to" yaml:"to"`
	Name string `toml:"name" yaml:"name"`
}

type FixEntry struct {
	UserID int64  `toml:"user_id" yaml:"user_id"`
	Date   string `toml:"date" yaml:"date"`
	Shift  string `toml:"shift" yaml:"shift"`
	In     string `toml:"in" yaml:"in"`
	Out    string `toml:"out" yaml:"out"`
	Reason string `toml:"reason" yaml:"reason"`
}

// LoadRunFile reads a TOML or YAML run file, picked by extension. A missing file is not an error.
func LoadRunFile(path string) (RunFile, error) {
	if path == "" {
		return RunFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunFile{}, nil
		}
		return RunFile{}, fmt.Errorf("failed to read run file: %w", err)
	}

	var rf RunFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return RunFile{}, fmt.Errorf("failed to decode run file: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &rf); err != nil {
			return RunFile{}, fmt.Errorf("failed to decode run file: %w", err)
		}
	}
	return rf, nil
}

// Calendar builds the holiday calendar. Entries with a bad date or time are rejected.
func (rf RunFile) Calendar(loc *time.Location) (holiday.Calendar, error) {
	slots := make([]holiday.Slot, 0, len(rf.Holidays))
	for i, h := range rf.Holidays {
		slot, err := holiday.ParseSlot(h.Date, h.From, h.To, loc)
		if err != nil {
			return holiday.Calendar{}, fmt.Errorf("holiday %d: %w", i+1, err)
		}
		slot.Name = h.Name
		slots = append(slots, slot)
	}
	return holiday.NewCalendar(slots), nil
}

// ExceptionFixes converts the fix entries, validating them the same way the API does.
func (rf RunFile) ExceptionFixes(loc *time.Location) ([]attendance.ExceptionFix, error) {
	fixes := make([]attendance.ExceptionFix, 0, len(rf.Fixes))
	for i, f := range rf.Fixes {
		req := attendance.UpsertFixRequest{
			UserID:  f.UserID,
			Date:    f.Date,
			Shift:   f.Shift,
			InTime:  f.In,
			OutTime: f.Out,
			Reason:  f.Reason,
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("fix %d: %w", i+1, err)
		}

		day, err := utils.ParseDateIn(f.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("fix %d: %w", i+1, err)
		}
		fixes = append(fixes, attendance.ExceptionFix{
			ID:      fmt.Sprintf("run-%d", i+1),
			UserID:  f.UserID,
			Date:    day,
			Shift:   strings.ToUpper(strings.TrimSpace(f.Shift)),
			InTime:  strings.TrimSpace(f.In),
			OutTime: strings.TrimSpace(f.Out),
			Reason:  strings.TrimSpace(f.Reason),
		})
	}
	return fixes, nil
}
