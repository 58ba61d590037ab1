package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewHolidayRepository(db *database.DB, loc *time.Location) holiday.HolidayRepository {
	if loc == nil {
		loc = time.Local
	}
	return &holidayRepositoryImpl{db: db, loc: loc}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, slot holiday.Slot) (holiday.Slot, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return holiday.Slot{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO holiday_slots (id, slot_date, from_minute, to_minute, name, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (slot_date) DO UPDATE
		SET from_minute = EXCLUDED.from_minute,
			to_minute = EXCLUDED.to_minute,
			name = EXCLUDED.name
		RETURNING id, slot_date, from_minute, to_minute, name, created_at
	`
	saved, err := r.scan(q.QueryRow(ctx, query,
		id.String(), dateOnly(slot.Date), toMinute(slot.From), toMinute(slot.To), slot.Name,
	))
	if err != nil {
		return holiday.Slot{}, fmt.Errorf("failed to create holiday slot: %w", err)
	}
	return saved, nil
}

// ListByRange implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]holiday.Slot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, slot_date, from_minute, to_minute, name, created_at
		FROM holiday_slots
		WHERE slot_date BETWEEN $1 AND $2
		ORDER BY slot_date
	`
	rows, err := q.Query(ctx, query, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list holiday slots: %w", err)
	}
	defer rows.Close()

	var slots []holiday.Slot
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holiday slots: %w", err)
	}
	return slots, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM holiday_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday slot: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepositoryImpl) scan(row pgx.Row) (holiday.Slot, error) {
	var (
		s        holiday.Slot
		from, to int
	)
	if err := row.Scan(&s.ID, &s.Date, &from, &to, &s.Name, &s.CreatedAt); err != nil {
		return holiday.Slot{}, err
	}
	s.Date = inLocation(s.Date, r.loc)
	s.From = time.Duration(from) * time.Minute
	s.To = time.Duration(to) * time.Minute
	return s, nil
}

func toMinute(d time.Duration) int {
	return int(d / time.Minute)
}
