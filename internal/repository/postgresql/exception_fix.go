package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type exceptionFixRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewExceptionFixRepository(db *database.DB, loc *time.Location) attendance.ExceptionFixRepository {
	if loc == nil {
		loc = time.Local
	}
	return &exceptionFixRepositoryImpl{db: db, loc: loc}
}

const exceptionFixColumns = `id, user_id, fix_date, shift, in_time, out_time, reason, created_by, created_at, updated_at`

// Upsert implements attendance.ExceptionFixRepository.
func (r *exceptionFixRepositoryImpl) Upsert(ctx context.Context, fix attendance.ExceptionFix) (attendance.ExceptionFix, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.ExceptionFix{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO exception_fixes (id, user_id, fix_date, shift, in_time, out_time, reason, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (user_id, fix_date) DO UPDATE
		SET shift = EXCLUDED.shift,
			in_time = EXCLUDED.in_time,
			out_time = EXCLUDED.out_time,
			reason = EXCLUDED.reason,
			created_by = COALESCE(EXCLUDED.created_by, exception_fixes.created_by),
			updated_at = NOW()
		RETURNING ` + exceptionFixColumns

	saved, err := r.scan(q.QueryRow(ctx, query,
		id.String(), fix.UserID, dateOnly(fix.Date), fix.Shift, fix.InTime, fix.OutTime, fix.Reason, fix.CreatedBy,
	))
	if err != nil {
		return attendance.ExceptionFix{}, fmt.Errorf("failed to upsert exception fix: %w", err)
	}
	return saved, nil
}

// ListByRange implements attendance.ExceptionFixRepository.
func (r *exceptionFixRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.ExceptionFix, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + exceptionFixColumns + `
		FROM exception_fixes
		WHERE fix_date BETWEEN $1 AND $2
		ORDER BY updated_at, fix_date, user_id
	`
	rows, err := q.Query(ctx, query, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list exception fixes: %w", err)
	}
	defer rows.Close()

	var fixes []attendance.ExceptionFix
	for rows.Next() {
		f, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exception fix: %w", err)
		}
		fixes = append(fixes, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exception fixes: %w", err)
	}
	return fixes, nil
}

// GetByID implements attendance.ExceptionFixRepository.
func (r *exceptionFixRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.ExceptionFix, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + exceptionFixColumns + ` FROM exception_fixes WHERE id = $1`
	f, err := r.scan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ExceptionFix{}, attendance.ErrFixNotFound
		}
		return attendance.ExceptionFix{}, fmt.Errorf("failed to get exception fix: %w", err)
	}
	return f, nil
}

// Delete implements attendance.ExceptionFixRepository.
func (r *exceptionFixRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM exception_fixes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exception fix: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrFixNotFound
	}
	return nil
}

func (r *exceptionFixRepositoryImpl) scan(row pgx.Row) (attendance.ExceptionFix, error) {
	var f attendance.ExceptionFix
	err := row.Scan(
		&f.ID, &f.UserID, &f.Date, &f.Shift, &f.InTime, &f.OutTime, &f.Reason, &f.CreatedBy,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return attendance.ExceptionFix{}, err
	}
	f.Date = inLocation(f.Date, r.loc)
	return f, nil
}

// dateOnly strips the clock so DATE columns compare on the local calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inLocation re-anchors a DATE column value on midnight in loc.
func inLocation(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
