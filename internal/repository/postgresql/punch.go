package postgresql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewPunchRepository(db *database.DB, loc *time.Location) attendance.PunchRepository {
	if loc == nil {
		loc = time.Local
	}
	return &punchRepositoryImpl{db: db, loc: loc}
}

// FetchUsers implements attendance.PunchSource.
func (r *punchRepositoryImpl) FetchUsers(ctx context.Context) (attendance.Directory, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name FROM ledger_users`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make(attendance.Directory)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// FetchPunches implements attendance.PunchSource.
func (r *punchRepositoryImpl) FetchPunches(ctx context.Context, from, to time.Time) ([]attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	start := utils.DayOf(from.In(r.loc))
	end := utils.DayOf(to.In(r.loc)).AddDate(0, 0, 1)

	query := `
		SELECT id, user_id, punched_at
		FROM punches
		WHERE punched_at >= $1 AND punched_at < $2
		ORDER BY user_id NULLS LAST, punched_at
	`
	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []attendance.PunchEvent
	for rows.Next() {
		var p attendance.PunchEvent
		if err := rows.Scan(&p.ID, &p.UserID, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		p.Timestamp = p.Timestamp.In(r.loc)
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating punches: %w", err)
	}
	return punches, nil
}

// UpsertPunches implements attendance.PunchRepository. Punches are staged with
// COPY and merged on the device id so re-syncing a range is idempotent.
func (r *punchRepositoryImpl) UpsertPunches(ctx context.Context, punches []attendance.PunchEvent) (int64, error) {
	if len(punches) == 0 {
		return 0, nil
	}

	var stored int64
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `
			CREATE TEMP TABLE punches_staging (
				id         BIGINT,
				user_id    BIGINT,
				punched_at TIMESTAMPTZ
			) ON COMMIT DROP
		`); err != nil {
			return fmt.Errorf("failed to create staging table: %w", err)
		}

		_, err := q.CopyFrom(ctx,
			pgx.Identifier{"punches_staging"},
			[]string{"id", "user_id", "punched_at"},
			pgx.CopyFromSlice(len(punches), func(i int) ([]any, error) {
				p := punches[i]
				return []any{p.ID, p.UserID, p.Timestamp}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy punches: %w", err)
		}

		tag, err := q.Exec(ctx, `
			INSERT INTO punches (id, user_id, punched_at, synced_at)
			SELECT DISTINCT ON (id) id, user_id, punched_at, NOW()
			FROM punches_staging
			ORDER BY id
			ON CONFLICT (id) DO UPDATE
			SET user_id = EXCLUDED.user_id,
				punched_at = EXCLUDED.punched_at,
				synced_at = EXCLUDED.synced_at
			WHERE punches.user_id IS DISTINCT FROM EXCLUDED.user_id
			   OR punches.punched_at <> EXCLUDED.punched_at
		`)
		if err != nil {
			return fmt.Errorf("failed to merge punches: %w", err)
		}
		stored = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// UpsertUsers implements attendance.PunchRepository.
func (r *punchRepositoryImpl) UpsertUsers(ctx context.Context, users attendance.Directory) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`
			INSERT INTO ledger_users (id, name, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, updated_at = NOW()
		`, id, users[id])
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		tx, ok := GetQuerier(ctx, r.db).(pgx.Tx)
		if !ok {
			return fmt.Errorf("failed to upsert users: no transaction")
		}
		results := tx.SendBatch(ctx, batch)
		for range ids {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert user: %w", err)
			}
		}
		return results.Close()
	})
}
