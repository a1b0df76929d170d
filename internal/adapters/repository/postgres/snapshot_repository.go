package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	pgdb "github.com/ogurasousui/weekly-ops-dashboard/internal/platform/db/postgres"
)

const snapshotUniqueViolationCode = "23505"

// SnapshotRepository は公開済み週次集計を weekly_report_snapshots に保存します。
type SnapshotRepository struct {
	pool pgdb.Queryer
}

// NewSnapshotRepository は SnapshotRepository を生成します。
func NewSnapshotRepository(pool pgdb.Queryer) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save はスナップショットを保存し、DB 側で確定した公開時刻を反映して返します。
func (r *SnapshotRepository) Save(ctx context.Context, s *weeklystatus.Snapshot) (*weeklystatus.Snapshot, error) {
	if s == nil || s.Report == nil {
		return nil, fmt.Errorf("postgres: snapshot report is required")
	}

	payload, err := json.Marshal(s.Report)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode snapshot report: %w", err)
	}

	week := s.Report.Week
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO weekly_report_snapshots (id, week_key, year, month, week_in_month, start_date, end_date, report, member_count, published_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, published_at
    `,
		s.ID,
		s.WeekKey,
		week.Year,
		int(week.Month),
		week.WeekInMonth,
		nullableTime(&week.StartDate),
		nullableTime(&week.EndDate),
		payload,
		s.MemberCount,
		s.PublishedAt,
	)

	saved := *s
	if err := row.Scan(&saved.ID, &saved.PublishedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == snapshotUniqueViolationCode {
			return nil, weeklystatus.ErrSnapshotAlreadyExists
		}
		return nil, err
	}
	saved.PublishedAt = saved.PublishedAt.UTC()
	return &saved, nil
}
