package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestSnapshotRepository_Save(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	week := fiscalweek.WeekRange(2025, time.July, 2)
	published := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	snapshot := &weeklystatus.Snapshot{
		ID:          "snap-1",
		WeekKey:     week.Key(),
		Report:      weeklystatus.Classify(nil, week),
		MemberCount: 0,
		PublishedAt: published,
	}

	mock.ExpectQuery(`INSERT INTO weekly_report_snapshots`).
		WithArgs("snap-1", "2025-07-w2", 2025, 7, 2, week.StartDate, week.EndDate, pgxmock.AnyArg(), 0, published).
		WillReturnRows(pgxmock.NewRows([]string{"id", "published_at"}).AddRow("snap-1", published))

	repo := NewSnapshotRepository(mock)
	saved, err := repo.Save(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID != "snap-1" || !saved.PublishedAt.Equal(published) || saved.Report != snapshot.Report {
		t.Fatalf("unexpected saved snapshot: %+v", saved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSnapshotRepository_Save_Duplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	week := fiscalweek.WeekRange(2025, time.July, 2)
	mock.ExpectQuery(`INSERT INTO weekly_report_snapshots`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: snapshotUniqueViolationCode})

	repo := NewSnapshotRepository(mock)
	_, err = repo.Save(context.Background(), &weeklystatus.Snapshot{ID: "snap-1", WeekKey: week.Key(), Report: weeklystatus.Classify(nil, week)})
	if !errors.Is(err, weeklystatus.ErrSnapshotAlreadyExists) {
		t.Fatalf("expected ErrSnapshotAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSnapshotRepository_Save_RequiresReport(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository(nil)
	if _, err := repo.Save(context.Background(), &weeklystatus.Snapshot{ID: "snap-1"}); err == nil {
		t.Fatalf("expected error for missing report")
	}
}
