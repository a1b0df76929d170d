package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var memberColumnNames = []string{
	"id", "source", "external_id", "name", "status",
	"first_work_start_date", "last_work_start_date", "last_work_end_date",
	"contract_end_date", "first_counseling_date", "work_history",
	"created_at", "updated_at",
}

type stubMemberRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubMemberRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func TestScanMember_Success(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 21, 15, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	createdAt := time.Now().UTC()

	row := stubMemberRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 13 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "member-1"
		*(dest[1].(*string)) = string(member.SourceNotion)
		*(dest[2].(*string)) = "notion-1"
		*(dest[3].(*string)) = "Taro"
		*(dest[4].(*string)) = string(member.StatusWorking)

		first := dest[5].(*sql.NullTime)
		first.Time = start
		first.Valid = true

		*(dest[10].(*[]byte)) = []byte(`[{"start_date":"2025-06-21","project_name":"Alpha"},{"start_date":"2025-01-06","end_date":"2025-06-10"}]`)
		*(dest[11].(*time.Time)) = createdAt
		*(dest[12].(*time.Time)) = createdAt
		return nil
	}}

	m, err := scanMember(row)
	if err != nil {
		t.Fatalf("scanMember returned error: %v", err)
	}

	want := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	if m.FirstWorkStartDate == nil || !m.FirstWorkStartDate.Equal(want) {
		t.Fatalf("expected first work start %s, got %+v", want, m.FirstWorkStartDate)
	}
	if m.LastWorkStartDate != nil || m.ContractEndDate != nil {
		t.Fatalf("expected null dates to stay nil, got %+v", m)
	}
	if len(m.WorkHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(m.WorkHistory))
	}
	if m.WorkHistory[0].ProjectName != "Alpha" || m.WorkHistory[0].EndDate != nil {
		t.Fatalf("unexpected first history entry: %+v", m.WorkHistory[0])
	}
	if m.WorkHistory[1].EndDate == nil || !m.WorkHistory[1].EndDate.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected second history entry: %+v", m.WorkHistory[1])
	}
}

func TestScanMember_NoRows(t *testing.T) {
	t.Parallel()

	row := stubMemberRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanMember(row)
	if !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDecodeWorkHistory_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := decodeWorkHistory([]byte(`[{"start_date":"21/06/2025"}]`)); err == nil {
		t.Fatalf("expected malformed start date to fail")
	}
	history, err := decodeWorkHistory(nil)
	if err != nil || history != nil {
		t.Fatalf("expected empty history, got %+v, %v", history, err)
	}
}

func TestTranslateMemberPgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: memberUniqueViolationCode}
	if !errors.Is(translateMemberPgError(uniqueErr), member.ErrExternalIDAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrExternalIDAlreadyExists")
	}

	statusErr := &pgconn.PgError{Code: memberCheckViolationCode, ConstraintName: "members_status_check"}
	if !errors.Is(translateMemberPgError(statusErr), member.ErrInvalidStatus) {
		t.Fatalf("expected status check violation to map to ErrInvalidStatus")
	}

	sourceErr := &pgconn.PgError{Code: memberCheckViolationCode, ConstraintName: "members_source_check"}
	if !errors.Is(translateMemberPgError(sourceErr), member.ErrInvalidSource) {
		t.Fatalf("expected source check violation to map to ErrInvalidSource")
	}

	if !errors.Is(translateMemberPgError(pgx.ErrNoRows), member.ErrMemberNotFound) {
		t.Fatalf("expected no rows to map to ErrMemberNotFound")
	}

	other := errors.New("other")
	if translateMemberPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestMemberRepository_List_WithFilters(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewMemberRepository(mock)
	status := member.StatusWorking
	source := member.SourceNotion

	now := time.Now().UTC()
	rows := pgxmock.NewRows(memberColumnNames).
		AddRow("m-1", "notion", "n-1", "A", "working", nil, nil, nil, nil, nil, []byte(`[]`), now, now).
		AddRow("m-2", "notion", "n-2", "B", "working", nil, nil, nil, nil, nil, []byte(`[]`), now, now).
		AddRow("m-3", "notion", "n-3", "C", "working", nil, nil, nil, nil, nil, []byte(`[]`), now, now)

	mock.ExpectQuery(`SELECT .+ FROM members WHERE status = \$1 AND source = \$2 ORDER BY created_at DESC, id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(string(status), string(source), 3, 0).
		WillReturnRows(rows)

	members, nextToken, err := repo.List(context.Background(), member.ListMembersFilter{
		Status: &status,
		Source: &source,
		Limit:  2,
		Offset: 0,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if nextToken != "2" {
		t.Fatalf("expected next token '2', got %s", nextToken)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_List_InvalidPaging(t *testing.T) {
	t.Parallel()

	repo := NewMemberRepository(nil)

	if _, _, err := repo.List(context.Background(), member.ListMembersFilter{Limit: 0}); !errors.Is(err, member.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), member.ListMembersFilter{Limit: 10, Offset: -1}); !errors.Is(err, member.ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestMemberRepository_FindByExternalID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM members WHERE source = \$1 AND external_id = \$2 LIMIT 1`).
		WithArgs("google_sheets", "row-9").
		WillReturnError(pgx.ErrNoRows)

	repo := NewMemberRepository(mock)
	if _, err := repo.FindByExternalID(context.Background(), member.SourceGoogleSheets, "row-9"); !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	start := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)
	in := &member.Member{
		ID:                "m-1",
		ExternalID:        "n-1",
		Source:            member.SourceNotion,
		Name:              "Taro",
		Status:            member.StatusWorking,
		LastWorkStartDate: &start,
		WorkHistory:       []member.WorkHistoryEntry{{StartDate: start, ProjectName: "Alpha"}},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	history := []byte(`[{"start_date":"2025-06-21","project_name":"Alpha"}]`)
	mock.ExpectQuery(`INSERT INTO members`).
		WithArgs("m-1", "notion", "n-1", "Taro", "working", nil, start, nil, nil, nil, history, now, now).
		WillReturnRows(pgxmock.NewRows(memberColumnNames).
			AddRow("m-1", "notion", "n-1", "Taro", "working", nil, start, nil, nil, nil, history, now, now))

	repo := NewMemberRepository(mock)
	created, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.LastWorkStartDate == nil || !created.LastWorkStartDate.Equal(start) {
		t.Fatalf("unexpected last work start: %+v", created.LastWorkStartDate)
	}
	if len(created.WorkHistory) != 1 || created.WorkHistory[0].ProjectName != "Alpha" {
		t.Fatalf("unexpected work history: %+v", created.WorkHistory)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM members WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewMemberRepository(mock)
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_DatasetVersion(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	updated := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\), MAX\(updated_at\) FROM members`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "max"}).AddRow(int64(42), updated))
	mock.ExpectQuery(`SELECT COUNT\(\*\), MAX\(updated_at\) FROM members`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "max"}).AddRow(int64(0), nil))

	repo := NewMemberRepository(mock)

	version, err := repo.DatasetVersion(context.Background())
	if err != nil {
		t.Fatalf("DatasetVersion returned error: %v", err)
	}
	if version.Count != 42 || !version.LastUpdatedAt.Equal(updated) {
		t.Fatalf("unexpected version: %+v", version)
	}

	empty, err := repo.DatasetVersion(context.Background())
	if err != nil {
		t.Fatalf("DatasetVersion returned error: %v", err)
	}
	if empty.Count != 0 || !empty.LastUpdatedAt.IsZero() {
		t.Fatalf("expected zero version, got %+v", empty)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_ListAll(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM members ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(memberColumnNames).
			AddRow("a", "manual", "x-1", "A", "working", nil, nil, nil, nil, nil, []byte(`[]`), now, now).
			AddRow("b", "manual", "x-2", "B", "inactive", nil, nil, nil, nil, nil, []byte(`[]`), now, now))

	repo := NewMemberRepository(mock)
	members, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(members) != 2 || members[0].ID != "a" || members[1].Status != member.StatusInactive {
		t.Fatalf("unexpected members: %+v", members)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
