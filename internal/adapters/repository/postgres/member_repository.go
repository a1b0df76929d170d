package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	pgdb "github.com/ogurasousui/weekly-ops-dashboard/internal/platform/db/postgres"
)

const (
	memberUniqueViolationCode = "23505"
	memberCheckViolationCode  = "23514"
)

const memberColumns = `id, source, external_id, name, status,
               first_work_start_date, last_work_start_date, last_work_end_date,
               contract_end_date, first_counseling_date, work_history,
               created_at, updated_at`

// MemberRepository は PostgreSQL を利用したメンバー永続化の実装です。
// 稼働履歴は members.work_history (JSONB) に開始日順で保持します。
type MemberRepository struct {
	pool pgdb.Queryer
}

// NewMemberRepository は MemberRepository を生成します。
func NewMemberRepository(pool pgdb.Queryer) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create はメンバーを新規作成します。
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) (*member.Member, error) {
	history, err := encodeWorkHistory(m.WorkHistory)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO members (id, source, external_id, name, status,
                             first_work_start_date, last_work_start_date, last_work_end_date,
                             contract_end_date, first_counseling_date, work_history,
                             created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING `+memberColumns,
		m.ID,
		string(m.Source),
		m.ExternalID,
		m.Name,
		string(m.Status),
		nullableTime(m.FirstWorkStartDate),
		nullableTime(m.LastWorkStartDate),
		nullableTime(m.LastWorkEndDate),
		nullableTime(m.ContractEndDate),
		nullableTime(m.FirstCounselingDate),
		history,
		m.CreatedAt,
		m.UpdatedAt,
	)

	created, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return created, nil
}

// Update はメンバー情報を更新します。
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) (*member.Member, error) {
	history, err := encodeWorkHistory(m.WorkHistory)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE members
           SET name = $1,
               status = $2,
               first_work_start_date = $3,
               last_work_start_date = $4,
               last_work_end_date = $5,
               contract_end_date = $6,
               first_counseling_date = $7,
               work_history = $8,
               updated_at = $9
         WHERE id = $10
        RETURNING `+memberColumns,
		m.Name,
		string(m.Status),
		nullableTime(m.FirstWorkStartDate),
		nullableTime(m.LastWorkStartDate),
		nullableTime(m.LastWorkEndDate),
		nullableTime(m.ContractEndDate),
		nullableTime(m.FirstCounselingDate),
		history,
		m.UpdatedAt,
		m.ID,
	)

	updated, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return updated, nil
}

// Delete はメンバーを削除します。
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return translateMemberPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

// FindByID は ID でメンバーを取得します。
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+memberColumns+`
          FROM members
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return found, nil
}

// FindByExternalID は取り込み元と外部 ID でメンバーを取得します。
func (r *MemberRepository) FindByExternalID(ctx context.Context, source member.Source, externalID string) (*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+memberColumns+`
          FROM members
         WHERE source = $1 AND external_id = $2
         LIMIT 1
    `, string(source), externalID)

	found, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return found, nil
}

// List はメンバーの一覧を取得します。
func (r *MemberRepository) List(ctx context.Context, filter member.ListMembersFilter) ([]*member.Member, string, error) {
	if filter.Limit <= 0 {
		return nil, "", member.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", member.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)

	if filter.Status != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "status = "+placeholder)
		args = append(args, string(*filter.Status))
	}
	if filter.Source != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "source = "+placeholder)
		args = append(args, string(*filter.Source))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + memberColumns + `
          FROM members` + whereClause + `
         ORDER BY created_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	members, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	if len(members) == limitWithBuffer {
		members = members[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return members, nextToken, nil
}

// ListAll は集計対象となる全メンバーを ID 順で取得します。
func (r *MemberRepository) ListAll(ctx context.Context) ([]*member.Member, error) {
	return r.query(ctx, `
        SELECT `+memberColumns+`
          FROM members
         ORDER BY id
    `)
}

// DatasetVersion はメンバー件数と最終更新時刻を返します。
func (r *MemberRepository) DatasetVersion(ctx context.Context) (member.DatasetVersion, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT COUNT(*), MAX(updated_at) FROM members`)

	var (
		count       int64
		lastUpdated sql.NullTime
	)
	if err := row.Scan(&count, &lastUpdated); err != nil {
		return member.DatasetVersion{}, translateMemberPgError(err)
	}

	version := member.DatasetVersion{Count: int(count)}
	if lastUpdated.Valid {
		version.LastUpdatedAt = lastUpdated.Time.UTC()
	}
	return version, nil
}

func (r *MemberRepository) query(ctx context.Context, query string, args ...any) ([]*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	defer rows.Close()

	members := make([]*member.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, translateMemberPgError(err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, translateMemberPgError(err)
	}
	return members, nil
}

// workHistoryRecord は work_history カラムの JSON 表現です。
type workHistoryRecord struct {
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	ProjectName string  `json:"project_name,omitempty"`
}

func encodeWorkHistory(history []member.WorkHistoryEntry) ([]byte, error) {
	records := make([]workHistoryRecord, 0, len(history))
	for _, e := range history {
		rec := workHistoryRecord{
			StartDate:   e.StartDate.Format(dateLayout),
			ProjectName: e.ProjectName,
		}
		if e.EndDate != nil {
			end := e.EndDate.Format(dateLayout)
			rec.EndDate = &end
		}
		records = append(records, rec)
	}
	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode work history: %w", err)
	}
	return b, nil
}

func decodeWorkHistory(raw []byte) ([]member.WorkHistoryEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var records []workHistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("postgres: decode work history: %w", err)
	}

	history := make([]member.WorkHistoryEntry, 0, len(records))
	for _, rec := range records {
		start, err := time.Parse(dateLayout, rec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("postgres: decode work history start_date: %w", err)
		}
		entry := member.WorkHistoryEntry{StartDate: start, ProjectName: rec.ProjectName}
		if rec.EndDate != nil {
			end, err := time.Parse(dateLayout, *rec.EndDate)
			if err != nil {
				return nil, fmt.Errorf("postgres: decode work history end_date: %w", err)
			}
			entry.EndDate = &end
		}
		history = append(history, entry)
	}
	return history, nil
}

func scanMember(row pgx.Row) (*member.Member, error) {
	var (
		id             string
		source         string
		externalID     string
		name           string
		status         string
		firstStart     sql.NullTime
		lastStart      sql.NullTime
		lastEnd        sql.NullTime
		contractEnd    sql.NullTime
		firstCounsel   sql.NullTime
		rawWorkHistory []byte
		createdAt      time.Time
		updatedAt      time.Time
	)

	if err := row.Scan(
		&id,
		&source,
		&externalID,
		&name,
		&status,
		&firstStart,
		&lastStart,
		&lastEnd,
		&contractEnd,
		&firstCounsel,
		&rawWorkHistory,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, member.ErrMemberNotFound
		}
		return nil, err
	}

	history, err := decodeWorkHistory(rawWorkHistory)
	if err != nil {
		return nil, err
	}

	return &member.Member{
		ID:                  id,
		ExternalID:          externalID,
		Source:              member.Source(source),
		Name:                name,
		Status:              member.Status(status),
		FirstWorkStartDate:  datePtr(firstStart),
		LastWorkStartDate:   datePtr(lastStart),
		LastWorkEndDate:     datePtr(lastEnd),
		ContractEndDate:     datePtr(contractEnd),
		FirstCounselingDate: datePtr(firstCounsel),
		WorkHistory:         history,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

func translateMemberPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return member.ErrMemberNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case memberUniqueViolationCode:
			return member.ErrExternalIDAlreadyExists
		case memberCheckViolationCode:
			switch pgErr.ConstraintName {
			case "members_status_check":
				return member.ErrInvalidStatus
			case "members_source_check":
				return member.ErrInvalidSource
			default:
				return err
			}
		}
	}

	return err
}
