package member

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service はメンバーの取り込みと参照に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
	newID func() string
}

// UseCase はメンバーユースケースの公開インターフェースです。
type UseCase interface {
	ImportMember(ctx context.Context, in ImportMemberInput) (*ImportMemberResult, error)
	GetMember(ctx context.Context, in GetMemberInput) (*Member, error)
	ListMembers(ctx context.Context, in ListMembersInput) (*ListMembersResult, error)
	DeleteMember(ctx context.Context, in DeleteMemberInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx, newID: uuid.NewString}
}

// ImportMemberInput は外部ソースから取り込むメンバー 1 件分の入力です。
type ImportMemberInput struct {
	Source              Source
	ExternalID          string
	Name                string
	Status              Status
	FirstWorkStartDate  *time.Time
	LastWorkStartDate   *time.Time
	LastWorkEndDate     *time.Time
	ContractEndDate     *time.Time
	FirstCounselingDate *time.Time
	WorkHistory         []WorkHistoryInput
}

// WorkHistoryInput は稼働履歴の入力です。
type WorkHistoryInput struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ProjectName string
}

// ImportMemberResult は取り込み結果です。
type ImportMemberResult struct {
	Member  *Member
	Created bool
}

// GetMemberInput はメンバー取得時の入力です。
type GetMemberInput struct {
	ID string
}

// DeleteMemberInput はメンバー削除時の入力です。
type DeleteMemberInput struct {
	ID string
}

// ListMembersInput は一覧取得時の入力です。
type ListMembersInput struct {
	PageSize  int
	PageToken string
	Status    *Status
	Source    *Source
}

// ListMembersResult は一覧取得結果を表します。
type ListMembersResult struct {
	Members       []*Member
	NextPageToken string
}

// ImportMember は (source, external_id) をキーにメンバーを作成または更新します。
func (s *Service) ImportMember(ctx context.Context, in ImportMemberInput) (*ImportMemberResult, error) {
	source, err := normalizeSource(in.Source)
	if err != nil {
		return nil, err
	}

	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" {
		return nil, ErrInvalidExternalID
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}

	history, err := normalizeWorkHistory(in.WorkHistory)
	if err != nil {
		return nil, err
	}

	var result *ImportMemberResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByExternalID(txCtx, source, externalID)
		if err != nil && !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		now := s.clock.Now()
		m := &Member{
			ExternalID:          externalID,
			Source:              source,
			Name:                name,
			Status:              status,
			FirstWorkStartDate:  normalizeDate(in.FirstWorkStartDate),
			LastWorkStartDate:   normalizeDate(in.LastWorkStartDate),
			LastWorkEndDate:     normalizeDate(in.LastWorkEndDate),
			ContractEndDate:     normalizeDate(in.ContractEndDate),
			FirstCounselingDate: normalizeDate(in.FirstCounselingDate),
			WorkHistory:         history,
			UpdatedAt:           now,
		}

		if existing == nil {
			m.ID = s.newID()
			m.CreatedAt = now
			created, err := s.repo.Create(txCtx, m)
			if err != nil {
				return err
			}
			result = &ImportMemberResult{Member: created, Created: true}
			return nil
		}

		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		updated, err := s.repo.Update(txCtx, m)
		if err != nil {
			return err
		}
		result = &ImportMemberResult{Member: updated}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetMember はメンバーを取得します。
func (s *Service) GetMember(ctx context.Context, in GetMemberInput) (*Member, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Member
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListMembers はメンバーの一覧を取得します。
func (s *Service) ListMembers(ctx context.Context, in ListMembersInput) (*ListMembersResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	filter := ListMembersFilter{Limit: limit, Offset: offset}
	if in.Status != nil {
		status, err := normalizeStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if in.Source != nil {
		source, err := normalizeSource(*in.Source)
		if err != nil {
			return nil, err
		}
		filter.Source = &source
	}

	var (
		members   []*Member
		nextToken string
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, token, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		members = found
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListMembersResult{Members: members, NextPageToken: nextToken}, nil
}

// DeleteMember はメンバーを削除します。
func (s *Service) DeleteMember(ctx context.Context, in DeleteMemberInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

func normalizeSource(raw Source) (Source, error) {
	source := Source(strings.ToLower(strings.TrimSpace(string(raw))))
	switch source {
	case SourceNotion, SourceGoogleSheets, SourceManual:
		return source, nil
	default:
		return "", ErrInvalidSource
	}
}

func normalizeStatus(raw Status) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(string(raw))))
	if !IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsValidStatus は既知のステータスかを返します。
func IsValidStatus(status Status) bool {
	switch status {
	case StatusWorking,
		StatusLearningStarted,
		StatusRecruiting,
		StatusTraining,
		StatusProjectReleased,
		StatusWorkEnded,
		StatusContractEnded,
		StatusInactive:
		return true
	default:
		return false
	}
}

// normalizeWorkHistory は開始日順に並べ替えます。終了日が開始日より前の履歴も診断のため保持します。
func normalizeWorkHistory(in []WorkHistoryInput) ([]WorkHistoryEntry, error) {
	if len(in) == 0 {
		return nil, nil
	}

	history := make([]WorkHistoryEntry, 0, len(in))
	for i, h := range in {
		start := normalizeDate(h.StartDate)
		if start == nil {
			return nil, fmt.Errorf("work_history[%d].start_date: %w", i, ErrInvalidWorkHistory)
		}
		history = append(history, WorkHistoryEntry{
			StartDate:   *start,
			EndDate:     normalizeDate(h.EndDate),
			ProjectName: strings.TrimSpace(h.ProjectName),
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].StartDate.Before(history[j].StartDate)
	})
	return history, nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}

	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
