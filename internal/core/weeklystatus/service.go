package weeklystatus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	"golang.org/x/sync/errgroup"
)

const (
	maxWindowDays   = 3650
	defaultCacheTTL = 10 * time.Minute
)

// Service は週次集計に関するユースケースをまとめます。
type Service struct {
	members   MemberSource
	snapshots SnapshotRepository
	clock     Clock
	tx        TransactionManager
	cache     ReportCache
	cacheTTL  time.Duration
	logger    Logger
	recorder  Recorder
	loc       *time.Location
	newID     func() string
}

// UseCase は週次集計ユースケースの公開インターフェースです。
type UseCase interface {
	GetWeeklyReport(ctx context.Context, in WeeklyReportInput) (*Report, error)
	GetCurrentWeeklyReport(ctx context.Context) (*Report, error)
	ListMonthlyReports(ctx context.Context, in MonthlyReportsInput) (*MonthlyReports, error)
	GetContinuationProfile(ctx context.Context, in ContinuationProfileInput) (*ContinuationProfile, error)
	PublishWeeklyReport(ctx context.Context, in WeeklyReportInput) (*Snapshot, error)
	Today() time.Time
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithCache は集計結果のキャッシュを設定します。ttl が 0 以下の場合は既定値を使います。
func WithCache(cache ReportCache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithLogger はデータ品質警告の出力先を設定します。
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder はメトリクスの記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLocation は「今日」を決めるタイムゾーンを設定します。
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService は Service を生成します。
func NewService(members MemberSource, snapshots SnapshotRepository, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		members:   members,
		snapshots: snapshots,
		clock:     clock,
		tx:        tx,
		cache:     noopCache{},
		cacheTTL:  defaultCacheTTL,
		logger:    noopLogger{},
		recorder:  noopRecorder{},
		loc:       time.UTC,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WeeklyReportInput は週を指定する入力です。
type WeeklyReportInput struct {
	Year        int
	Month       time.Month
	WeekInMonth int
}

// MonthlyReportsInput は月と週の帰属規則を指定する入力です。
type MonthlyReportsInput struct {
	Year  int
	Month time.Month
	Rule  fiscalweek.MonthRule
}

// ContinuationProfileInput は継続率の基準日と期間です。
// ReferenceDate が nil の場合は今日、WindowDays が空の場合は StandardWindows を使います。
type ContinuationProfileInput struct {
	ReferenceDate *time.Time
	WindowDays    []int
}

// Today は設定されたタイムゾーンでの今日の日付を返します。
func (s *Service) Today() time.Time {
	return fiscalweek.Truncate(s.clock.Now().In(s.loc))
}

// GetWeeklyReport は指定週の集計を返します。
func (s *Service) GetWeeklyReport(ctx context.Context, in WeeklyReportInput) (*Report, error) {
	week, err := fiscalweek.ResolveWeek(in.Year, in.Month, in.WeekInMonth)
	if err != nil {
		return nil, err
	}
	return s.reportFor(ctx, week)
}

// GetCurrentWeeklyReport は今日を含む週の集計を返します。
func (s *Service) GetCurrentWeeklyReport(ctx context.Context) (*Report, error) {
	return s.reportFor(ctx, fiscalweek.WeekOf(s.Today()))
}

// ListMonthlyReports は rule に従って月に属する週の集計をまとめて返します。
func (s *Service) ListMonthlyReports(ctx context.Context, in MonthlyReportsInput) (*MonthlyReports, error) {
	rule := in.Rule
	if rule == "" {
		rule = fiscalweek.MonthRuleAnchor
	}

	weeks, err := fiscalweek.WeeksInMonth(in.Year, in.Month, rule)
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, len(weeks))
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		version, members, err := s.loadMembers(txCtx)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(txCtx)
		for i, week := range weeks {
			g.Go(func() error {
				key := cacheKey(week, version)
				if cached, ok := s.cachedReport(gctx, key); ok {
					reports[i] = cached
					return nil
				}
				reports[i] = s.classify(members, week)
				s.storeReport(gctx, key, reports[i])
				return gctx.Err()
			})
		}
		return g.Wait()
	}); err != nil {
		return nil, err
	}

	return &MonthlyReports{Year: in.Year, Month: in.Month, Rule: rule, Reports: reports}, nil
}

// GetContinuationProfile は基準日時点の継続率を期間ごとに返します。
func (s *Service) GetContinuationProfile(ctx context.Context, in ContinuationProfileInput) (*ContinuationProfile, error) {
	windows := in.WindowDays
	if len(windows) == 0 {
		windows = StandardWindows
	}
	for _, days := range windows {
		if days <= 0 || days > maxWindowDays {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, days)
		}
	}

	ref := s.Today()
	if in.ReferenceDate != nil {
		ref = fiscalweek.Truncate(*in.ReferenceDate)
	}

	rates := make([]ContinuationRateDetail, len(windows))
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		members, err := s.members.ListAll(txCtx)
		if err != nil {
			return err
		}

		started := time.Now()
		var g errgroup.Group
		for i, days := range windows {
			g.Go(func() error {
				rates[i] = ContinuationRate(members, ref, days)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		s.recorder.ObserveAggregation("continuation", time.Since(started), len(members))
		return nil
	}); err != nil {
		return nil, err
	}

	return &ContinuationProfile{ReferenceDate: ref, Rates: rates}, nil
}

// PublishWeeklyReport はキャッシュを使わずに集計し、スナップショットとして保存します。
func (s *Service) PublishWeeklyReport(ctx context.Context, in WeeklyReportInput) (*Snapshot, error) {
	week, err := fiscalweek.ResolveWeek(in.Year, in.Month, in.WeekInMonth)
	if err != nil {
		return nil, err
	}

	var saved *Snapshot
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		members, err := s.members.ListAll(txCtx)
		if err != nil {
			return err
		}

		snapshot := &Snapshot{
			ID:          s.newID(),
			WeekKey:     week.Key(),
			Report:      s.classify(members, week),
			MemberCount: len(members),
			PublishedAt: s.clock.Now(),
		}
		result, err := s.snapshots.Save(txCtx, snapshot)
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

func (s *Service) reportFor(ctx context.Context, week fiscalweek.Week) (*Report, error) {
	var report *Report
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		version, err := s.members.DatasetVersion(txCtx)
		if err != nil {
			return err
		}

		key := cacheKey(week, version)
		if cached, ok := s.cachedReport(txCtx, key); ok {
			report = cached
			return nil
		}

		members, err := s.members.ListAll(txCtx)
		if err != nil {
			return err
		}
		report = s.classify(members, week)
		s.storeReport(txCtx, key, report)
		return nil
	}); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *Service) loadMembers(ctx context.Context) (member.DatasetVersion, []*member.Member, error) {
	version, err := s.members.DatasetVersion(ctx)
	if err != nil {
		return member.DatasetVersion{}, nil, err
	}
	members, err := s.members.ListAll(ctx)
	if err != nil {
		return member.DatasetVersion{}, nil, err
	}
	return version, members, nil
}

func (s *Service) classify(members []*member.Member, week fiscalweek.Week) *Report {
	started := time.Now()
	report := Classify(members, week)
	s.recorder.ObserveAggregation("weekly", time.Since(started), len(members))
	s.reportWarnings(week, report.Warnings)
	return report
}

func (s *Service) reportWarnings(week fiscalweek.Week, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}

	counts := make(map[WarningCode]int)
	for _, w := range warnings {
		counts[w.Code]++
		s.logger.Debug("data quality warning",
			"week", week.Label(),
			"member_id", w.MemberID,
			"code", string(w.Code),
			"message", w.Message,
		)
	}
	for code, n := range counts {
		s.recorder.AddDataQualityWarnings(string(code), n)
	}
	s.logger.Warn("weekly report has data quality warnings", "week", week.Label(), "warnings", len(warnings))
}

func (s *Service) cachedReport(ctx context.Context, key string) (*Report, bool) {
	report, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("report cache lookup failed", "key", key, "error", err)
		}
		s.recorder.RecordCacheLookup(false)
		return nil, false
	}
	s.recorder.RecordCacheLookup(true)
	return report, true
}

func (s *Service) storeReport(ctx context.Context, key string, report *Report) {
	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
		s.logger.Warn("report cache store failed", "key", key, "error", err)
	}
}

// cacheKey はメンバー集合の指紋を含めることで、取り込みの度にキャッシュを無効化します。
func cacheKey(week fiscalweek.Week, version member.DatasetVersion) string {
	return fmt.Sprintf("weekly_report:v1:%s:%d:%d", week.Key(), version.Count, version.LastUpdatedAt.UnixNano())
}
