package weeklystatus

import (
	"context"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
)

// MemberSource は集計対象となるメンバー集合を提供します。
type MemberSource interface {
	ListAll(ctx context.Context) ([]*member.Member, error)
	DatasetVersion(ctx context.Context) (member.DatasetVersion, error)
}

// SnapshotRepository は公開済み週次集計の永続化を行います。
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *Snapshot) (*Snapshot, error)
}

// ReportCache は週次集計のキャッシュです。キーが無い場合は ErrCacheMiss を返します。
type ReportCache interface {
	Get(ctx context.Context, key string) (*Report, error)
	Set(ctx context.Context, key string, report *Report, ttl time.Duration) error
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// Logger は集計時の警告出力先です。
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Recorder は集計処理のメトリクスを記録します。
type Recorder interface {
	ObserveAggregation(kind string, duration time.Duration, members int)
	AddDataQualityWarnings(code string, n int)
	RecordCacheLookup(hit bool)
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
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

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*Report, error) {
	return nil, ErrCacheMiss
}

func (noopCache) Set(context.Context, string, *Report, time.Duration) error {
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

type noopRecorder struct{}

func (noopRecorder) ObserveAggregation(string, time.Duration, int) {}
func (noopRecorder) AddDataQualityWarnings(string, int)            {}
func (noopRecorder) RecordCacheLookup(bool)                        {}
