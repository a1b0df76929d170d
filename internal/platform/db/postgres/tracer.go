package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/logger"
)

const maxLoggedSQLLength = 200

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// slowQueryTracer は threshold を超えたクエリを Warn、失敗したクエリを Debug で記録します。
// クエリ引数は記録しません。
type slowQueryTracer struct {
	log       *logger.Logger
	threshold time.Duration
	now       func() time.Time
}

func newSlowQueryTracer(log *logger.Logger, threshold time.Duration) *slowQueryTracer {
	return &slowQueryTracer{log: log, threshold: threshold, now: time.Now}
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: t.now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(qs.start)

	if data.Err != nil {
		t.log.Debug("postgres query failed", "sql", compactSQL(qs.sql), "duration", elapsed, "error", data.Err)
		return
	}
	if t.threshold > 0 && elapsed >= t.threshold {
		t.log.Warn("slow postgres query", "sql", compactSQL(qs.sql), "duration", elapsed, "rows", data.CommandTag.RowsAffected())
	}
}

func compactSQL(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	if len(s) > maxLoggedSQLLength {
		return s[:maxLoggedSQLLength] + "..."
	}
	return s
}
