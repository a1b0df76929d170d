package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/adapters/cache/redis"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/adapters/repository/postgres"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/config"
	pg "github.com/ogurasousui/weekly-ops-dashboard/internal/platform/db/postgres"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/logger"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/metrics"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const reportCachePrefix = "weekly_ops:"

func main() {
	os.Exit(serve(os.Args[1:]))
}

// serve は終了コードを返します。defer による後処理は os.Exit の前に必ず実行されます。
func serve(args []string) int {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.EffectivePath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database, log.With("component", "postgres"))
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	memberRepo := postgres.NewMemberRepository(dbPool)
	snapshotRepo := postgres.NewSnapshotRepository(dbPool)

	reportOpts := []weeklystatus.Option{
		weeklystatus.WithLogger(log.With("component", "weeklystatus")),
		weeklystatus.WithLocation(cfg.Report.Location),
	}

	var interceptors []grpc.UnaryServerInterceptor
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)
		reportOpts = append(reportOpts, weeklystatus.WithRecorder(m))
		interceptors = append(interceptors, m.UnaryServerInterceptor())
		metricsServer = m.NewHTTPServer(cfg.Metrics.ListenAddr, cfg.Metrics.Path)
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		defer rdb.Close()
		reportOpts = append(reportOpts, weeklystatus.WithCache(redis.NewReportCache(rdb, reportCachePrefix), cfg.Report.CacheTTL))
		log.Info("weekly report cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Report.CacheTTL)
	}

	reportSvc := weeklystatus.NewService(memberRepo, snapshotRepo, nil, txManager, reportOpts...)
	memberSvc := member.NewService(memberRepo, nil, txManager)
	grpcServer := server.New(cfg.Server.ListenAddr, reportSvc, memberSvc, log, interceptors...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})

	if metricsServer != nil {
		g.Go(func() error {
			log.Info("metrics server listening", "addr", metricsServer.Addr, "path", cfg.Metrics.Path)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
