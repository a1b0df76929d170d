package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultRedisDialTimeout   = 5 * time.Second
	defaultSlowQueryThreshold = 500 * time.Millisecond
	defaultReportCacheTTL     = 10 * time.Minute
	defaultReportTimezone     = "UTC"
	defaultMetricsPath        = "/metrics"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Report   ReportConfig   `yaml:"report"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。SlowQueryThreshold を超えたクエリは警告ログに出力されます。
type DatabaseConfig struct {
	Host                  string        `yaml:"host"`
	Port                  int           `yaml:"port"`
	User                  string        `yaml:"user"`
	Password              string        `yaml:"password"`
	Name                  string        `yaml:"name"`
	SSLMode               string        `yaml:"ssl_mode"`
	MaxOpenConns          int           `yaml:"max_open_conns"`
	MaxIdleConns          int           `yaml:"max_idle_conns"`
	ConnMaxLifetime       time.Duration `yaml:"-"`
	ConnMaxIdleTime       time.Duration `yaml:"-"`
	SlowQueryThreshold    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw    string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw    string        `yaml:"conn_max_idle_time"`
	SlowQueryThresholdRaw string        `yaml:"slow_query_threshold"`
}

// RedisConfig は週次集計キャッシュ用 Redis の設定です。enabled が false の場合キャッシュを使いません。
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	DialTimeout    time.Duration `yaml:"-"`
	DialTimeoutRaw string        `yaml:"dial_timeout"`
}

// LoggingConfig はロガーの設定です。
type LoggingConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// MetricsConfig は Prometheus エンドポイントの設定です。
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
}

// ReportConfig は週次集計に関する設定です。
type ReportConfig struct {
	Timezone    string         `yaml:"timezone"`
	CacheTTLRaw string         `yaml:"cache_ttl"`
	CacheTTL    time.Duration  `yaml:"-"`
	Location    *time.Location `yaml:"-"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EffectivePath はフラグ、CONFIG_PATH 環境変数、既定値の順に設定ファイルのパスを決めます。
func EffectivePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Redis.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Logging.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Metrics.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Report.validateAndNormalize(); err != nil {
		return err
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	slow, err := parseDurationAllowEmpty(d.SlowQueryThresholdRaw)
	if err != nil {
		return fmt.Errorf("config: database.slow_query_threshold: %w", err)
	}
	if slow == 0 {
		slow = defaultSlowQueryThreshold
	}
	d.SlowQueryThreshold = slow

	return nil
}

func (r *RedisConfig) validateAndNormalize() error {
	if !r.Enabled {
		return nil
	}
	if r.Addr == "" {
		return fmt.Errorf("config: redis.addr must be set when redis.enabled is true")
	}
	if r.DB < 0 {
		return fmt.Errorf("config: redis.db must not be negative")
	}

	timeout, err := parseDurationAllowEmpty(r.DialTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: redis.dial_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultRedisDialTimeout
	}
	r.DialTimeout = timeout

	return nil
}

func (l *LoggingConfig) validateAndNormalize() error {
	l.Mode = strings.ToLower(strings.TrimSpace(l.Mode))
	switch l.Mode {
	case "":
		l.Mode = "development"
	case "development", "dev", "production", "prod":
	default:
		return fmt.Errorf("config: logging.mode %q is not supported", l.Mode)
	}

	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	switch l.Level {
	case "":
		l.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not supported", l.Level)
	}
	return nil
}

func (m *MetricsConfig) validateAndNormalize() error {
	if !m.Enabled {
		return nil
	}
	if m.ListenAddr == "" {
		return fmt.Errorf("config: metrics.listen_addr must be set when metrics.enabled is true")
	}
	if m.Path == "" {
		m.Path = defaultMetricsPath
	}
	if !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("config: metrics.path must start with /")
	}
	return nil
}

func (r *ReportConfig) validateAndNormalize() error {
	if r.Timezone == "" {
		r.Timezone = defaultReportTimezone
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return fmt.Errorf("config: report.timezone: %w", err)
	}
	r.Location = loc

	ttl, err := parseDurationAllowEmpty(r.CacheTTLRaw)
	if err != nil {
		return fmt.Errorf("config: report.cache_ttl: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("config: report.cache_ttl must not be negative")
	}
	if ttl == 0 {
		ttl = defaultReportCacheTTL
	}
	r.CacheTTL = ttl

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードは URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
