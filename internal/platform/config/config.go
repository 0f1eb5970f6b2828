package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultReportYear    = 2021
	defaultHTTPAddr      = ":8080"
	defaultHTTPBodyLimit = "32M"
	defaultKafkaTopic    = "hiring.batch-ingested"

	// TimestampPolicySkip は解析できない雇用日時を持つ行を黙って除外します。
	TimestampPolicySkip = "skip"
	// TimestampPolicyAbort は空でない解析不能な雇用日時でバッチ全体を中断します。
	TimestampPolicyAbort = "abort"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Report   ReportConfig   `yaml:"report"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Names    NamesConfig    `yaml:"names"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	S3       S3Config       `yaml:"s3"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"GRPC_LISTEN_ADDR"`
}

// HTTPConfig は HTTP サーバーに関する設定です。
type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"HTTP_LISTEN_ADDR"`
	BodyLimit  string `yaml:"body_limit" env:"HTTP_BODY_LIMIT"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"DB_HOST"`
	Port               int           `yaml:"port" env:"DB_PORT"`
	User               string        `yaml:"user" env:"DB_USER"`
	Password           string        `yaml:"password" env:"DB_PASSWORD"`
	Name               string        `yaml:"name" env:"DB_NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns       int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME"`
}

// LoggingConfig はログ出力に関する設定です。
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	Human bool   `yaml:"human" env:"LOG_HUMAN"`
}

// ReportConfig は集計レポートに関する設定です。
type ReportConfig struct {
	Year int `yaml:"year" env:"REPORT_YEAR"`
}

// IngestConfig は CSV 取り込みに関する設定です。
type IngestConfig struct {
	TimestampPolicy string `yaml:"timestamp_policy" env:"INGEST_TIMESTAMP_POLICY"`
}

// NamesConfig は部署名・職種名の許可リストです。空の場合は任意の文字列を許可します。
type NamesConfig struct {
	Departments []string `yaml:"departments" env:"ALLOWED_DEPARTMENTS"`
	Jobs        []string `yaml:"jobs" env:"ALLOWED_JOBS"`
}

// KafkaConfig は取り込みイベント送信に関する設定です。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC"`
}

// S3Config は S3 からの取り込みに関する設定です。
type S3Config struct {
	Region string `yaml:"region" env:"AWS_REGION"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDotEnv は存在する .env ファイルのみを読み込みます。
func LoadDotEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config: stat %s: %w", file, err)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// EffectivePath はフラグ、環境変数 CONFIG_PATH、既定値の順に設定ファイルのパスを決定します。
func EffectivePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "assets/local.yaml"
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = defaultHTTPAddr
	}
	if c.HTTP.BodyLimit == "" {
		c.HTTP.BodyLimit = defaultHTTPBodyLimit
	}

	db := &c.Database
	if err := db.validateAndNormalize(); err != nil {
		return err
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Report.Year == 0 {
		c.Report.Year = defaultReportYear
	}
	if c.Report.Year < 1 || c.Report.Year > 9999 {
		return fmt.Errorf("config: report.year out of range: %d", c.Report.Year)
	}

	switch strings.ToLower(strings.TrimSpace(c.Ingest.TimestampPolicy)) {
	case "", TimestampPolicySkip:
		c.Ingest.TimestampPolicy = TimestampPolicySkip
	case TimestampPolicyAbort:
		c.Ingest.TimestampPolicy = TimestampPolicyAbort
	default:
		return fmt.Errorf("config: ingest.timestamp_policy must be %q or %q", TimestampPolicySkip, TimestampPolicyAbort)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must be set when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			c.Kafka.Topic = defaultKafkaTopic
		}
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

// DSN は pgx 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
