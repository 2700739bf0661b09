package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "BTR"

const (
	MinSweepInterval = 25 * time.Second
	MaxSweepInterval = 120 * time.Second
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server          ServerConfig          `toml:"server" split_words:"true"`
	Database        DatabaseConfig        `toml:"database" split_words:"true"`
	Logs            LogsConfig            `toml:"logs" split_words:"true"`
	Metrics         MetricsConfig         `toml:"metrics" split_words:"true"`
	Tracing         TracingConfig         `toml:"tracing" split_words:"true"`
	Redis           RedisConfig           `toml:"redis" split_words:"true"`
	Queue           QueueConfig           `toml:"queue" split_words:"true"`
	Events          EventsConfig          `toml:"events" split_words:"true"`
	SMTP            SMTPConfig            `toml:"smtp" split_words:"true"`
	OperatorChannel OperatorChannelConfig `toml:"operator_channel" split_words:"true"`
	Facility        FacilityConfig        `toml:"facility" split_words:"true"`
	Operators       OperatorsConfig       `toml:"operators" split_words:"true"`
	Sweep           SweepConfig           `toml:"sweep" split_words:"true"`
	Cache           CacheConfig           `toml:"cache" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// DSN строка подключения lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode,
	)
}

type LogsConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled" split_words:"true"`
	OTLPEndpoint string  `toml:"otlp_endpoint" split_words:"true"`
	SampleRatio  float64 `toml:"sample_ratio" split_words:"true"`
}

type RedisConfig struct {
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
}

// QueueConfig очередь уведомлений (asynq поверх Redis)
type QueueConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Concurrency int    `toml:"concurrency" split_words:"true"`
	Name        string `toml:"name" split_words:"true"`
	MaxRetry    int    `toml:"max_retry" split_words:"true"`
}

// EventsConfig публикация событий брони в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
}

type SMTPConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	Host     string `toml:"host" split_words:"true"`
	Port     int    `toml:"port" split_words:"true"`
	Username string `toml:"username" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	From     string `toml:"from" split_words:"true"`
}

// OperatorChannelConfig чат операторов (webhook в стиле messages.send)
type OperatorChannelConfig struct {
	Enabled         bool    `toml:"enabled" split_words:"true"`
	URL             string  `toml:"url" split_words:"true"`
	Token           string  `toml:"token" split_words:"true"`
	PeerID          int64   `toml:"peer_id" split_words:"true"`
	Timeout         int     `toml:"timeout" split_words:"true"`
	RatePerSecond   float64 `toml:"rate_per_second" split_words:"true"`
	BookingsPageURL string  `toml:"bookings_page_url" split_words:"true"`
}

// FacilityConfig правила проката
type FacilityConfig struct {
	Name            string `toml:"name" split_words:"true"`
	TimeZone        string `toml:"time_zone" split_words:"true"`
	WeekendStart    string `toml:"weekend_start" split_words:"true"`
	SlotStepMinutes int    `toml:"slot_step_minutes" split_words:"true"`
	MinBikes        int    `toml:"min_bikes" split_words:"true"`
	MaxBikes        int    `toml:"max_bikes" split_words:"true"`
}

// Location часовой пояс проката
func (f FacilityConfig) Location() (*time.Location, error) {
	if f.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(f.TimeZone)
}

// SlotStep шаг бронирования
func (f FacilityConfig) SlotStep() time.Duration {
	return time.Duration(f.SlotStepMinutes) * time.Minute
}

// WeekendStartDay первый день выходных (имя дня недели на английском)
func (f FacilityConfig) WeekendStartDay() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(f.WeekendStart))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekend_start %q", ErrInvalidConfig, f.WeekendStart)
}

// OperatorsConfig пользователи с правами оператора
type OperatorsConfig struct {
	IDs []int64 `toml:"ids"`
}

// IsOperator проверяет, является ли пользователь оператором
func (o OperatorsConfig) IsOperator(userID int64) bool {
	for _, id := range o.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SweepConfig периодическое завершение прошедших броней
type SweepConfig struct {
	Enabled         bool `toml:"enabled" split_words:"true"`
	IntervalSeconds int  `toml:"interval_seconds" split_words:"true"`
	BatchSize       int  `toml:"batch_size" split_words:"true"`
}

// Interval период запуска, ограниченный [25s, 120s]
func (s SweepConfig) Interval() time.Duration {
	d := time.Duration(s.IntervalSeconds) * time.Second
	if d < MinSweepInterval {
		return MinSweepInterval
	}
	if d > MaxSweepInterval {
		return MaxSweepInterval
	}
	return d
}

// CacheConfig кеш свободных интервалов
type CacheConfig struct {
	Enabled    bool `toml:"enabled" split_words:"true"`
	TTLSeconds int  `toml:"ttl_seconds" split_words:"true"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Load читает config.toml, затем применяет переменные окружения BTR_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения, используемые при отсутствии ключа в файле
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "btr-booking-service",
		},
		Tracing: TracingConfig{SampleRatio: 1},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Queue: QueueConfig{
			Concurrency: 5,
			Name:        "notifications",
			MaxRetry:    5,
		},
		Events: EventsConfig{Exchange: "booking.exchange"},
		SMTP:   SMTPConfig{Port: 587},
		OperatorChannel: OperatorChannelConfig{
			Timeout:       5,
			RatePerSecond: 3,
		},
		Facility: FacilityConfig{
			Name:            "BTR",
			TimeZone:        "Europe/Moscow",
			WeekendStart:    "friday",
			SlotStepMinutes: 60,
			MinBikes:        1,
			MaxBikes:        4,
		},
		Sweep: SweepConfig{
			Enabled:         true,
			IntervalSeconds: 60,
			BatchSize:       200,
		},
		Cache: CacheConfig{TTLSeconds: 30},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		errs = append(errs, errors.New("database.host and database.dbname are required"))
	}
	if _, err := c.Facility.Location(); err != nil {
		errs = append(errs, fmt.Errorf("facility.time_zone: %v", err))
	}
	if _, err := c.Facility.WeekendStartDay(); err != nil {
		errs = append(errs, err)
	}
	if c.Facility.SlotStepMinutes <= 0 || (24*60)%c.Facility.SlotStepMinutes != 0 {
		errs = append(errs, fmt.Errorf("facility.slot_step_minutes must divide a day: %d", c.Facility.SlotStepMinutes))
	}
	if c.Facility.MinBikes <= 0 || c.Facility.MaxBikes < c.Facility.MinBikes {
		errs = append(errs, fmt.Errorf("facility bike bounds invalid: [%d, %d]", c.Facility.MinBikes, c.Facility.MaxBikes))
	}
	if (c.Queue.Enabled || c.Cache.Enabled) && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when queue or cache is enabled"))
	}
	if c.Events.Enabled && c.Events.URL == "" {
		errs = append(errs, errors.New("events.url is required when events are enabled"))
	}
	if c.SMTP.Enabled && (c.SMTP.Host == "" || c.SMTP.From == "") {
		errs = append(errs, errors.New("smtp.host and smtp.from are required when smtp is enabled"))
	}
	if c.OperatorChannel.Enabled && c.OperatorChannel.URL == "" {
		errs = append(errs, errors.New("operator_channel.url is required when the channel is enabled"))
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		errs = append(errs, errors.New("cache.ttl_seconds must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
