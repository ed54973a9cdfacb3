package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Ticket    TicketConfig    `mapstructure:"ticket"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	OTel      OTelConfig      `mapstructure:"otel"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServerConfig is the operational listener (health and metrics).
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectRetries  int           `mapstructure:"connect_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyTTL       time.Duration `mapstructure:"key_ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type QueueConfig struct {
	EntryBatchSize    int64         `mapstructure:"entry_batch_size"`
	MaxEnteredLimit   int64         `mapstructure:"max_entered_limit"`
	EntryWindow       time.Duration `mapstructure:"entry_window"`
	AdmissionInterval time.Duration `mapstructure:"admission_interval"`
	ExpireInterval    time.Duration `mapstructure:"expire_interval"`
	ExpireBatchLimit  int           `mapstructure:"expire_batch_limit"`
	WaitingBroadcast  int64         `mapstructure:"waiting_broadcast"`
	ShuffleInterval   time.Duration `mapstructure:"shuffle_interval"`
	ShuffleLeadTime   time.Duration `mapstructure:"shuffle_lead_time"`
	ShuffleWindow     time.Duration `mapstructure:"shuffle_window"`
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
}

type SchedulerConfig struct {
	LifecycleInterval time.Duration `mapstructure:"lifecycle_interval"`
	BatchLimit        int           `mapstructure:"batch_limit"`
}

type TicketConfig struct {
	DraftTTL           time.Duration `mapstructure:"draft_ttl"`
	DraftSweepInterval time.Duration `mapstructure:"draft_sweep_interval"`
	DraftSweepLimit    int           `mapstructure:"draft_sweep_limit"`
}

type NotifyConfig struct {
	Driver             string   `mapstructure:"driver"`
	PubNubPublishKey   string   `mapstructure:"pubnub_publish_key"`
	PubNubSubscribeKey string   `mapstructure:"pubnub_subscribe_key"`
	PubNubSecretKey    string   `mapstructure:"pubnub_secret_key"`
	PubNubUserID       string   `mapstructure:"pubnub_user_id"`
	KafkaBrokers       []string `mapstructure:"kafka_brokers"`
	KafkaTopic         string   `mapstructure:"kafka_topic"`
	KafkaClientID      string   `mapstructure:"kafka_client_id"`
}

type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

const (
	NotifyLog    = "log"
	NotifyPubNub = "pubnub"
	NotifyKafka  = "kafka"
)

// Load reads an optional env file at path and lets process environment
// variables override it.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := bind(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "flashsale-ticket")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "5s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "5s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "flashsale_ticket")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_CONNECT_RETRIES", 10)
	v.SetDefault("DB_RETRY_DELAY", "2s")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 50)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")
	v.SetDefault("REDIS_KEY_TTL", "24h")

	v.SetDefault("QUEUE_ENTRY_BATCH_SIZE", 100)
	v.SetDefault("QUEUE_MAX_ENTERED_LIMIT", 1000)
	v.SetDefault("QUEUE_ENTRY_WINDOW", "15m")
	v.SetDefault("QUEUE_ADMISSION_INTERVAL", "5s")
	v.SetDefault("QUEUE_EXPIRE_INTERVAL", "30s")
	v.SetDefault("QUEUE_EXPIRE_BATCH_LIMIT", 500)
	v.SetDefault("QUEUE_WAITING_BROADCAST", 1000)
	v.SetDefault("QUEUE_SHUFFLE_INTERVAL", "1m")
	v.SetDefault("QUEUE_SHUFFLE_LEAD_TIME", "1h")
	v.SetDefault("QUEUE_SHUFFLE_WINDOW", "5m")
	v.SetDefault("QUEUE_RECONCILE_INTERVAL", "1m")

	v.SetDefault("SCHEDULER_LIFECYCLE_INTERVAL", "1m")
	v.SetDefault("SCHEDULER_BATCH_LIMIT", 200)

	v.SetDefault("TICKET_DRAFT_TTL", "15m")
	v.SetDefault("TICKET_DRAFT_SWEEP_INTERVAL", "1m")
	v.SetDefault("TICKET_DRAFT_SWEEP_LIMIT", 500)

	v.SetDefault("NOTIFY_DRIVER", NotifyLog)
	v.SetDefault("NOTIFY_PUBNUB_USER_ID", "flashsale-ticket")
	v.SetDefault("NOTIFY_KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("NOTIFY_KAFKA_TOPIC", "flashsale.notifications")
	v.SetDefault("NOTIFY_KAFKA_CLIENT_ID", "flashsale-ticket")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "flashsale-ticket")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

func bind(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Version = v.GetString("APP_VERSION")
	cfg.App.LogLevel = v.GetString("APP_LOG_LEVEL")

	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")
	cfg.Server.ShutdownTimeout = v.GetDuration("SERVER_SHUTDOWN_TIMEOUT")

	cfg.Database.Host = v.GetString("DB_HOST")
	cfg.Database.Port = v.GetInt("DB_PORT")
	cfg.Database.User = v.GetString("DB_USER")
	cfg.Database.Password = v.GetString("DB_PASSWORD")
	cfg.Database.DBName = v.GetString("DB_NAME")
	cfg.Database.SSLMode = v.GetString("DB_SSLMODE")
	cfg.Database.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	cfg.Database.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DB_CONN_MAX_LIFETIME")
	cfg.Database.ConnectRetries = v.GetInt("DB_CONNECT_RETRIES")
	cfg.Database.RetryDelay = v.GetDuration("DB_RETRY_DELAY")
	cfg.Database.AutoMigrate = v.GetBool("DB_AUTO_MIGRATE")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")
	cfg.Redis.KeyTTL = v.GetDuration("REDIS_KEY_TTL")

	cfg.Queue.EntryBatchSize = v.GetInt64("QUEUE_ENTRY_BATCH_SIZE")
	cfg.Queue.MaxEnteredLimit = v.GetInt64("QUEUE_MAX_ENTERED_LIMIT")
	cfg.Queue.EntryWindow = v.GetDuration("QUEUE_ENTRY_WINDOW")
	cfg.Queue.AdmissionInterval = v.GetDuration("QUEUE_ADMISSION_INTERVAL")
	cfg.Queue.ExpireInterval = v.GetDuration("QUEUE_EXPIRE_INTERVAL")
	cfg.Queue.ExpireBatchLimit = v.GetInt("QUEUE_EXPIRE_BATCH_LIMIT")
	cfg.Queue.WaitingBroadcast = v.GetInt64("QUEUE_WAITING_BROADCAST")
	cfg.Queue.ShuffleInterval = v.GetDuration("QUEUE_SHUFFLE_INTERVAL")
	cfg.Queue.ShuffleLeadTime = v.GetDuration("QUEUE_SHUFFLE_LEAD_TIME")
	cfg.Queue.ShuffleWindow = v.GetDuration("QUEUE_SHUFFLE_WINDOW")
	cfg.Queue.ReconcileInterval = v.GetDuration("QUEUE_RECONCILE_INTERVAL")

	cfg.Scheduler.LifecycleInterval = v.GetDuration("SCHEDULER_LIFECYCLE_INTERVAL")
	cfg.Scheduler.BatchLimit = v.GetInt("SCHEDULER_BATCH_LIMIT")

	cfg.Ticket.DraftTTL = v.GetDuration("TICKET_DRAFT_TTL")
	cfg.Ticket.DraftSweepInterval = v.GetDuration("TICKET_DRAFT_SWEEP_INTERVAL")
	cfg.Ticket.DraftSweepLimit = v.GetInt("TICKET_DRAFT_SWEEP_LIMIT")

	cfg.Notify.Driver = strings.ToLower(v.GetString("NOTIFY_DRIVER"))
	cfg.Notify.PubNubPublishKey = v.GetString("NOTIFY_PUBNUB_PUBLISH_KEY")
	cfg.Notify.PubNubSubscribeKey = v.GetString("NOTIFY_PUBNUB_SUBSCRIBE_KEY")
	cfg.Notify.PubNubSecretKey = v.GetString("NOTIFY_PUBNUB_SECRET_KEY")
	cfg.Notify.PubNubUserID = v.GetString("NOTIFY_PUBNUB_USER_ID")
	cfg.Notify.KafkaBrokers = splitList(v.GetString("NOTIFY_KAFKA_BROKERS"))
	cfg.Notify.KafkaTopic = v.GetString("NOTIFY_KAFKA_TOPIC")
	cfg.Notify.KafkaClientID = v.GetString("NOTIFY_KAFKA_CLIENT_ID")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host and name are required")
	}
	if c.Queue.EntryBatchSize <= 0 {
		return fmt.Errorf("queue entry batch size must be positive: %d", c.Queue.EntryBatchSize)
	}
	if c.Queue.MaxEnteredLimit <= 0 {
		return fmt.Errorf("queue max entered limit must be positive: %d", c.Queue.MaxEnteredLimit)
	}
	if c.Queue.EntryWindow <= 0 {
		return fmt.Errorf("queue entry window must be positive")
	}
	if c.Ticket.DraftTTL <= 0 {
		return fmt.Errorf("ticket draft ttl must be positive")
	}

	switch c.Notify.Driver {
	case NotifyLog:
	case NotifyPubNub:
		if c.Notify.PubNubPublishKey == "" || c.Notify.PubNubSubscribeKey == "" {
			return fmt.Errorf("pubnub publish and subscribe keys are required")
		}
	case NotifyKafka:
		if len(c.Notify.KafkaBrokers) == 0 || c.Notify.KafkaTopic == "" {
			return fmt.Errorf("kafka brokers and topic are required")
		}
	default:
		return fmt.Errorf("unknown notify driver: %q", c.Notify.Driver)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
