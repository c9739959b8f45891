package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"racerank/pkg/race"

	"github.com/spf13/viper"
)

// Source kinds
const (
	SourceFile    = "file"
	SourceMongoDB = "mongodb"
	SourceRedis   = "redis"
)

// AppConfig holds the complete configuration for a ranking run
type AppConfig struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	ServiceName string         `mapstructure:"service_name"`
	Categories  []string       `mapstructure:"categories"`
	Workers     int            `mapstructure:"workers"`
	Race        RaceConfig     `mapstructure:"race"`
	Prizes      PrizesConfig   `mapstructure:"prizes"`
	Output      OutputConfig   `mapstructure:"output"`
	MongoDB     MongoConfig    `mapstructure:"mongodb"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
	Kafka       KafkaConfig    `mapstructure:"kafka"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

type RaceConfig struct {
	Source   string `mapstructure:"source"`
	DataPath string `mapstructure:"data_path"`
}

type PrizesConfig struct {
	Source         string `mapstructure:"source"`
	Dir            string `mapstructure:"dir"`
	FilePattern    string `mapstructure:"file_pattern"`
	RedisKeyPrefix string `mapstructure:"redis_key_prefix"`
	Cutoff         int    `mapstructure:"cutoff"`
	OrdinalPrefix  string `mapstructure:"ordinal_prefix"`
}

type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Indent string `mapstructure:"indent"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

type PostgresConfig struct {
	URI      string `mapstructure:"uri"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// Load loads configuration from file and environment variables.
// With no file and no environment the defaults reproduce the plain
// working-directory run.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	defaultCategories := make([]string, len(race.DefaultCategories))
	for i, c := range race.DefaultCategories {
		defaultCategories[i] = string(c)
	}

	// Default values
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("service_name", "racerank")
	v.SetDefault("categories", defaultCategories)
	v.SetDefault("workers", 0)
	v.SetDefault("race.source", SourceFile)
	v.SetDefault("race.data_path", "race_data.json")
	v.SetDefault("prizes.source", SourceFile)
	v.SetDefault("prizes.dir", ".")
	v.SetDefault("prizes.file_pattern", "prizes_list_%s.txt")
	v.SetDefault("prizes.redis_key_prefix", "prizes_list_")
	v.SetDefault("prizes.cutoff", 49)
	v.SetDefault("prizes.ordinal_prefix", "место ")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.indent", "    ")
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)
	v.SetDefault("mongodb.collection", "athletes")
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("postgres.min_conns", 1)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	// Bind environment variables explicitly for nested structs to ensure Unmarshal picks them up
	v.BindEnv("environment", "RACERANK_ENVIRONMENT")
	v.BindEnv("log_level", "RACERANK_LOG_LEVEL")
	v.BindEnv("categories", "RACERANK_CATEGORIES")
	v.BindEnv("workers", "RACERANK_WORKERS")
	v.BindEnv("race.source", "RACERANK_RACE_SOURCE")
	v.BindEnv("race.data_path", "RACERANK_RACE_DATA_PATH")
	v.BindEnv("prizes.source", "RACERANK_PRIZES_SOURCE")
	v.BindEnv("prizes.dir", "RACERANK_PRIZES_DIR")
	v.BindEnv("prizes.cutoff", "RACERANK_PRIZES_CUTOFF")
	v.BindEnv("output.dir", "RACERANK_OUTPUT_DIR")
	v.BindEnv("mongodb.uri", "MONGODB_URI")
	v.BindEnv("mongodb.database", "MONGODB_DATABASE")
	v.BindEnv("mongodb.collection", "MONGODB_COLLECTION")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("postgres.uri", "POSTGRES_URI")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	v.BindEnv("metrics.textfile_path", "RACERANK_METRICS_TEXTFILE")

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Lists coming from env arrive as a single comma separated string
	config.Categories = splitList(config.Categories)
	config.Kafka.Brokers = splitList(config.Kafka.Brokers)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("categories must not be empty")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if seen[cat] {
			return fmt.Errorf("duplicate category %q", cat)
		}
		seen[cat] = true
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.Prizes.Cutoff < 0 {
		return errors.New("prizes.cutoff must not be negative")
	}
	if !strings.Contains(c.Prizes.FilePattern, "%s") {
		return errors.New("prizes.file_pattern must contain %s")
	}

	switch c.Race.Source {
	case SourceFile:
		if c.Race.DataPath == "" {
			return errors.New("race.data_path is required")
		}
	case SourceMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("mongodb.uri is required")
		}
		if c.MongoDB.Database == "" {
			return errors.New("mongodb.database is required")
		}
		if c.MongoDB.Collection == "" {
			return errors.New("mongodb.collection is required")
		}
	default:
		return fmt.Errorf("unknown race.source %q", c.Race.Source)
	}

	switch c.Prizes.Source {
	case SourceFile:
	case SourceRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required")
		}
	default:
		return fmt.Errorf("unknown prizes.source %q", c.Prizes.Source)
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required")
	}
	return nil
}

// RaceCategories returns the configured categories as typed values
func (c *AppConfig) RaceCategories() []race.Category {
	out := make([]race.Category, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = race.Category(cat)
	}
	return out
}

// WorkerCount resolves the pool size; zero means one worker per category
func (c *AppConfig) WorkerCount() int {
	if c.Workers == 0 {
		return len(c.Categories)
	}
	return c.Workers
}
