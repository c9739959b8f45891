package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"racerank/internal/pipeline"
	"racerank/pkg/config"
	"racerank/pkg/logger"
	"racerank/pkg/metrics"
	"racerank/pkg/prizes"
	"racerank/pkg/sink"
	"racerank/pkg/source"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Load config
	cfg, err := config.Load(os.Getenv("RACERANK_CONFIG"))
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return 1
	}

	// 2. Initialize logger
	l, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return 1
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Race data source
	raceSource, closeSource, err := newRaceSource(ctx, cfg)
	if err != nil {
		l.Error("failed to initialize race data source", err)
		return 1
	}
	defer closeSource()

	// 4. Prize listings
	prizeSource, closePrizes, err := newPrizeSource(cfg)
	if err != nil {
		l.Error("failed to initialize prize source", err)
		return 1
	}
	defer closePrizes()
	cache := prizes.NewCache(prizeSource, cfg.Prizes.OrdinalPrefix)

	// 5. Result sinks
	out, err := newSinks(ctx, cfg, l)
	if err != nil {
		l.Error("failed to initialize result sinks", err)
		return 1
	}
	defer out.Close()

	// 6. Run
	svc := pipeline.NewService(l, raceSource, cache, out, pipeline.Config{
		Categories:  cfg.RaceCategories(),
		Workers:     cfg.WorkerCount(),
		PrizeCutoff: cfg.Prizes.Cutoff,
	})

	report, runErr := svc.Run(ctx)

	if cfg.Metrics.TextfilePath != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			l.Error("failed to write metrics textfile", err)
		}
	}

	if runErr != nil {
		l.Error("ranking run failed", runErr,
			zap.Int("failed_categories", len(report.Failed())),
			zap.Int("categories", len(report.Categories)))
		return 1
	}
	return 0
}

func newRaceSource(ctx context.Context, cfg *config.AppConfig) (source.RaceSource, func(), error) {
	if cfg.Race.Source != config.SourceMongoDB {
		return source.NewFileSource(cfg.Race.DataPath), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	coll := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	return source.NewMongoSource(coll), func() { client.Disconnect(context.Background()) }, nil
}

func newPrizeSource(cfg *config.AppConfig) (prizes.Source, func() error, error) {
	switch cfg.Prizes.Source {
	case config.SourceRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		return prizes.NewRedisSource(client, cfg.Prizes.RedisKeyPrefix), client.Close, nil
	case config.SourceFile:
		return prizes.NewFileSource(cfg.Prizes.Dir, cfg.Prizes.FilePattern), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown prizes source %q", cfg.Prizes.Source)
}

// newSinks puts the file sink last so a remote failure never replaces the
// category's output file.
func newSinks(ctx context.Context, cfg *config.AppConfig, l *logger.Logger) (sink.Multi, error) {
	out := sink.Multi{}

	if cfg.Postgres.URI != "" {
		pg, err := sink.NewPostgresSink(ctx, sink.PostgresConfig{
			URI:      cfg.Postgres.URI,
			MinConns: int32(cfg.Postgres.MinConns),
			MaxConns: int32(cfg.Postgres.MaxConns),
		}, l)
		if err != nil {
			return nil, err
		}
		out = append(out, pg)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		out = append(out, sink.NewKafkaSink(sink.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}))
	}

	out = append(out, sink.NewFileSink(cfg.Output.Dir, cfg.Output.Indent))
	return out, nil
}
