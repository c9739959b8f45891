package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"racerank/pkg/logger"
	"racerank/pkg/metrics"
	"racerank/pkg/prizes"
	"racerank/pkg/race"
	"racerank/pkg/racetime"
	"racerank/pkg/ranking"
	"racerank/pkg/sink"
	"racerank/pkg/source"
	"racerank/pkg/worker"

	"go.uber.org/zap"
)

// Config holds the ranking parameters of a run
type Config struct {
	Categories  []race.Category
	Workers     int
	PrizeCutoff int
}

// Report summarizes a completed run
type Report struct {
	Loaded     int
	Dropped    int
	Categories []worker.Result
}

// Failed returns the category results that carry an error
func (r Report) Failed() []worker.Result {
	var failed []worker.Result
	for _, c := range r.Categories {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Service coordinates loading, bucketing, ranking and writing
type Service struct {
	logger *logger.Logger
	source source.RaceSource
	prizes *prizes.Cache
	sink   sink.Sink
	cfg    Config
}

// NewService creates a new pipeline service instance
func NewService(
	l *logger.Logger,
	src source.RaceSource,
	cache *prizes.Cache,
	out sink.Sink,
	cfg Config,
) *Service {
	return &Service{
		logger: l,
		source: src,
		prizes: cache,
		sink:   out,
		cfg:    cfg,
	}
}

// Run executes one ranking pass. A load or bucketing failure aborts the run
// before any category is processed. Category failures do not stop the other
// categories; they are collected into the report and joined into the
// returned error. Cancelling ctx does not cut the wait short: Run returns
// only after every category task has finished.
func (s *Service) Run(ctx context.Context) (Report, error) {
	s.logger.Info("starting ranking run", zap.Int("categories", len(s.cfg.Categories)))

	// 1. Load race data
	records, err := s.source.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load race data: %w", err)
	}
	metrics.RecordsLoadedTotal.Add(float64(len(records)))

	// 2. Bucket by category
	buckets, dropped, err := Bucket(records, s.cfg.Categories)
	if err != nil {
		return Report{}, err
	}
	metrics.RecordsDroppedTotal.Add(float64(dropped))
	if dropped > 0 {
		s.logger.Debug("dropped records outside ranked categories", zap.Int("count", dropped))
	}

	report := Report{Loaded: len(records), Dropped: dropped}

	// 3. Rank every category on the pool
	pool := worker.NewPool(s.logger, s.processCategory, s.workerCount())
	pool.Start(ctx)

	// Submitting and waiting ignore ctx: every category always gets a result.
	// Handlers still see ctx and may fail early once it is cancelled.
	for _, category := range s.cfg.Categories {
		job := worker.Job{Category: category, Entries: buckets[category]}
		if err := pool.Submit(context.Background(), job); err != nil {
			pool.Shutdown(context.Background())
			return report, fmt.Errorf("failed to submit %s: %w", category, err)
		}
	}

	// 4. Wait for all categories
	results, err := pool.Shutdown(context.Background())
	if err != nil {
		return report, fmt.Errorf("waiting for categories: %w", err)
	}
	report.Categories = results

	errs := []error{}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		metrics.CategoryFailuresTotal.WithLabelValues(string(r.Category)).Inc()
		s.logger.ForCategory(r.Category).Error("category failed", r.Err)
		errs = append(errs, fmt.Errorf("category %s: %w", r.Category, r.Err))
	}
	metrics.LastRunTimestamp.SetToCurrentTime()

	s.logger.Info("ranking run finished",
		zap.Int("loaded", report.Loaded),
		zap.Int("dropped", report.Dropped),
		zap.Int("failed", len(errs)))

	return report, errors.Join(errs...)
}

func (s *Service) processCategory(ctx context.Context, job worker.Job) (worker.Result, error) {
	start := time.Now()
	l := s.logger.ForCategory(job.Category)

	table, err := s.prizes.Get(ctx, job.Category)
	if err != nil {
		return worker.Result{}, err
	}

	results := ranking.Rank(job.Entries, table, s.cfg.PrizeCutoff)

	if err := s.sink.Write(ctx, job.Category, results); err != nil {
		return worker.Result{}, fmt.Errorf("failed to write results: %w", err)
	}

	awarded := 0
	for _, r := range results {
		if r.Prize != nil {
			awarded++
		}
	}

	label := string(job.Category)
	metrics.AthletesRankedTotal.WithLabelValues(label).Add(float64(len(results)))
	metrics.PrizesAwardedTotal.WithLabelValues(label).Add(float64(awarded))
	metrics.CategoryDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	l.Info("category ranked", zap.Int("athletes", len(results)), zap.Int("prizes", awarded))
	return worker.Result{Ranked: len(results), Prizes: awarded}, nil
}

func (s *Service) workerCount() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return len(s.cfg.Categories)
}

// Bucket groups records into the given categories, computing each athlete's
// elapsed time. Records in other categories are dropped and counted. Every
// category gets a non-nil bucket, even when empty.
func Bucket(records []race.Record, categories []race.Category) (map[race.Category][]race.Entry, int, error) {
	buckets := make(map[race.Category][]race.Entry, len(categories))
	for _, c := range categories {
		buckets[c] = []race.Entry{}
	}

	dropped := 0
	for _, r := range records {
		bucket, ok := buckets[r.Category]
		if !ok {
			dropped++
			continue
		}

		elapsed, err := racetime.Elapsed(r.Start, r.Finish)
		if err != nil {
			return nil, 0, fmt.Errorf("bib %d: %w", r.Bib, err)
		}

		buckets[r.Category] = append(bucket, race.Entry{
			Bib:     r.Bib,
			Name:    r.FullName(),
			Elapsed: elapsed,
		})
	}

	return buckets, dropped, nil
}
