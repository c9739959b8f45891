package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"racerank/pkg/logger"
	"racerank/pkg/race"

	"go.uber.org/zap"
)

// Job is one category's bucket waiting to be ranked
type Job struct {
	Category race.Category
	Entries  []race.Entry

	seq int
}

// Result is the outcome of a single job
type Result struct {
	Category race.Category
	Ranked   int
	Prizes   int
	Duration time.Duration
	Err      error
}

// Handler processes a job. A returned error fails only that job.
type Handler func(ctx context.Context, job Job) (Result, error)

// Pool runs jobs on a fixed number of goroutines and keeps every result
type Pool struct {
	logger     *logger.Logger
	handler    Handler
	numWorkers int
	inputChan  chan Job
	wg         sync.WaitGroup

	mu      sync.Mutex
	seq     int
	results []indexedResult
}

type indexedResult struct {
	seq int
	Result
}

// NewPool creates a new Pool instance
func NewPool(l *logger.Logger, h Handler, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		logger:     l,
		handler:    h,
		numWorkers: numWorkers,
		inputChan:  make(chan Job, numWorkers*2),
	}
}

// Start initializes the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
}

// Submit hands a job to the pool
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.mu.Lock()
	job.seq = p.seq
	p.seq++
	p.mu.Unlock()

	select {
	case p.inputChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", zap.Int("worker_id", id))

	for job := range p.inputChan {
		res := p.run(ctx, job)

		p.mu.Lock()
		p.results = append(p.results, indexedResult{seq: job.seq, Result: res})
		p.mu.Unlock()
	}
}

func (p *Pool) run(ctx context.Context, job Job) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{Category: job.Category, Err: fmt.Errorf("panic: %v", r)}
		}
		res.Category = job.Category
		res.Duration = time.Since(start)
	}()

	res, err := p.handler(ctx, job)
	if err != nil {
		res.Err = err
	}
	return res
}

// Shutdown stops accepting jobs, waits for the workers to drain the queue and
// returns the results in submission order
func (p *Pool) Shutdown(ctx context.Context) ([]Result, error) {
	close(p.inputChan)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sort.Slice(p.results, func(i, j int) bool {
		return p.results[i].seq < p.results[j].seq
	})
	out := make([]Result, len(p.results))
	for i, r := range p.results {
		out[i] = r.Result
	}
	return out, nil
}
