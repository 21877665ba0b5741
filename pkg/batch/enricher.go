// Package batch runs an enrichment function over an ordered list of items
// with a hard concurrency ceiling, reassembling results in input order.
package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for enrichment tasks.
var (
	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idstore_enrichment_tasks_total",
		Help: "Total enrichment tasks by outcome",
	}, []string{"outcome"})

	tasksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "idstore_enrichment_tasks_in_flight",
		Help: "Number of enrichment tasks currently executing",
	})

	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "idstore_enrichment_task_duration_seconds",
		Help:    "Enrichment task duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
)

// Config holds enricher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of tasks in flight at once.
	MaxConcurrency int

	// TaskTimeout is the deadline applied to each task.
	TaskTimeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		TaskTimeout:    15 * time.Second,
	}
}

// Result is the outcome of one enrichment task. Index is the item's
// position in the original input; Err non-nil means the task failed and
// Value holds the zero value.
type Result[V any] struct {
	Index int
	Value V
	Err   error
}

// EnrichFunc computes the derived value for one item.
type EnrichFunc[T, V any] func(ctx context.Context, item T) (V, error)

// Enrich runs fn against every item with at most cfg.MaxConcurrency tasks
// in flight, using a continuously-refilling worker pool. Each task writes
// its outcome into a result slot addressed by the item's original index,
// so the returned slice is always in input order regardless of completion
// order. Individual task failures never abort the batch; they surface as
// Result.Err and a warning log.
func Enrich[T, V any](ctx context.Context, items []T, fn EnrichFunc[T, V], cfg Config) []Result[V] {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 10
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 15 * time.Second
	}

	start := time.Now()

	// Index-addressed slots: disjoint by construction, no locking needed.
	results := make([]Result[V], len(items))
	for i := range results {
		results[i].Index = i
	}

	if len(items) == 0 {
		return results
	}

	workers := cfg.MaxConcurrency
	if workers > len(items) {
		workers = len(items)
	}

	queue := make(chan int, len(items))
	for i := range items {
		queue <- i
	}
	close(queue)

	var completed atomic.Int64
	var failed atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for idx := range queue {
				select {
				case <-ctx.Done():
					results[idx].Err = ctx.Err()
					tasksTotal.WithLabelValues("cancelled").Inc()
					continue
				default:
				}

				tasksInFlight.Inc()
				taskStart := time.Now()

				taskCtx, cancel := context.WithTimeout(ctx, cfg.TaskTimeout)
				value, err := fn(taskCtx, items[idx])
				cancel()

				taskDuration.Observe(time.Since(taskStart).Seconds())
				tasksInFlight.Dec()

				if err != nil {
					results[idx].Err = err
					failed.Add(1)
					tasksTotal.WithLabelValues("failure").Inc()
					log.Warn().
						Err(err).
						Int("worker_id", workerID).
						Int("index", idx).
						Msg("Enrichment task failed")
					continue
				}

				results[idx].Value = value
				tasksTotal.WithLabelValues("success").Inc()

				// Progress logging every 50 tasks
				if done := completed.Add(1); done%50 == 0 {
					log.Info().
						Int64("completed", done).
						Int("total", len(items)).
						Msg("Enrichment progress")
				}
			}
		}(w)
	}

	wg.Wait()

	log.Debug().
		Int("items", len(items)).
		Int64("failed", failed.Load()).
		Dur("duration", time.Since(start)).
		Msg("Enrichment batch complete")

	return results
}
