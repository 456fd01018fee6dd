package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/postcodes"
	"github.com/UnknownOlympus/postcodes/internal/geocoding"
	"github.com/UnknownOlympus/postcodes/internal/metrics"
	"github.com/UnknownOlympus/postcodes/internal/models"
	"github.com/UnknownOlympus/postcodes/internal/repository"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Lookuper is the part of *postcodes.Client the service relies on.
type Lookuper interface {
	FromCode(ctx context.Context, code string) (postcodes.Postcode, error)
	FromCoordinates(ctx context.Context, latitude, longitude float64) (postcodes.Postcode, error)
}

var (
	// ErrNoGeocoder is recorded for address-only tasks when no geocoding provider is configured.
	ErrNoGeocoder = errors.New("task has no postcode and no geocoder is configured")
	// ErrEmptyTask is recorded for tasks carrying neither a postcode nor an address.
	ErrEmptyTask = errors.New("task has neither postcode nor address")

	errLimiterWait = errors.New("rate limiter wait aborted")
)

const kindGeocoder = "geocoder"

// EnrichmentService resolves pending tasks to postcode records and stores the
// result back in the repository.
type EnrichmentService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Task storage
	lookup       Lookuper             // postcodes.io client
	geocoder     geocoding.Provider   // Address fallback, may be nil
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	limiter      *rate.Limiter        // Shared outbound request budget
	numWorkers   int                  // Number of concurrent workers for processing
	batchSize    int                  // Maximum number of tasks fetched per poll
	pollInterval time.Duration        // Interval between polls
	clock        clockwork.Clock      // Time source for the poll ticker and request timings
}

// NewEnrichmentService creates a new EnrichmentService. A nil geocoder
// disables address fallback; a nil limiter means no throttling.
func NewEnrichmentService(
	log *slog.Logger,
	repo repository.Interface,
	lookup Lookuper,
	geocoder geocoding.Provider,
	metrics *metrics.Metrics,
	limiter *rate.Limiter,
	numWorkers int,
	batchSize int,
	pollInterval time.Duration,
) *EnrichmentService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &EnrichmentService{
		log:          log,
		repo:         repo,
		lookup:       lookup,
		geocoder:     geocoder,
		metrics:      metrics,
		limiter:      limiter,
		numWorkers:   numWorkers,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		clock:        clockwork.NewRealClock(),
	}
}

// Run polls for pending tasks every poll interval until ctx is cancelled.
func (es *EnrichmentService) Run(ctx context.Context) {
	ticker := es.clock.NewTicker(es.pollInterval)
	defer ticker.Stop()

	es.log.InfoContext(ctx, "Enrichment service started...")

	for {
		select {
		case <-ctx.Done():
			es.log.InfoContext(ctx, "Enrichment service stopped.")
			return
		case <-ticker.Chan():
			es.log.InfoContext(ctx, "Polling for new tasks to enrich...")
			es.processTasks(ctx)
		}
	}
}

// processTasks fetches one batch and fans it out to the worker pool, returning
// once every task in the batch has been handled.
func (es *EnrichmentService) processTasks(ctx context.Context) {
	tasks, err := es.repo.FetchTasksForEnrichment(ctx, es.batchSize)
	if err != nil {
		es.log.ErrorContext(ctx, "Failed to fetch tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		es.log.InfoContext(ctx, "No tasks to process.")
		return
	}

	es.log.InfoContext(
		ctx,
		"Found tasks to process. Starting worker pool.",
		"jobs", len(tasks),
		"num_workers", es.numWorkers,
	)

	jobs := make(chan models.Task, len(tasks))
	var wgr sync.WaitGroup

	for i := 1; i <= es.numWorkers; i++ {
		wgr.Add(1)
		go es.worker(ctx, i, &wgr, jobs)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	wgr.Wait()
	es.log.InfoContext(ctx, "Processing batch finished")
}

func (es *EnrichmentService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Task) {
	defer wg.Done()
	for task := range jobs {
		if err := es.limiter.Wait(ctx); err != nil {
			es.log.WarnContext(ctx, "Worker stopped while waiting for rate limiter", "worker", idx, "error", err)
			return
		}

		es.metrics.ActiveWorkers.Inc()
		es.handle(ctx, idx, task)
		es.metrics.ActiveWorkers.Dec()
	}
}

func (es *EnrichmentService) handle(ctx context.Context, idx int, task models.Task) {
	es.log.DebugContext(ctx, "Processing task", "worker", idx, "task", task.ID)

	pc, kind, err := es.resolve(ctx, task)
	if errors.Is(err, errLimiterWait) {
		es.log.WarnContext(
			ctx,
			"Task left for the next poll",
			"worker", idx,
			"task", task.ID,
			"error", err,
		)
		return
	}
	if err != nil {
		es.log.ErrorContext(ctx, "Failed to resolve postcode", "worker", idx, "task", task.ID, "error", err)
		es.metrics.TaskProcessed.WithLabelValues("failure").Inc()
		es.metrics.LookupErrors.WithLabelValues(kind).Inc()

		if err = es.repo.IncrementFailureCount(ctx, task.ID, err.Error()); err != nil {
			es.log.ErrorContext(
				ctx,
				"Could not update failure count for task",
				"worker", idx,
				"task", task.ID,
				"error", err,
			)
		}
		return
	}

	es.metrics.TaskProcessed.WithLabelValues("success").Inc()

	if err = es.repo.SaveTaskPostcode(ctx, task.ID, pc); err != nil {
		es.log.ErrorContext(
			ctx,
			"Failed to save postcode for task",
			"worker", idx,
			"task", task.ID,
			"error", err,
		)
		return
	}

	es.log.DebugContext(
		ctx,
		"Worker successfully processed the task",
		"worker", idx,
		"task", task.ID,
		"postcode", pc.Postcode,
	)
}

// resolve looks the task up by postcode when it has one, otherwise geocodes
// its address and takes the nearest postcode. The returned kind labels the
// failure for metrics. The worker holds one limiter token on entry; the
// address path makes two outbound calls and takes a second token.
func (es *EnrichmentService) resolve(ctx context.Context, task models.Task) (postcodes.Postcode, string, error) {
	if task.Postcode != "" {
		pc, err := es.timed("from_code", func() (postcodes.Postcode, error) {
			return es.lookup.FromCode(ctx, task.Postcode)
		})
		if err != nil {
			return postcodes.Postcode{}, postcodes.KindOf(err).String(), err
		}
		return pc, "", nil
	}

	if task.Address == "" {
		return postcodes.Postcode{}, kindGeocoder, ErrEmptyTask
	}
	if es.geocoder == nil {
		return postcodes.Postcode{}, kindGeocoder, ErrNoGeocoder
	}

	if err := es.limiter.Wait(ctx); err != nil {
		return postcodes.Postcode{}, "", fmt.Errorf("%w: %w", errLimiterWait, err)
	}

	start := es.clock.Now()
	coords, err := es.geocoder.Geocode(ctx, task.Address)
	es.metrics.RequestSeconds.WithLabelValues("geocode").Observe(es.clock.Since(start).Seconds())
	if err != nil {
		return postcodes.Postcode{}, kindGeocoder, fmt.Errorf("failed to geocode address: %w", err)
	}

	pc, err := es.timed("from_coordinates", func() (postcodes.Postcode, error) {
		return es.lookup.FromCoordinates(ctx, coords.Latitude, coords.Longitude)
	})
	if err != nil {
		return postcodes.Postcode{}, postcodes.KindOf(err).String(), err
	}

	return pc, "", nil
}

func (es *EnrichmentService) timed(operation string, call func() (postcodes.Postcode, error)) (postcodes.Postcode, error) {
	start := es.clock.Now()
	pc, err := call()
	es.metrics.RequestSeconds.WithLabelValues(operation).Observe(es.clock.Since(start).Seconds())
	return pc, err
}
