package background

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/jobs"
	"dentiq/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	JobExpirationSweep = "plan-expiration-sweep"
	JobLowStockAlerts  = "inventory-low-stock"
)

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	metrics   *metrics.Metrics
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// Intervals configures how often each job runs.
type Intervals struct {
	ExpirationSweep time.Duration
	LowStockCheck   time.Duration
}

// NewJobScheduler creates the scheduler and registers the sweep and the
// low-stock check. Jobs start running on Start.
func NewJobScheduler(sweep *jobs.ExpirationSweep, alerts *jobs.InventoryAlertService,
	intervals Intervals, m *metrics.Metrics, log *zap.Logger) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		metrics:   m,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.register(JobExpirationSweep, intervals.ExpirationSweep, sweep.Run); err != nil {
		cancel()
		return nil, err
	}
	if err := js.register(JobLowStockAlerts, intervals.LowStockCheck, func(ctx context.Context) error {
		_, err := alerts.CheckAllPractices(ctx)
		return err
	}); err != nil {
		cancel()
		return nil, err
	}

	log.Info("registered background jobs", zap.Int("count", len(js.jobs)))
	return js, nil
}

func (js *JobScheduler) register(name string, every time.Duration, run func(context.Context) error) error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(js.instrument(name, run)),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

// instrument wraps a job with logging and the job_runs metric.
func (js *JobScheduler) instrument(name string, run func(context.Context) error) func() {
	return func() {
		start := time.Now()
		err := run(js.ctx)
		js.metrics.JobRun(name, err)
		if err != nil {
			js.log.Warn("background job failed", zap.String("job", name), zap.Error(err))
			return
		}
		js.log.Debug("background job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	}
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q %w", name, common.ErrNotFound)
	}
	return job.RunNow()
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for the scheduler to shut down.
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}
