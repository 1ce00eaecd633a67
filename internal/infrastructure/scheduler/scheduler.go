// Package scheduler runs periodic housekeeping tasks inside the server.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the outcome of a task run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is a job run every Interval
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Run records one execution of a task, retries included
type Run struct {
	Task        string
	Status      JobStatus
	Attempts    int
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Config holds scheduler configuration
type Config struct {
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 2,
		RetryDelay:    30 * time.Second,
	}
}

// Scheduler runs each registered task on its own ticker. A task never
// overlaps with itself.
type Scheduler struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	tasks     map[string]Task
	last      map[string]Run
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Scheduler{
		config: config,
		logger: logger,
		now:    time.Now,
		tasks:  make(map[string]Task),
		last:   make(map[string]Run),
	}
}

// Register adds a task. Tasks must be registered before Start.
func (s *Scheduler) Register(task Task) error {
	if task.Name == "" || task.Interval <= 0 || task.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidTask, task.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	s.tasks[task.Name] = task
	return nil
}

// Start launches one loop per task
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}

	s.logger.Info("Scheduler started", zap.Int("tasks", len(s.tasks)))
	return nil
}

// Stop cancels the loops and waits for running tasks until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a task immediately and returns its record
func (s *Scheduler) RunNow(ctx context.Context, name string) (Run, error) {
	s.mu.Lock()
	task, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	return s.execute(ctx, task), nil
}

// LastRun returns the most recent record of a task
func (s *Scheduler) LastRun(name string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.last[name]
	return run, ok
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, task)
		}
	}
}

// execute runs a task with a timeout per attempt, retrying failures after
// RetryDelay up to RetryAttempts times
func (s *Scheduler) execute(ctx context.Context, task Task) Run {
	run := Run{Task: task.Name, Status: JobStatusRunning, StartedAt: s.now()}

	for {
		run.Attempts++
		err := s.attempt(ctx, task)
		if err == nil {
			run.Status = JobStatusSuccess
			run.Error = ""
			break
		}
		run.Status = JobStatusFailed
		run.Error = err.Error()
		s.logger.Warn("Scheduled task failed",
			zap.String("task", task.Name),
			zap.Int("attempt", run.Attempts),
			zap.Error(err))

		if run.Attempts > s.config.RetryAttempts || !s.wait(ctx, s.config.RetryDelay) {
			break
		}
	}
	run.CompletedAt = s.now()

	if run.Status == JobStatusSuccess {
		s.logger.Debug("Scheduled task completed",
			zap.String("task", task.Name),
			zap.Duration("duration", run.CompletedAt.Sub(run.StartedAt)))
	}

	s.mu.Lock()
	s.last[task.Name] = run
	s.mu.Unlock()
	return run
}

func (s *Scheduler) attempt(ctx context.Context, task Task) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(ctx)
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
