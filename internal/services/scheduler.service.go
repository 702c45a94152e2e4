package services

import (
	"context"
	"errors"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly                 Schedule = iota // top of every hour
	DailyStreakReset                       // 00:05 regional time
	DailyMissionAssignment                 // 05:00 regional time
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobRunning  = errors.New("job already running")
)

type Job interface {
	Name() string
	// Execute runs the job; ctx is cancelled when the scheduler stops.
	Execute(ctx context.Context) error
	Schedule() Schedule
}

// JobStatus is the last known outcome of one registered job.
type JobStatus struct {
	Name         string        `json:"name"`
	Running      bool          `json:"running"`
	LastRun      *time.Time    `json:"lastRun,omitempty"`
	LastDuration time.Duration `json:"lastDurationMs,omitempty"`
	LastError    string        `json:"lastError,omitempty"`
	NextRun      *time.Time    `json:"nextRun,omitempty"`
}

type registeredJob struct {
	job    Job
	cron   *gocron.Job
	status JobStatus
}

// SchedulerService runs the regional-time jobs. A job never overlaps itself, whether the run
// comes from the cron or from TriggerJobByName.
type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []*registeredJob
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewSchedulerService creates a scheduler whose daily times are read in location.
func NewSchedulerService(location *time.Location) *SchedulerService {
	if location == nil {
		location = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(location),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// claim marks entry as running, reporting false when a run is already in progress.
func (s *SchedulerService) claim(entry *registeredJob) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.status.Running {
		return false
	}
	entry.status.Running = true
	s.wg.Add(1)
	return true
}

func (s *SchedulerService) run(entry *registeredJob) {
	defer s.wg.Done()
	log := s.log.Function("run")

	name := entry.job.Name()
	started := time.Now()
	log.Info("Executing job", "job", name)

	err := entry.job.Execute(s.ctx)

	s.mu.Lock()
	entry.status.Running = false
	entry.status.LastRun = &started
	entry.status.LastDuration = time.Since(started)
	entry.status.LastError = ""
	if err != nil {
		entry.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		log.Er("Job failed", err, "job", name)
		return
	}
	log.Info("Job completed", "job", name, "duration", time.Since(started))
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	entry := &registeredJob{job: job, status: JobStatus{Name: job.Name()}}
	tick := func() {
		if !s.claim(entry) {
			log.Warn("Skipping tick, previous run still active", "job", job.Name())
			return
		}
		s.run(entry)
	}

	var (
		cronJob *gocron.Job
		err     error
	)
	switch job.Schedule() {
	case Hourly:
		cronJob, err = s.scheduler.Cron("0 * * * *").Tag(job.Name()).Do(tick)
	case DailyStreakReset:
		cronJob, err = s.scheduler.Every(1).Day().At("00:05").Tag(job.Name()).Do(tick)
	case DailyMissionAssignment:
		cronJob, err = s.scheduler.Every(1).Day().At("05:00").Tag(job.Name()).Do(tick)
	default:
		return log.Error("unknown job schedule", "job", job.Name(), "schedule", job.Schedule())
	}
	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	entry.cron = cronJob
	s.jobs = append(s.jobs, entry)
	log.Info("Job registered", "job", job.Name())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}
	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, entry := range s.jobs {
		log.Info("Job scheduled", "job", entry.job.Name(), "nextRun", entry.cron.NextRun())
	}
	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

// Stop cancels running jobs and waits for them to return or for ctx to expire.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	log := s.log.Function("Stop")
	s.cancel()
	if s.started {
		s.scheduler.Stop()
		s.started = false
	}
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		log.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return log.Err("jobs still running at shutdown", ctx.Err())
	}
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// GetNextRunTime returns the earliest next run, or nil when the scheduler is idle.
func (s *SchedulerService) GetNextRunTime() *time.Time {
	var next *time.Time
	for _, status := range s.Statuses() {
		if status.NextRun != nil && (next == nil || status.NextRun.Before(*next)) {
			next = status.NextRun
		}
	}
	return next
}

// TriggerJobByName runs a registered job in the background, detached from the caller's
// request but cancelled with the scheduler.
func (s *SchedulerService) TriggerJobByName(jobName string) error {
	log := s.log.Function("TriggerJobByName")

	s.mu.Lock()
	var target *registeredJob
	for _, entry := range s.jobs {
		if entry.job.Name() == jobName {
			target = entry
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return ErrJobNotFound
	}
	if !s.claim(target) {
		return ErrJobRunning
	}

	log.Info("Manually triggering job", "job", jobName)
	go s.run(target)

	return nil
}

func (s *SchedulerService) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for _, entry := range s.jobs {
		names = append(names, entry.job.Name())
	}
	return names
}

// Statuses snapshots every registered job in registration order.
func (s *SchedulerService) Statuses() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, entry := range s.jobs {
		status := entry.status
		if s.started && entry.cron != nil {
			next := entry.cron.NextRun()
			status.NextRun = &next
		}
		statuses = append(statuses, status)
	}
	return statuses
}
