// Package scheduler triggers the backup publish job at configured times of
// day.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ScheduleTime represents a specific time of day when the scheduler should run.
type ScheduleTime struct {
	Hour   int
	Minute int
}

// String returns the time in HH:MM format.
func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// ParseScheduleTime parses a time string in HH:MM format.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	var hour, minute int
	_, err := fmt.Sscanf(s, "%d:%d", &hour, &minute)
	if err != nil {
		return ScheduleTime{}, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}

	if hour < 0 || hour > 23 {
		return ScheduleTime{}, fmt.Errorf("invalid hour: %d (must be 0-23)", hour)
	}
	if minute < 0 || minute > 59 {
		return ScheduleTime{}, fmt.Errorf("invalid minute: %d (must be 0-59)", minute)
	}

	return ScheduleTime{Hour: hour, Minute: minute}, nil
}

// Config holds configuration for the scheduler.
type Config struct {
	ScheduleTimes []string
	RunOnStartup  bool
	// Task is the job executed at each trigger.
	Task func(context.Context) error
}

// Scheduler runs a single task at specific times of day.
type Scheduler struct {
	task          func(context.Context) error
	scheduleTimes []ScheduleTime
	runOnStartup  bool
	log           zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRun string
}

// New creates a scheduler with the given configuration.
func New(cfg Config, log zerolog.Logger) (*Scheduler, error) {
	if cfg.Task == nil {
		return nil, fmt.Errorf("a task is required")
	}

	scheduleTimes := make([]ScheduleTime, 0, len(cfg.ScheduleTimes))
	for _, timeStr := range cfg.ScheduleTimes {
		st, err := ParseScheduleTime(timeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schedule time %q: %w", timeStr, err)
		}
		scheduleTimes = append(scheduleTimes, st)
	}
	if len(scheduleTimes) == 0 {
		return nil, fmt.Errorf("at least one schedule time is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		task:          cfg.Task,
		scheduleTimes: scheduleTimes,
		runOnStartup:  cfg.RunOnStartup,
		log:           log,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start launches the scheduling loop.
func (s *Scheduler) Start() {
	s.log.Info().Strs("times", s.times()).Msg("scheduler started")

	if s.runOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runTask()
		}()
	}

	s.wg.Add(1)
	go s.scheduleLoop()
}

func (s *Scheduler) times() []string {
	out := make([]string, len(s.scheduleTimes))
	for i, st := range s.scheduleTimes {
		out[i] = st.String()
	}
	return out
}

// scheduleLoop is the main scheduling loop, checking once a minute.
func (s *Scheduler) scheduleLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.log.Info().Str("at", now.Format("15:04")).Msg("scheduled backup triggered")
				s.runTask()
			}
		}
	}
}

// shouldRun reports whether now matches a scheduled time that has not
// already fired this minute.
func (s *Scheduler) shouldRun(now time.Time) bool {
	for _, st := range s.scheduleTimes {
		if now.Hour() != st.Hour || now.Minute() != st.Minute {
			continue
		}
		key := now.Format("2006-01-02 15:04")
		s.mu.Lock()
		already := s.lastRun == key
		if !already {
			s.lastRun = key
		}
		s.mu.Unlock()
		return !already
	}
	return false
}

func (s *Scheduler) runTask() {
	if err := s.task(s.ctx); err != nil {
		s.log.Warn().Err(err).Msg("scheduled backup failed")
	}
}

// Shutdown stops the loop and waits up to timeout for an in-flight task.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		s.log.Warn().Msg("scheduler shutdown timed out")
	}
}
