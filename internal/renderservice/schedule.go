package renderservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	logx "notifykit/pkg/logx"
)

// Source produces the items for one scheduled render job each time it fires.
type Source func(ctx context.Context) ([]Item, error)

// Scheduler fires the configured recurring jobs into a Service.
type Scheduler struct {
	svc *Service
	log logx.Logger

	parser cron.Parser

	mu      sync.Mutex
	sources map[string]Source
	c       *cron.Cron
}

func NewScheduler(svc *Service, log logx.Logger) *Scheduler {
	return &Scheduler{
		svc:     svc,
		log:     log,
		parser:  cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		sources: map[string]Source{},
	}
}

// RegisterSource binds a job name from the config to an item producer.
func (s *Scheduler) RegisterSource(name string, src Source) {
	s.mu.Lock()
	s.sources[name] = src
	s.mu.Unlock()
}

// Start schedules every enabled job and runs the cron loop until Stop.
// Jobs without a registered source are rejected rather than silently idle.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return errors.New("scheduler already started")
	}

	s.svc.mu.Lock()
	jobs := s.svc.cfg.Jobs
	s.svc.mu.Unlock()

	c := cron.New(cron.WithParser(s.parser))
	for name, spec := range jobs {
		src := s.sources[name]
		if src == nil {
			return fmt.Errorf("render job %q has no source", name)
		}
		parsed, err := ParseSchedule(spec.Schedule)
		if err != nil {
			return fmt.Errorf("render job %q: %w", name, err)
		}

		name, spec, src := name, spec, src
		run := cron.FuncJob(func() { s.fire(ctx, name, spec, src) })
		switch parsed.Kind {
		case SpecInterval:
			c.Schedule(cron.Every(parsed.Every), run)
		default:
			if _, err := c.AddJob(parsed.Cron, run); err != nil {
				return fmt.Errorf("render job %q: %w", name, err)
			}
		}
		s.log.Debug("render job scheduled", logx.String("job", name), logx.String("schedule", strings.TrimSpace(spec.Schedule)))
	}

	c.Start()
	s.c = c
	s.log.Info("scheduler started", logx.Int("jobs", len(jobs)))
	return nil
}

// Stop halts the cron loop and waits for in-flight firings to hand off.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
		s.log.Info("scheduler stopped")
	}
}

func (s *Scheduler) fire(ctx context.Context, name string, spec JobSpec, src Source) {
	items, err := src(ctx)
	if err != nil {
		s.log.Warn("render job source failed", logx.String("job", name), logx.Any("err", err))
		return
	}
	if len(items) == 0 {
		s.log.Debug("render job has nothing to do", logx.String("job", name))
		return
	}
	if _, err := s.svc.Submit(name, items, spec.Timeout); err != nil {
		s.log.Warn("render job submit failed", logx.String("job", name), logx.Any("err", err))
	}
}
