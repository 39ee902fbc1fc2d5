// Package renderservice runs batches of notification renders on a bounded
// worker pool, with optional pacing and recurring scheduled jobs.
package renderservice

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"notifykit/internal/status"
	logx "notifykit/pkg/logx"
)

// Service renders queued batches using a worker pool.
//
// It is panic-safe (worker goroutines recover) and cooperates with shutdown
// via Start/Stop.
type Service struct {
	mu sync.Mutex

	cfg     Config
	profile Profile
	log     logx.Logger

	limiter *rate.Limiter
	queue   chan job
	stopCh  chan struct{}
	// stopDone is non-nil while a Stop() is in progress; closed when the
	// workers fully exit.
	stopDone  chan struct{}
	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup

	statusMu sync.RWMutex
	statuses map[string]*JobStatus
	results  map[string][]Rendered
	order    []string
}

func New(cfg Config, profile Profile, log logx.Logger) *Service {
	return &Service{
		cfg:      cfg,
		profile:  profile,
		log:      log,
		limiter:  newLimiter(cfg.RatePerSec),
		queue:    make(chan job, queueSize(cfg)),
		statuses: map[string]*JobStatus{},
		results:  map[string][]Rendered{},
	}
}

func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), rps)
}

func queueSize(cfg Config) int {
	if cfg.QueueSize <= 0 {
		return 256
	}
	return cfg.QueueSize
}

// Enabled reports the current config flag. (Thread-safe; Apply() may run
// concurrently.)
func (s *Service) Enabled() bool {
	s.mu.Lock()
	en := s.cfg.Enabled
	s.mu.Unlock()
	return en
}

func (s *Service) Apply(cfg Config, profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.profile = profile
	s.limiter = newLimiter(cfg.RatePerSec)
	// Note: live pool resizing is out of scope; workers pick up the new
	// profile on their next item.
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	cur := s.cfg
	s.mu.Unlock()
	s.log.Debug("start requested", logx.Bool("enabled", cur.Enabled), logx.Int("workers", cur.Workers))

	// If a Stop() is in progress, wait for it to complete (prevents double
	// worker pools).
	for {
		s.mu.Lock()
		if s.stopCh == nil {
			break
		}
		done := s.stopDone
		if done == nil {
			// already running
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		select {
		case <-done:
			// loop
		case <-ctx.Done():
			return
		}
	}
	defer s.mu.Unlock()

	s.stopCh = make(chan struct{})
	s.runCtx, s.runCancel = context.WithCancel(ctx)

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2
	}

	// keep queue across restarts (jobs remain pending)
	queue := s.queue
	stopCh := s.stopCh
	runCtx := s.runCtx

	s.workerWG.Add(workers)
	for i := 0; i < workers; i++ {
		idx := i
		go func() {
			defer s.workerWG.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("panic in render worker",
						logx.Int("worker", idx),
						logx.Any("panic", r),
						logx.String("stack", string(debug.Stack())),
					)
				}
			}()
			s.worker(runCtx, stopCh, queue, idx)
		}()
	}

	s.log.Info("service started", logx.Int("workers", workers), logx.Int("queue_size", cap(queue)))
}

func (s *Service) Stop(ctx context.Context) {
	start := time.Now()
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	// If a stop is already in progress, just wait for it.
	if s.stopDone != nil {
		done := s.stopDone
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}

	done := make(chan struct{})
	s.stopDone = done
	stopCh := s.stopCh
	cancel := s.runCancel
	s.runCancel = nil
	s.mu.Unlock()

	close(stopCh)
	if cancel != nil {
		cancel()
	}

	go func() {
		s.workerWG.Wait()
		s.mu.Lock()
		s.stopCh = nil
		s.runCtx = nil
		s.stopDone = nil
		s.mu.Unlock()
		close(done)
		s.log.Info("service stopped", logx.Duration("took", time.Since(start)))
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// stop continues in background
	}
}

// Submit queues a batch for rendering and returns its job id.
//
// It is non-blocking: a full queue returns ErrQueueFull and drops the batch.
func (s *Service) Submit(name string, items []Item, timeout time.Duration) (string, error) {
	s.mu.Lock()
	cfg := s.cfg
	q := s.queue
	s.mu.Unlock()

	if !cfg.Enabled {
		return "", ErrDisabled
	}
	if q == nil {
		return "", ErrStopped
	}
	if len(items) == 0 {
		return "", fmt.Errorf("job %q has no items", name)
	}

	if timeout <= 0 {
		timeout = cfg.DefaultTimeout
	}

	id := uuid.NewString()
	s.trackJob(&JobStatus{ID: id, Name: name, Total: len(items), CreatedAt: time.Now()}, cfg.HistorySize)

	select {
	case q <- job{id: id, name: name, items: items, timeout: timeout}:
		return id, nil
	default:
		s.dropJob(id)
		s.log.Warn("render queue full; dropping job",
			logx.String("job", name),
			logx.Int("queue_len", len(q)),
			logx.Int("queue_cap", cap(q)),
		)
		return "", ErrQueueFull
	}
}

// Status returns a copy of the tracked state for a job id.
func (s *Service) Status(id string) (JobStatus, bool) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	st, ok := s.statuses[id]
	if !ok {
		return JobStatus{}, false
	}
	return *st, true
}

// Results returns the per-item outcomes of a finished or running job.
func (s *Service) Results(id string) ([]Rendered, bool) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	res, ok := s.results[id]
	if !ok {
		return nil, false
	}
	out := make([]Rendered, len(res))
	copy(out, res)
	return out, true
}

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan job, idx int) {
	for {
		// fast-exit so stop wins over queued work
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case j := <-queue:
			s.execJob(ctx, j)
		}
	}
}

func (s *Service) execJob(ctx context.Context, j job) {
	start := time.Now()
	s.setRunning(j.id)

	jobCtx := ctx
	var cancel context.CancelFunc
	if j.timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	s.log.Debug("render job started",
		logx.String("job", j.id), logx.String("name", j.name), logx.Int("total", len(j.items)))

	for _, item := range j.items {
		s.record(j.id, s.renderOne(jobCtx, item))
	}
	st := s.finish(j.id)

	fields := []logx.Field{
		logx.String("job", j.id),
		logx.String("name", j.name),
		logx.Int("total", st.Total),
		logx.Int("failed", st.Failed),
		logx.Duration("dur", time.Since(start)),
	}
	if st.Failed > 0 {
		s.log.Warn("render job finished with failures", fields...)
	} else {
		s.log.Info("render job finished", fields...)
	}
}

// renderOne moves an item created -> sending -> delivered, or into
// technical-failure when the render cannot produce output.
func (s *Service) renderOne(ctx context.Context, item Item) Rendered {
	// Snapshot mutable dependencies to avoid races with Apply().
	s.mu.Lock()
	lim := s.limiter
	profile := s.profile
	s.mu.Unlock()

	out := Rendered{ItemID: item.ID, Status: "created"}

	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			out.Error = err.Error()
			return out
		}
	}
	if err := ctx.Err(); err != nil {
		out.Error = err.Error()
		return out
	}

	next, err := advance(out.Status, "sending")
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Status = next

	rendered, err := RenderItem(item, profile)
	if err != nil {
		out.Error = err.Error()
		if failed, aerr := advance(out.Status, "technical-failure"); aerr == nil {
			out.Status = failed
		}
		s.log.Warn("render failed",
			logx.String("item", item.ID),
			logx.String("type", string(item.Record.Type)),
			logx.Any("err", err),
		)
		return out
	}

	out.Output = rendered
	if next, err := advance(out.Status, "delivered"); err == nil {
		out.Status = next
	}
	return out
}

// advance validates a status transition against the notification status
// table before applying it.
func advance(current, next string) (string, error) {
	cur, err := status.Get(current)
	if err != nil {
		return "", err
	}
	if !cur.CanTransitionTo(next) {
		return "", fmt.Errorf("cannot move notification from %s to %s", current, next)
	}
	if _, err := status.Get(next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Service) trackJob(st *JobStatus, historySize int) {
	if historySize <= 0 {
		historySize = 200
	}
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.statuses[st.ID] = st
	s.order = append(s.order, st.ID)
	for len(s.order) > historySize {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.statuses, oldest)
		delete(s.results, oldest)
	}
}

func (s *Service) dropJob(id string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	delete(s.statuses, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Service) setRunning(id string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if st := s.statuses[id]; st != nil {
		st.StartedAt = time.Now()
		st.Running = true
	}
}

func (s *Service) record(id string, r Rendered) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.statuses[id]
	if st == nil {
		return
	}
	st.Done++
	if r.Error != "" {
		st.Failed++
	}
	s.results[id] = append(s.results[id], r)
}

func (s *Service) finish(id string) JobStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.statuses[id]
	if st == nil {
		return JobStatus{}
	}
	st.DoneAt = time.Now()
	st.Running = false
	return *st
}
