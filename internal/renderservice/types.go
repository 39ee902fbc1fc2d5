package renderservice

import (
	"errors"
	"time"

	"notifykit/internal/fields"
	"notifykit/internal/template"
)

var (
	ErrDisabled  = errors.New("render service disabled")
	ErrStopped   = errors.New("render service stopped")
	ErrQueueFull = errors.New("render service queue full")
)

// Config controls the render worker pool.
//
// Defaults (when fields are omitted/zero):
//   - workers: 2
//   - queue_size: 256
//   - rate_per_sec: 0 (unlimited)
//   - history_size: 200
//   - default_timeout: 0 (disabled)
type Config struct {
	Enabled        bool
	Workers        int
	QueueSize      int
	RatePerSec     int
	HistorySize    int
	DefaultTimeout time.Duration

	// Jobs maps job name to its recurring schedule.
	Jobs map[string]JobSpec
}

// JobSpec describes one recurring render job.
type JobSpec struct {
	Schedule string
	Timeout  time.Duration
}

// Profile carries the per-service presentation settings applied to every
// rendered message.
type Profile struct {
	SMSPrefix string
	SMSSender string
	Email     template.HTMLEmailOptions
	Letter    template.LetterOptions
}

// Item is one notification to render.
type Item struct {
	ID     string
	Record template.Record
	Values fields.Values
}

// Rendered is the outcome for one item: the output on success, and the
// notification status the item ended in.
type Rendered struct {
	ItemID string
	Output string
	Status string
	Error  string
}

// JobStatus is a point-in-time view of one submitted batch.
type JobStatus struct {
	ID        string
	Name      string
	Total     int
	Done      int
	Failed    int
	CreatedAt time.Time
	StartedAt time.Time
	DoneAt    time.Time
	Running   bool
}

type job struct {
	id      string
	name    string
	items   []Item
	timeout time.Duration
}
