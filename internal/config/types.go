package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Service ServiceConfig `json:"service"`
	Letter  LetterConfig  `json:"letter"`
	Logging LoggingConfig `json:"logging"`

	// Storage holds the broadcast area catalog settings.
	// Nil means the catalog is disabled.
	Storage *StorageConfig `json:"storage,omitempty"`

	// Render controls the batch render service.
	// Nil means rendering on demand only, no scheduled jobs.
	Render *RenderConfig `json:"render,omitempty"`
}

// ServiceConfig carries the per-service presentation settings applied to
// every rendered message.
type ServiceConfig struct {
	// SMSPrefix is prepended to text messages as "prefix: ".
	// Empty disables prefixing.
	SMSPrefix string `json:"sms_prefix,omitempty"`

	// SMSSender is shown in previews when show_sender is requested.
	SMSSender string `json:"sms_sender,omitempty"`

	// BroadcastSender overrides the CAP sender URI. Leave empty for the
	// Notify default.
	BroadcastSender string `json:"broadcast_sender,omitempty"`

	Brand BrandConfig `json:"brand"`
}

// BrandConfig controls email branding. Logo alone is not enough to show a
// brand banner; it needs Name or Text as the accessible fallback.
type BrandConfig struct {
	GovukBanner bool `json:"govuk_banner"`

	Logo string `json:"logo,omitempty"`
	// Text is a pointer so an explicit empty string (logo is the whole
	// brand, alt text blank) is distinct from omitted.
	Text   *string `json:"text,omitempty"`
	Name   string  `json:"name,omitempty"`
	Colour string  `json:"colour,omitempty"`
	Banner bool    `json:"banner,omitempty"`
}

type LetterConfig struct {
	// AdminBaseURL is used for asset links in rendered letters.
	// Default: "http://localhost:6012".
	AdminBaseURL string `json:"admin_base_url,omitempty"`

	// MaxPageCount caps rendered letter pages. Default: 10.
	MaxPageCount int `json:"max_page_count,omitempty"`

	ContactBlock string `json:"contact_block,omitempty"`
	LogoFileName string `json:"logo_file_name,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the sqlite broadcast area catalog.
type StorageConfig struct {
	Path string `json:"path"`
	// BusyTimeout is a Go duration string (sqlite busy_timeout pragma).
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// RenderConfig controls the batch render service.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
//
// Enabled is a pointer so we can distinguish "omitted" (default true when the
// section is present) from an explicit false.
//
// Defaults (when fields are omitted/zero):
//   - workers: 2
//   - queue_size: 256
//   - rate_per_sec: 0 (unlimited)
//   - history_size: 200
//   - default_timeout: "0s" (disabled)
type RenderConfig struct {
	Enabled *bool `json:"enabled,omitempty"`

	Workers   int `json:"workers,omitempty"`
	QueueSize int `json:"queue_size,omitempty"`

	// RatePerSec paces job submissions across the pool. 0 disables pacing.
	RatePerSec int `json:"rate_per_sec,omitempty"`

	HistorySize int `json:"history_size,omitempty"`

	// DefaultTimeout bounds a single render job. "0s" disables it.
	DefaultTimeout string `json:"default_timeout,omitempty"`

	// Jobs maps job name to its schedule and settings.
	Jobs map[string]RenderJobConfig `json:"jobs,omitempty"`
}

// RenderJobConfig describes one recurring render job.
type RenderJobConfig struct {
	Enabled bool `json:"enabled"`

	// Schedule accepts cron ("*/5 * * * *" or "cron:..."), a daily time
	// ("02:30"), or a Go duration interval ("55m", "every:1h").
	Schedule string `json:"schedule"`

	// Spool is the directory scanned for *.json batch files each time the
	// job fires.
	Spool string `json:"spool"`

	// Timeout overrides render.default_timeout for this job.
	Timeout string `json:"timeout,omitempty"`
}

func (r *RenderConfig) EnabledOrDefault() bool {
	if r == nil {
		return false
	}
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// Validate applies cheap structural checks. Schedule specs are validated by
// the render service, which owns the parser.
func (c *Config) Validate() error {
	if c.Letter.MaxPageCount < 0 {
		return fmt.Errorf("letter.max_page_count: must be >= 0")
	}
	if c.Storage != nil {
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path: required when storage is configured")
		}
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	if c.Render != nil {
		if c.Render.Workers < 0 {
			return fmt.Errorf("render.workers: must be >= 0")
		}
		if _, err := ParseDurationField("render.default_timeout", c.Render.DefaultTimeout); err != nil {
			return err
		}
		for name, job := range c.Render.Jobs {
			if job.Enabled && strings.TrimSpace(job.Schedule) == "" {
				return fmt.Errorf("render.jobs.%s: schedule is required", name)
			}
			if job.Enabled && strings.TrimSpace(job.Spool) == "" {
				return fmt.Errorf("render.jobs.%s: spool is required", name)
			}
			if _, err := ParseDurationField("render.jobs."+name+".timeout", job.Timeout); err != nil {
				return err
			}
		}
	}
	return nil
}
