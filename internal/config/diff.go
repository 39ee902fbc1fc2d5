package config

import (
	"reflect"
	"sort"
	"strings"

	logx "notifykit/pkg/logx"
)

// SummarizeConfigChange returns (1) a compact list of changed sections,
// (2) safe structured attrs for logging, and (3) the names of render jobs
// that changed (enable/schedule/timeout).
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field, []string) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 16)

	// Service
	if !reflect.DeepEqual(oldCfg.Service, newCfg.Service) {
		changed = append(changed, "service")
		attrs = append(attrs,
			logx.Bool("service.sms_prefix_set", strings.TrimSpace(newCfg.Service.SMSPrefix) != ""),
			logx.Bool("service.sms_sender_set", strings.TrimSpace(newCfg.Service.SMSSender) != ""),
			logx.Bool("service.govuk_banner", newCfg.Service.Brand.GovukBanner),
			logx.Bool("service.brand_logo_set", strings.TrimSpace(newCfg.Service.Brand.Logo) != ""),
		)
	}

	// Letter
	if oldCfg.Letter != newCfg.Letter {
		changed = append(changed, "letter")
		attrs = append(attrs,
			logx.String("letter.admin_base_url", strings.TrimSpace(newCfg.Letter.AdminBaseURL)),
			logx.Int("letter.max_page_count", newCfg.Letter.MaxPageCount),
			logx.Bool("letter.contact_block_set", strings.TrimSpace(newCfg.Letter.ContactBlock) != ""),
		)
	}

	// Logging
	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	// Storage (area catalog). Nil means disabled.
	var oPath, nPath, oBusy, nBusy string
	if oldCfg.Storage != nil {
		oPath = strings.TrimSpace(oldCfg.Storage.Path)
		oBusy = strings.TrimSpace(oldCfg.Storage.BusyTimeout)
	}
	if newCfg.Storage != nil {
		nPath = strings.TrimSpace(newCfg.Storage.Path)
		nBusy = strings.TrimSpace(newCfg.Storage.BusyTimeout)
	}
	if oPath != nPath || oBusy != nBusy {
		changed = append(changed, "storage")
		attrs = append(attrs,
			logx.Bool("storage.path_set", nPath != ""),
			logx.String("storage.busy_timeout", nBusy),
		)
	}

	// Render (pool settings plus per-job schedules)
	oR := derefRender(oldCfg.Render)
	nR := derefRender(newCfg.Render)
	jobsChanged := diffRenderJobs(oR.Jobs, nR.Jobs)
	oR.Jobs, nR.Jobs = nil, nil
	if (oldCfg.Render != nil) != (newCfg.Render != nil) || !reflect.DeepEqual(oR, nR) || len(jobsChanged) > 0 {
		changed = append(changed, "render")
		attrs = append(attrs,
			logx.Bool("render.enabled", newCfg.Render.EnabledOrDefault()),
			logx.Int("render.workers", nR.Workers),
			logx.Int("render.queue_size", nR.QueueSize),
			logx.Int("render.rate_per_sec", nR.RatePerSec),
			logx.Int("render.jobs_changed", len(jobsChanged)),
		)
	}

	sort.Strings(changed)
	return changed, attrs, jobsChanged
}

func derefRender(r *RenderConfig) RenderConfig {
	if r == nil {
		return RenderConfig{}
	}
	return *r
}

func diffRenderJobs(oldM, newM map[string]RenderJobConfig) []string {
	set := map[string]struct{}{}
	for k := range oldM {
		set[k] = struct{}{}
	}
	for k := range newM {
		set[k] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		o, oOK := oldM[name]
		n, nOK := newM[name]
		if oOK != nOK || o != n {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
