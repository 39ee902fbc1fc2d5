// Package app assembles the notifykit daemon: config loading and hot
// reload, logging, the broadcast area catalog and the render service.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"notifykit/internal/areas"
	"notifykit/internal/config"
	"notifykit/internal/renderservice"
	logx "notifykit/pkg/logx"
)

type App struct {
	cfgm *config.Manager

	logs *logx.Service
	log  logx.Logger

	store  *areas.Store
	render *renderservice.Service
	sched  *renderservice.Scheduler

	mu      sync.Mutex
	lastCfg *config.Config
	cfgCh   chan *config.Config
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logs, log := logx.New(logConfig(cfg.Logging))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))
	cfgm.SetValidator(func(_ context.Context, c *config.Config) error {
		return c.Validate()
	})

	a := &App{
		cfgm:    cfgm,
		logs:    logs,
		log:     log.With(logx.String("comp", "app")),
		lastCfg: cfg,
	}

	if cfg.Storage != nil {
		busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
		if err != nil {
			_ = logs.Close()
			return nil, err
		}
		store, err := areas.Open(areas.Config{
			Path:        cfg.Storage.Path,
			BusyTimeout: busy,
		}, log.With(logx.String("comp", "areas")))
		if err != nil {
			_ = logs.Close()
			return nil, fmt.Errorf("open area catalog: %w", err)
		}
		a.store = store
	}

	renderCfg, err := renderConfig(cfg)
	if err != nil {
		_ = a.closeResources()
		return nil, err
	}
	a.render = renderservice.New(renderCfg, renderProfile(cfg), log.With(logx.String("comp", "render")))

	a.sched = renderservice.NewScheduler(a.render, log.With(logx.String("comp", "schedule")))
	spoolLog := log.With(logx.String("comp", "spool"))
	for name := range renderCfg.Jobs {
		a.sched.RegisterSource(name, renderservice.SpoolSource(spoolFor(cfg, name), spoolLog))
	}

	return a, nil
}

// AreaStore exposes the broadcast area catalog; nil when storage is not
// configured.
func (a *App) AreaStore() *areas.Store { return a.store }

// Render exposes the render service for direct submissions.
func (a *App) Render() *renderservice.Service { return a.render }

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.render.Start(runCtx)

	a.mu.Lock()
	jobs := 0
	if a.lastCfg.Render != nil {
		jobs = len(a.lastCfg.Render.Jobs)
	}
	a.mu.Unlock()
	if jobs > 0 {
		if err := a.sched.Start(runCtx); err != nil {
			a.render.Stop(context.Background())
			cancel()
			return err
		}
	}

	a.cfgCh = a.cfgm.Subscribe(4)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(runCtx)
	}()
	go func() {
		defer a.wg.Done()
		for cfg := range a.cfgCh {
			a.apply(cfg)
		}
	}()

	a.log.Info("started", logx.Int("render_jobs", jobs), logx.Bool("area_catalog", a.store != nil))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Stop()
	a.render.Stop(ctx)
	if a.cfgCh != nil {
		a.cfgm.Unsubscribe(a.cfgCh)
		a.cfgCh = nil
	}
	a.wg.Wait()
	err := a.closeResources()
	a.log.Info("stopped")
	if cerr := a.logs.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) closeResources() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// apply pushes a validated config change into the running services.
// Schedule changes need a restart; everything else applies live.
func (a *App) apply(cfg *config.Config) {
	a.mu.Lock()
	old := a.lastCfg
	a.lastCfg = cfg
	a.mu.Unlock()

	changed, attrs, jobsChanged := config.SummarizeConfigChange(old, cfg)
	if len(changed) == 0 {
		return
	}

	a.logs.Apply(logConfig(cfg.Logging))

	renderCfg, err := renderConfig(cfg)
	if err != nil {
		// Validate() runs before publish, so this should not happen.
		a.log.Warn("config apply failed", logx.Any("err", err))
		return
	}
	a.render.Apply(renderCfg, renderProfile(cfg))

	if len(jobsChanged) > 0 {
		a.log.Warn("render job schedules changed; restart to apply",
			logx.String("jobs", strings.Join(jobsChanged, ",")))
	}
	a.log.Info("config applied", append(attrs, logx.String("sections", strings.Join(changed, ",")))...)
}

func logConfig(c config.LoggingConfig) logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File: logx.FileConfig{
			Enabled: c.File.Enabled,
			Path:    c.File.Path,
		},
	}
}

func renderConfig(cfg *config.Config) (renderservice.Config, error) {
	r := cfg.Render
	if r == nil {
		return renderservice.Config{}, nil
	}

	defTimeout, err := config.ParseDurationField("render.default_timeout", r.DefaultTimeout)
	if err != nil {
		return renderservice.Config{}, err
	}

	out := renderservice.Config{
		Enabled:        r.EnabledOrDefault(),
		Workers:        r.Workers,
		QueueSize:      r.QueueSize,
		RatePerSec:     r.RatePerSec,
		HistorySize:    r.HistorySize,
		DefaultTimeout: defTimeout,
		Jobs:           map[string]renderservice.JobSpec{},
	}
	for name, job := range r.Jobs {
		if !job.Enabled {
			continue
		}
		timeout, err := config.ParseDurationField("render.jobs."+name+".timeout", job.Timeout)
		if err != nil {
			return renderservice.Config{}, err
		}
		out.Jobs[name] = renderservice.JobSpec{Schedule: job.Schedule, Timeout: timeout}
	}
	return out, nil
}

func renderProfile(cfg *config.Config) renderservice.Profile {
	return renderservice.Profile{
		SMSPrefix: cfg.Service.SMSPrefix,
		SMSSender: cfg.Service.SMSSender,
		Email:     emailOptions(cfg.Service.Brand),
		Letter:    letterOptions(cfg.Letter),
	}
}

func spoolFor(cfg *config.Config, job string) string {
	if cfg.Render == nil {
		return ""
	}
	return cfg.Render.Jobs[job].Spool
}
