package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/engine"
	"github.com/Makepad-fr/tada/internal/itemstore"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/remote/httpstore"
	"github.com/Makepad-fr/tada/internal/remote/jsonstore"
	"github.com/Makepad-fr/tada/internal/remote/sqlitestore"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// app holds what a single invocation builds lazily: config and logger for
// every command, the engine only for commands that touch todos.
type app struct {
	stdout, stderr io.Writer
	flags          rootFlags

	cfg     *config.Config
	log     *zap.Logger
	eng     *engine.Engine
	closers []func() error

	// runTUI is replaced in tests.
	runTUI func(ctx context.Context, eng *engine.Engine, opt tui.Options) error
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return failErr(err)
	}
	a.applyFlags(cmd, cfg)
	a.cfg = cfg
	a.applyOutput()

	log, err := logging.New(cfg.Log)
	if err != nil {
		return failErr(err)
	}
	a.log = log
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})
	log.Debug("command started", zap.String("command", cmd.CommandPath()))
	return nil
}

// applyFlags lets explicitly set flags win over config and environment.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("owner") {
		cfg.OwnerID = a.flags.ownerID
	}
	if f.Changed("backend") {
		cfg.Backend = a.flags.backend
	}
	if f.Changed("api-url") {
		cfg.API.BaseURL = a.flags.apiURL
	}
	if f.Changed("data") {
		cfg.Data = a.flags.data
	}
	if f.Changed("theme") {
		cfg.Theme = a.flags.theme
	}
	if f.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = a.flags.metricsAddr
	}
}

// engine builds the engine over the configured backend and, when load is
// set, fetches the list before returning.
func (a *app) engine(ctx context.Context, load bool) (*engine.Engine, error) {
	if err := a.cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingOwner) {
			a.ownerWarning()
			return nil, reported(codeFail, err)
		}
		return nil, usageErr("%v", err)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, failErr(err)
	}
	reg := prometheus.NewRegistry()
	instrumented, err := remote.Instrument(store, reg)
	if err != nil {
		return nil, failErr(err)
	}
	if err := a.serveMetrics(reg); err != nil {
		return nil, failErr(err)
	}

	notes := notify.New(a.cfg.Notifications.Timeout, a.cfg.NotifyPolicy())
	a.eng = engine.New(itemstore.New(), notes, instrumented, a.cfg.OwnerID, a.log)
	if load {
		engine.Run(ctx, a.eng, a.eng.Load())
		if err := a.noteErr(a.eng, codeFail); err != nil {
			return nil, err
		}
	}
	return a.eng, nil
}

func (a *app) openStore(ctx context.Context) (remote.Store, error) {
	cfg := a.cfg
	switch cfg.Backend {
	case config.BackendJSON:
		s, err := jsonstore.New(cfg.Data, cfg.OwnerID)
		if err != nil {
			return nil, err
		}
		a.log.Debug("json backend", zap.String("path", s.Path()))
		return s, nil
	case config.BackendSQLite:
		s, err := sqlitestore.Open(ctx, cfg.Data, cfg.OwnerID)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		a.log.Debug("sqlite backend", zap.String("path", cfg.Data))
		return s, nil
	}

	var token string
	if dir, err := config.Dir(); err == nil {
		ti, err := auth.NewStore(dir).Get()
		if err != nil {
			return nil, err
		}
		if ti != nil {
			if ti.Expired(time.Now()) {
				a.log.Warn("api token expired", zap.Timep("expires_at", ti.ExpiresAt))
				ui.Warn(a.stderr, "api token expired: run `tada auth login <token>`")
			}
			token = ti.Token
		}
	}
	return httpstore.New(httpstore.Options{
		BaseURL: cfg.API.BaseURL,
		OwnerID: cfg.OwnerID,
		Token:   token,
		Timeout: cfg.API.Timeout,
		Logger:  a.log,
	})
}

func (a *app) serveMetrics(reg *prometheus.Registry) error {
	if a.cfg.MetricsAddr == "" {
		return nil
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log := a.log.Named("metrics")
	go func() {
		log.Info("metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return nil
}

// noteErr turns a visible notification into a reported error.
func (a *app) noteErr(e *engine.Engine, code int) error {
	notes := e.Notes()
	if !notes.Visible() {
		return nil
	}
	msg := notes.Message()
	ui.Fail(a.stderr, msg)
	if msg == engine.MsgEmptyTitle {
		code = codeUsage
	}
	return reported(code, errors.New(msg))
}

func (a *app) ownerWarning() {
	t := ui.Current()
	ui.Panel(a.stderr, []string{
		ui.C(t.Pending, "No owner id configured"),
		"",
		"tada syncs the todos of one owner and needs its id before it can start.",
		"Set TADA_OWNER_ID, pass --owner, or add owner_id to ~/.tada/config.yaml.",
	})
}

func (a *app) interactive(ctx context.Context, f model.Filter) error {
	eng, err := a.engine(ctx, false)
	if err != nil {
		return err
	}
	run := a.runTUI
	if run == nil {
		run = tui.Run
	}
	if err := run(ctx, eng, tui.Options{Filter: f}); err != nil {
		return failErr(fmt.Errorf("tui: %w", err))
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
