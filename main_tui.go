package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"mapedit/config"
	"mapedit/editor"
	"mapedit/logging"
	"mapedit/mapclient"
	"mapedit/metrics"
	"mapedit/session"
	"mapedit/terminal"
)

const shutdownGrace = 2 * time.Second

// RunInteractive launches the editor on the terminal and blocks until the
// user quits or the process is signalled.
func RunInteractive(cfg config.Config) error {
	sink, err := logging.Open(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer sink.Close()
	log := logging.New(cfg.LogLevel, sink)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := startMetrics(cfg.MetricsAddr, m, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	client, err := mapclient.New(cfg.BaseURL, cfg.MapID, mapclient.Options{Log: log, Metrics: m})
	if err != nil {
		return err
	}
	exec := session.NewExecutor(client, cfg.RequestTimeout, log)

	// Setup terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to setup terminal: %w", err)
	}
	defer screen.Fini()

	log.Info().
		Str("base_url", cfg.BaseURL).
		Str("map_id", cfg.MapID).
		Str("click_mode", cfg.ClickMode).
		Msg("editor starting")

	app := terminal.New(screen, editor.NewMachine(log, m), exec, terminal.Options{
		MapID:     client.MapID(),
		ClickMode: cfg.ClickMode,
		Margins:   cfg.Chart.Margins,
		XRange:    cfg.XRange(),
		YRange:    cfg.YRange(),
		Log:       log,
	})

	err = app.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Err(err).Msg("editor stopped")
	return err
}

func startMetrics(addr string, m *metrics.Metrics, log zerolog.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metrics.Router(m, log)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
	return srv
}
