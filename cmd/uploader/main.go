package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kirillkom/scan-uploader/internal/bootstrap"
	"github.com/kirillkom/scan-uploader/internal/config"
	"github.com/kirillkom/scan-uploader/internal/observability/logging"
	"github.com/kirillkom/scan-uploader/internal/tui"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logOut, err := logging.OpenOutput(cfg.LogFile)
	if err != nil {
		log.Fatalf("log output error: %v", err)
	}
	defer logOut.Close()
	logger := logging.NewJSONLogger(logOut, bootstrap.ServiceName, cfg.LogLevel)

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      app.StatusHandler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("status_server_listening", "addr", cfg.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status_server_error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	model := tui.New(ctx, tui.Deps{
		Categories:   app.Registry.Names(),
		Form:         app.Form,
		Session:      app.Session,
		Uploads:      app.Pipeline,
		Staging:      app.Staging,
		Folders:      app,
		Changes:      app.StagingChanges(),
		Gauge:        app.Metrics,
		BaseURL:      cfg.APIBaseURL,
		PollInterval: cfg.PollInterval(),
		Logger:       logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("ui_error", "error", err)
		log.Printf("ui error: %v", err)
	}

	// A quit key signs out inside the console; a signal skips that path.
	if last, ok := final.(tui.Model); ok && app.Session.IsAuthenticated() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		app.Session.Logout(logoutCtx, last.ServerURL())
		cancel()
	}
}
