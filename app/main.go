package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/asellingson28/ytmail/app/api"
	"github.com/asellingson28/ytmail/app/cfg"
	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/database"
	"github.com/asellingson28/ytmail/app/feed"
	"github.com/asellingson28/ytmail/app/metrics"
	"github.com/asellingson28/ytmail/app/notify"
	"github.com/asellingson28/ytmail/app/tasks"
)

var logLevel = new(slog.LevelVar)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	if appCfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}

	if err := run(appCfg); err != nil {
		slog.Error("ytmail stopped", "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting ytmail", "version", appCfg.Version)

	settings, err := cfg.LoadSettings(appCfg.ConfigFile)
	if err != nil {
		return err
	}

	channels, err := channel.Load(appCfg.ChannelsFile)
	if err != nil {
		return err
	}
	slog.Debug("Channel list loaded", "file", appCfg.ChannelsFile, "channels", len(channels))

	db, err := database.NewConnection(settings.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Database ready", "path", settings.Database, "schema_version", version, "dirty", dirty)

	seenRepo := database.NewSeenItemRepository(db)

	httpClient := &http.Client{Timeout: appCfg.FetchTimeout}
	limiter := rate.NewLimiter(rate.Limit(appCfg.FetchRate), 1)
	feedClient := feed.NewClient(httpClient, appCfg.FeedBaseURL, appCfg.UserAgent, limiter)

	mailer := notify.NewMailer(settings.Email, notify.NewSMTPSender(settings.Email, appCfg.FetchTimeout))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(registry)

	scheduler := tasks.NewScheduler(channels, feedClient, seenRepo, mailer, settings.PollInterval())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	serverErrChan := make(chan error, 1)

	if appCfg.HTTPPort != "" {
		handler := api.NewHandler(channels, seenRepo, scheduler, registry, appCfg.Version)
		httpServer = &http.Server{
			Addr:         ":" + appCfg.HTTPPort,
			Handler:      api.NewServer(handler, appCfg.APIAccessKey),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("Starting HTTP server", "port", appCfg.HTTPPort)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	slog.Info(fmt.Sprintf("Monitoring %d channel(s) every %d minutes", len(channels), settings.PollIntervalMinutes))

	scheduler.Start(ctx)
	notifySystemd(daemon.SdNotifyReady)

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case runErr = <-serverErrChan:
	}

	notifySystemd(daemon.SdNotifyStopping)

	scheduler.Stop()

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	slog.Info("ytmail shutdown complete")

	return runErr
}

func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("Failed to notify systemd", "state", state, "error", err)
		return
	}
	if sent {
		slog.Debug("Notified systemd", "state", state)
	}
}
