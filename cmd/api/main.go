package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/shared/config"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/shared/logger"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/shared/telemetry"
)

func main() {
	// Missing .env is fine, environment variables take over
	_ = godotenv.Load()

	log := logger.New(os.Getenv("LOG_LEVEL"))

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Getenv("LOG_LEVEL"))
	ctx := context.Background()

	// Telemetry (optional)
	var metricsSrv *http.Server
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown error")
			}
		}()

		metricsSrv = telemetry.StartMetricsServer(cfg.Telemetry.MetricsPort)
		log.Info().Str("port", cfg.Telemetry.MetricsPort).Msg("metrics server started")
	}

	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	if deps.Scheduler != nil {
		deps.Scheduler.Start()
		log.Info().Strs("times", cfg.Backup.ScheduleTimes).Msg("backup scheduler started")
	}

	handler := SetupRoutes(deps, cfg, log)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg), log)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, deps.Scheduler, 30*time.Second, log)

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown error")
		}
	}

	return nil
}
