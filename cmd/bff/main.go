package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/deppfellow/speakers-bff/internal/database"
	"github.com/deppfellow/speakers-bff/internal/handler"
	"github.com/deppfellow/speakers-bff/internal/lib/secret"
	"github.com/deppfellow/speakers-bff/internal/logger"
	"github.com/deppfellow/speakers-bff/internal/repository"
	"github.com/deppfellow/speakers-bff/internal/router"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
)

const (
	DefaultContextTimeout = 30
	startupTimeout        = 30 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	if err := secret.ResolveIntegration(startupCtx, &cfg.Integration); err != nil {
		log.Fatal().Err(err).Msg("failed to resolve secrets")
	}

	if err := database.Migrate(startupCtx, &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
