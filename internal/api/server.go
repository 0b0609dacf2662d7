package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/internal/api/handler"
	"github.com/insightbridge/campaign-dashboard-api/internal/api/handler/router"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/scheduler"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/authenticating"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/domainadmin"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/reporting"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/syncing"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/insightbridge/campaign-dashboard-api/pkg/middleware"
	"github.com/justinas/alice"
)

type Server struct {
	httpServer *http.Server
}

func New(
	cfg *config.Config,
	reporter reporting.Reporter,
	syncer syncing.Syncer,
	admin domainadmin.Administrator,
	authenticator authenticating.Authenticator,
	cleanupService *scheduler.CleanupSyncService,
	liveSyncService *scheduler.LiveSyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		CleanupSyncService: cleanupService,
		LiveSyncService:    liveSyncService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.Reports(reporter)...),
		router.WithRoutes(handler.Sync(syncer, cfg.Sync.LiveDays)...),
		router.WithRoutes(handler.Domains(admin)...),
		router.WithRoutes(handler.AdminDomains(admin)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	chained := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           chained,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("error running server")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("interrupt signal received")
	case <-ctx.Done():
		log.L.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.L.WithField("timeout", "15s").Info("starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("error during server shutdown")
		return err
	}

	log.L.Info("server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
