package main

import (
	"context"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/database/postgres"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/leadpier"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/leadpier/leadpierclient"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/pinpointeclient"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository"
	"github.com/insightbridge/campaign-dashboard-api/internal/api"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/scheduler"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/authenticating"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/domainadmin"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/reporting"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/syncing"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	domainRepo := repository.NewDomainRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	revenueRepo := repository.NewRevenueSourceRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	pinpointeClient := pinpointeclient.NewClient(cfg)
	pinpointeIntegrator := pinpointe.New(cfg, pinpointeClient)

	leadpierClient := leadpierclient.NewClient(cfg)
	leadpierIntegrator := leadpier.New(cfg, leadpierClient)

	syncer := syncing.NewService(
		domainRepo,
		campaignRepo,
		revenueRepo,
		pinpointeIntegrator,
		leadpierIntegrator,
		cfg,
	)

	reporter := reporting.NewService(campaignRepo, revenueRepo, cfg)
	admin := domainadmin.NewService(domainRepo)

	cleanupSyncService := scheduler.NewCleanupSyncService(syncer, cfg)
	liveSyncService := scheduler.NewLiveSyncService(syncer, cfg)

	if err := cleanupSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start the cleanup scheduler")
	} else {
		logrus.Info("cleanup scheduler started")
	}

	if err := liveSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start the live sync scheduler")
	} else {
		logrus.Info("live sync scheduler started")
	}

	server, err := api.New(
		cfg,
		reporter,
		syncer,
		admin,
		authenticator,
		cleanupSyncService,
		liveSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
