package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amaldonado/fixpoint-backend/api/routes"
	"github.com/amaldonado/fixpoint-backend/internal/connections"
	"github.com/amaldonado/fixpoint-backend/internal/memberships"
	"github.com/amaldonado/fixpoint-backend/internal/notifications"
	"github.com/amaldonado/fixpoint-backend/internal/onboarding"
	"github.com/amaldonado/fixpoint-backend/internal/organizations"
	"github.com/amaldonado/fixpoint-backend/internal/users"
	"github.com/amaldonado/fixpoint-backend/pkg/auth/session"
	"github.com/amaldonado/fixpoint-backend/pkg/config"
	"github.com/amaldonado/fixpoint-backend/pkg/db"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
	"github.com/amaldonado/fixpoint-backend/pkg/metrics"
	"github.com/amaldonado/fixpoint-backend/pkg/migrate"
	"github.com/amaldonado/fixpoint-backend/pkg/pubsub"
	"github.com/amaldonado/fixpoint-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	// Notification delivery is fire-and-forget, so a missing broker
	// degrades to in-app rows only instead of blocking startup.
	psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Warn(context.Background(), "pubsub unavailable, connection events will not be published")
		psClient = nil
	}
	defer func() {
		if psClient == nil {
			return
		}
		if err := psClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	registry := prometheus.NewRegistry()
	connMetrics := metrics.NewConnectionMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	membershipsRepo := memberships.NewRepository(dbClient.DB())
	orgsRepo := organizations.NewRepository(dbClient.DB())
	connectionsRepo := connections.NewRepository(dbClient.DB())
	onboardingRepo := onboarding.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	var publisher = notifications.NewTopicPublisher(nil)
	if psClient != nil {
		publisher = notifications.NewTopicPublisher(psClient.ConnectionPublisher())
	}
	dispatcher, err := notifications.NewDispatcher(notificationsRepo, publisher, logg, connMetrics, cfg.Notifier.DispatchTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	connectionsService, err := connections.NewService(connectionsRepo, orgsRepo, membershipsRepo, dispatcher, connMetrics, cfg.Connections.RequestMaxAttempts)
	if err != nil {
		logg.Error(context.Background(), "failed to create connections service", err)
		os.Exit(1)
	}

	onboardingService, err := onboarding.NewService(onboardingRepo, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	organizationsService, err := organizations.NewService(orgsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create organizations service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			PubSub:          psClient,
			SessionChecker:  sessionManager,
			MembershipsRepo: membershipsRepo,
			RoleChecker:     membershipsRepo,
			Connections:     connectionsService,
			Onboarding:      onboardingService,
			Notifications:   notificationsService,
			Organizations:   organizationsService,
			Metrics:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
