package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/api/controllers"
	"github.com/amaldonado/fixpoint-backend/api/middleware"
	"github.com/amaldonado/fixpoint-backend/internal/connections"
	"github.com/amaldonado/fixpoint-backend/internal/memberships"
	"github.com/amaldonado/fixpoint-backend/internal/notifications"
	"github.com/amaldonado/fixpoint-backend/internal/onboarding"
	"github.com/amaldonado/fixpoint-backend/internal/organizations"
	"github.com/amaldonado/fixpoint-backend/pkg/auth/session"
	"github.com/amaldonado/fixpoint-backend/pkg/config"
	"github.com/amaldonado/fixpoint-backend/pkg/db"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
	"github.com/amaldonado/fixpoint-backend/pkg/pubsub"
	"github.com/amaldonado/fixpoint-backend/pkg/redis"
)

// MembershipLister is the read surface the route resolver needs.
type MembershipLister interface {
	ListUserOrgs(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithOrg, error)
}

// Deps carries everything the router mounts.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	PubSub          *pubsub.Client
	SessionChecker  session.AccessSessionChecker
	MembershipsRepo MembershipLister
	RoleChecker     middleware.MembershipChecker
	Connections     connections.Service
	Onboarding      onboarding.Service
	Notifications   notifications.Service
	Organizations   organizations.Service
	Metrics         http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger(deps.Redis), pubsubPinger(deps.PubSub)))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Get("/route", controllers.ResolveRoute(deps.MembershipsRepo, logg))

		r.Route("/connections", func(r chi.Router) {
			storeSide := middleware.RequireOrgRoles(deps.RoleChecker, logg,
				enums.MemberRoleStoreAdmin, enums.MemberRoleStoreStaff)
			providerSide := middleware.RequireOrgRoles(deps.RoleChecker, logg,
				enums.MemberRoleProviderAdmin, enums.MemberRoleProviderTech)

			r.Get("/", controllers.ListConnections(deps.Connections, logg))
			r.With(storeSide).Post("/", controllers.ConnectionRequest(deps.Connections, logg))
			r.With(providerSide).Post("/{connectionID}/accept", controllers.ConnectionAccept(deps.Connections, logg))
			r.With(providerSide).Post("/{connectionID}/reject", controllers.ConnectionReject(deps.Connections, logg))
		})

		r.Route("/onboarding", func(r chi.Router) {
			r.Get("/", controllers.OnboardingStatus(deps.Onboarding, logg))
			r.Get("/steps", controllers.OnboardingSteps(deps.Onboarding, logg))
			r.Post("/steps/{stepNumber}/complete", controllers.OnboardingStepComplete(deps.Onboarding, logg))
			r.Post("/complete", controllers.OnboardingComplete(deps.Onboarding, logg))
			r.Post("/skip", controllers.OnboardingSkip(deps.Onboarding, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Get("/", controllers.OrgDirectory(deps.Organizations, logg))
			r.Get("/{orgID}", controllers.OrgDetail(deps.Organizations, logg))
		})
	})

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// The health controller treats a nil probe as "not configured"; typed
// nil pointers must not leak into the interface values.
func redisPinger(client *redis.Client) pinger {
	if client == nil {
		return nil
	}
	return client
}

func pubsubPinger(client *pubsub.Client) pinger {
	if client == nil {
		return nil
	}
	return client
}
