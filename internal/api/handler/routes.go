package handler

import (
	"net/http"

	"github.com/insightbridge/campaign-dashboard-api/internal/api/handler/router"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/authenticating"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/domainadmin"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/reporting"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/syncing"
	"github.com/insightbridge/campaign-dashboard-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/api/health",
			Method:  http.MethodGet,
			Handler: HealthHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/api/today",
			Method:      http.MethodGet,
			Handler:     GetTodayReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/range",
			Method:      http.MethodGet,
			Handler:     GetRangeReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/seeds/today",
			Method:      http.MethodGet,
			Handler:     GetTodaySeedReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/seeds/range",
			Method:      http.MethodGet,
			Handler:     GetRangeSeedReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sync(service syncing.Syncer, liveDays int) []router.Route {
	return []router.Route{
		{
			Path:        "/api/sync/today",
			Method:      http.MethodPost,
			Handler:     SyncToday(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/sync/range",
			Method:      http.MethodPost,
			Handler:     SyncRange(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/sync/live",
			Method:      http.MethodPost,
			Handler:     SyncLive(service, liveDays),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/sync/revenue",
			Method:      http.MethodPost,
			Handler:     SyncRevenue(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/cleanup",
			Method:      http.MethodPost,
			Handler:     Cleanup(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
	}
}

func Domains(service domainadmin.Administrator) []router.Route {
	return []router.Route{
		{
			Path:        "/api/domains",
			Method:      http.MethodGet,
			Handler:     ListEnabledDomains(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func AdminDomains(service domainadmin.Administrator) []router.Route {
	return []router.Route{
		{
			Path:        "/api/admin/domains",
			Method:      http.MethodGet,
			Handler:     ListAdminDomains(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/admin/domains",
			Method:      http.MethodPost,
			Handler:     CreateAdminDomain(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/admin/domains/:id",
			Method:      http.MethodGet,
			Handler:     GetAdminDomain(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/admin/domains/:id",
			Method:      http.MethodPut,
			Handler:     UpdateAdminDomain(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/api/admin/domains/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteAdminDomain(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperOnly()},
		},
	}
}
