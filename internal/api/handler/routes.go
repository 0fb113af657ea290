package handler

import (
	"net/http"

	"github.com/vfg2006/ad-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/ad-metrics-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sync(services SyncServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync/:platform",
			Method:      http.MethodPost,
			Handler:     TriggerSync(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/cron/metrics/run",
			Method:      http.MethodPost,
			Handler:     RunScheduledSync(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
