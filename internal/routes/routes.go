package routes

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"equipment-access/internal/controllers"
	"equipment-access/internal/services"
	"equipment-access/pkg/api"
	"equipment-access/pkg/middleware"
)

// Services is everything the HTTP surface dispatches to.
type Services struct {
	Persons        services.PersonServiceInterface
	Providers      services.ProviderServiceInterface
	Equipment      services.EquipmentServiceInterface
	Import         services.EquipmentImportServiceInterface
	AccessRequests services.AccessRequestServiceInterface
	Toggle         services.AccessToggleServiceInterface
	Scan           services.ScanServiceInterface
	Report         services.AccessReportServiceInterface
	Tokens         services.TokenServiceInterface
}

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func InitRouter(e *echo.Echo, svc Services, gatherer prometheus.Gatherer, health HealthCheck, logger *zap.Logger) {
	e.Use(middleware.RequestLogger(logger))

	e.GET("/health", func(ctx echo.Context) error {
		if health != nil {
			if err := health(ctx.Request().Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				return ctx.JSON(http.StatusServiceUnavailable, api.Response[any]{Status: false, Message: "unavailable"})
			}
		}
		return api.SuccessOne[any](ctx, http.StatusOK, "ok", nil)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	runPersonRouter(e, controllers.NewPersonController(svc.Persons, logger))
	runProviderRouter(e, controllers.NewProviderController(svc.Providers, logger))
	runEquipmentRouter(e, controllers.NewEquipmentController(svc.Equipment, svc.Import, logger))
	runAccessRequestRouter(e, controllers.NewAccessRequestController(svc.AccessRequests, svc.Toggle, svc.Scan, svc.Report, logger))
	runTokenRouter(e, controllers.NewTokenController(svc.Tokens, logger))

	logger.Info("routes registered", zap.Int("count", len(e.Routes())))
}
