package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-access/internal/controllers"
)

func runProviderRouter(e *echo.Echo, ctrl *controllers.ProviderController) {
	e.GET("/providers", ctrl.GetProviders)
	e.GET("/providers/:id", ctrl.FindProvider)
	e.POST("/providers", ctrl.CreateProvider)
	e.PUT("/providers/:id", ctrl.UpdateProvider)
	e.DELETE("/providers/:id", ctrl.DeleteProvider)
}
