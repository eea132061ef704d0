package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-access/internal/controllers"
)

func runAccessRequestRouter(e *echo.Echo, ctrl *controllers.AccessRequestController) {
	group := e.Group("/access-requests")
	group.GET("", ctrl.GetAccessRequests)
	group.GET("/history", ctrl.History)
	group.GET("/export", ctrl.Export)
	group.GET("/:id", ctrl.FindAccessRequest)
	group.POST("", ctrl.CreateAccessRequest)
	group.POST("/toggle", ctrl.Toggle)
	group.POST("/scan", ctrl.Scan)
	group.PATCH("/:id", ctrl.UpdateAccessRequest)
	group.DELETE("/:id", ctrl.DeleteAccessRequest)
}
