package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-access/internal/controllers"
)

func runTokenRouter(e *echo.Echo, ctrl *controllers.TokenController) {
	e.GET("/tokens/:person/:equipment", ctrl.IssueToken)
	e.GET("/tokens/:person/:equipment/qr", ctrl.IssueQR)
}
