package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-access/internal/controllers"
)

func runPersonRouter(e *echo.Echo, ctrl *controllers.PersonController) {
	e.GET("/persons", ctrl.GetPersons)
	e.GET("/persons/:id", ctrl.FindPerson)
	e.POST("/persons", ctrl.CreatePerson)
	e.PUT("/persons/:id", ctrl.UpdatePerson)
	e.DELETE("/persons/:id", ctrl.DeletePerson)
}
