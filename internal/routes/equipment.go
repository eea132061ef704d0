package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-access/internal/controllers"
)

func runEquipmentRouter(e *echo.Echo, ctrl *controllers.EquipmentController) {
	e.GET("/equipment", ctrl.GetEquipments)
	e.GET("/equipment/:id", ctrl.FindEquipment)
	e.POST("/equipment", ctrl.CreateEquipment)
	e.POST("/equipment/import", ctrl.ImportEquipment)
	e.PUT("/equipment/:id", ctrl.UpdateEquipment)
	e.DELETE("/equipment/:id", ctrl.DeleteEquipment)
	e.POST("/equipment/:id/image", ctrl.UploadImage)
}
