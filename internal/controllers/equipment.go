package controllers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-access/internal/dto"
	"equipment-access/internal/services"
	"equipment-access/pkg/api"
	"equipment-access/pkg/utils"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	importService    services.EquipmentImportServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	equipmentService services.EquipmentServiceInterface,
	importService services.EquipmentImportServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
		importService:    importService,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(ctx.QueryParams())
	equipments, err := c.equipmentService.ListEquipments(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "equipment", utils.Paginate(equipments, limit, offset), uint64(len(equipments)), int(page), int(limit))
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	equipment, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "equipment", equipment)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var d dto.CreateEquipmentDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	equipment, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "equipment created", equipment)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateEquipmentDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	equipment, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "equipment updated", equipment)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "equipment deleted", nil)
}

// UploadImage expects a multipart "image" field.
func (c *EquipmentController) UploadImage(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	data, err := formFile(ctx, "image")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	equipment, err := c.equipmentService.AttachImage(ctx.Request().Context(), id, data)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "image attached", equipment)
}

// ImportEquipment expects a multipart "file" field holding an xlsx workbook.
func (c *EquipmentController) ImportEquipment(ctx echo.Context) error {
	data, err := formFile(ctx, "file")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.importService.Import(ctx.Request().Context(), bytes.NewReader(data))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "equipment imported", result)
}
