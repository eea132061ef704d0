package controllers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-access/internal/dto"
	"equipment-access/internal/services"
	"equipment-access/pkg/api"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AccessRequestController struct {
	accessRequestService services.AccessRequestServiceInterface
	toggleService        services.AccessToggleServiceInterface
	scanService          services.ScanServiceInterface
	reportService        services.AccessReportServiceInterface
	logger               *zap.Logger
}

func NewAccessRequestController(
	accessRequestService services.AccessRequestServiceInterface,
	toggleService services.AccessToggleServiceInterface,
	scanService services.ScanServiceInterface,
	reportService services.AccessReportServiceInterface,
	logger *zap.Logger,
) *AccessRequestController {
	return &AccessRequestController{
		accessRequestService: accessRequestService,
		toggleService:        toggleService,
		scanService:          scanService,
		reportService:        reportService,
		logger:               logger,
	}
}

func (c *AccessRequestController) GetAccessRequests(ctx echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(ctx.QueryParams())
	requests, err := c.accessRequestService.ListEntryRequests(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "access requests", utils.Paginate(requests, limit, offset), uint64(len(requests)), int(page), int(limit))
}

func (c *AccessRequestController) FindAccessRequest(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.accessRequestService.FindEntryRequest(ctx.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "access request", request)
}

// History expects person_id and equipment_id query parameters.
func (c *AccessRequestController) History(ctx echo.Context) error {
	personID, err := queryID(ctx, "person_id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	equipmentID, err := queryID(ctx, "equipment_id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	history, err := c.accessRequestService.History(ctx.Request().Context(), personID, equipmentID)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "access history", history, uint64(len(history)), 1, len(history))
}

func (c *AccessRequestController) CreateAccessRequest(ctx echo.Context) error {
	var d dto.CreateAccessRequestDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.accessRequestService.CreateEntryRequest(ctx.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "access request created", request)
}

func (c *AccessRequestController) UpdateAccessRequest(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateAccessRequestDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.accessRequestService.UpdateEntryRequest(ctx.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "access request updated", request)
}

func (c *AccessRequestController) DeleteAccessRequest(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.accessRequestService.DeleteEntryRequest(ctx.Request().Context(), id); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "access request deleted", nil)
}

func (c *AccessRequestController) Toggle(ctx echo.Context) error {
	var d dto.ToggleDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.toggleService.Toggle(ctx.Request().Context(), d.Token)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "access toggled", request)
}

// Scan decodes the token from an uploaded "frame" image and toggles its pair.
func (c *AccessRequestController) Scan(ctx echo.Context) error {
	data, err := formFile(ctx, "frame")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	frame, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewValidationError("frame", "not a decodable image: %v", err), c.logger)
	}
	request, err := c.scanService.ScanAndToggle(ctx.Request().Context(), qr.NewStaticFrameSource(frame))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "access toggled", request)
}

func (c *AccessRequestController) Export(ctx echo.Context) error {
	var buf bytes.Buffer
	if _, err := c.reportService.Export(ctx.Request().Context(), &buf); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	fileName := fmt.Sprintf("access_log_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
