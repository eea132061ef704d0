package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-access/internal/dto"
	"equipment-access/internal/services"
	"equipment-access/pkg/api"
	"equipment-access/pkg/utils"
)

type ProviderController struct {
	providerService services.ProviderServiceInterface
	logger          *zap.Logger
}

func NewProviderController(providerService services.ProviderServiceInterface, logger *zap.Logger) *ProviderController {
	return &ProviderController{providerService: providerService, logger: logger}
}

func (c *ProviderController) GetProviders(ctx echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(ctx.QueryParams())
	providers, err := c.providerService.ListProviders(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "providers", utils.Paginate(providers, limit, offset), uint64(len(providers)), int(page), int(limit))
}

func (c *ProviderController) FindProvider(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	provider, err := c.providerService.FindProvider(ctx.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "provider", provider)
}

func (c *ProviderController) CreateProvider(ctx echo.Context) error {
	var d dto.CreateProviderDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	provider, err := c.providerService.CreateProvider(ctx.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "provider created", provider)
}

func (c *ProviderController) UpdateProvider(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateProviderDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	provider, err := c.providerService.UpdateProvider(ctx.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "provider updated", provider)
}

func (c *ProviderController) DeleteProvider(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.providerService.DeleteProvider(ctx.Request().Context(), id); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "provider deleted", nil)
}
