package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-access/internal/services"
	"equipment-access/pkg/api"
)

type TokenController struct {
	tokenService services.TokenServiceInterface
	logger       *zap.Logger
}

func NewTokenController(tokenService services.TokenServiceInterface, logger *zap.Logger) *TokenController {
	return &TokenController{tokenService: tokenService, logger: logger}
}

func (c *TokenController) IssueToken(ctx echo.Context) error {
	personID, equipmentID, err := pairParams(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	issued, err := c.tokenService.Issue(ctx.Request().Context(), personID, equipmentID)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "token", issued)
}

func (c *TokenController) IssueQR(ctx echo.Context) error {
	personID, equipmentID, err := pairParams(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	png, err := c.tokenService.IssuePNG(ctx.Request().Context(), personID, equipmentID)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}

func pairParams(ctx echo.Context) (int64, int64, error) {
	personID, err := pathID(ctx, "person")
	if err != nil {
		return 0, 0, err
	}
	equipmentID, err := pathID(ctx, "equipment")
	if err != nil {
		return 0, 0, err
	}
	return personID, equipmentID, nil
}
