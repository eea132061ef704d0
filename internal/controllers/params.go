package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/validation"
)

// pathID reads a positive integer path parameter.
func pathID(ctx echo.Context, name string) (int64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name, "must be a positive integer, got %q", raw)
	}
	return id, nil
}

func queryID(ctx echo.Context, name string) (int64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, apperrors.RequiredField(name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name, "must be a positive integer, got %q", raw)
	}
	return id, nil
}

func bind(ctx echo.Context, target interface{}) error {
	if err := ctx.Bind(target); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil)
	}
	return nil
}

// formFile reads an uploaded multipart file, capped at the image size limit.
func formFile(ctx echo.Context, field string) ([]byte, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		return nil, apperrors.RequiredField(field)
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limit := int64(validation.MaxImageSizeMB) * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, apperrors.NewValidationError(field, "file exceeds %d MB", validation.MaxImageSizeMB)
	}
	return data, nil
}
