package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "equipment-access/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T             `json:"list"`
	Pagination *PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	TotalCount uint64 `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// FieldError is the body of a 400 caused by a single invalid field.
type FieldError struct {
	Field string `json:"field"`
}

func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T, total uint64, page, limit int) error {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}

	if list == nil {
		list = make([]T, 0)
	}

	body := ListBody[T]{
		List: list,
		Pagination: &PaginationMeta{
			TotalCount: total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
		},
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    body,
	})
}

// ErrorResponse maps err onto its status code. Server errors are logged and
// their details are not sent to the client.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code := apperrors.StatusCode(err)
	msg := err.Error()

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		msg = httpErr.Message
	}
	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		if httpErr == nil {
			msg = http.StatusText(code)
		}
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field != "" {
		return c.JSON(code, Response[FieldError]{
			Status:  false,
			Message: msg,
			Body:    FieldError{Field: validationErr.Field},
		})
	}
	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
