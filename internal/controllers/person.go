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

type PersonController struct {
	personService services.PersonServiceInterface
	logger        *zap.Logger
}

func NewPersonController(personService services.PersonServiceInterface, logger *zap.Logger) *PersonController {
	return &PersonController{personService: personService, logger: logger}
}

func (c *PersonController) GetPersons(ctx echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(ctx.QueryParams())
	persons, err := c.personService.ListPersons(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "persons", utils.Paginate(persons, limit, offset), uint64(len(persons)), int(page), int(limit))
}

func (c *PersonController) FindPerson(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	person, err := c.personService.FindPerson(ctx.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "person", person)
}

func (c *PersonController) CreatePerson(ctx echo.Context) error {
	var d dto.CreatePersonDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	person, err := c.personService.CreatePerson(ctx.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "person created", person)
}

func (c *PersonController) UpdatePerson(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdatePersonDTO
	if err := bind(ctx, &d); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	person, err := c.personService.UpdatePerson(ctx.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "person updated", person)
}

func (c *PersonController) DeletePerson(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.personService.DeletePerson(ctx.Request().Context(), id); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "person deleted", nil)
}
