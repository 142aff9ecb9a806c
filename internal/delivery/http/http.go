package http

import (
	"context"
	"errors"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	v1 := base.Group("/v1")
	h.SetupBacktest(v1)
	h.SetupAnalytics(v1)
}

// bind decodes and validates the request body into req.
func (h *HttpAPIHandler) bind(c echo.Context, req any) *dto.BaseResponse {
	if err := c.Bind(req); err != nil {
		return dto.NewBadRequestResponse("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return dto.NewBadRequestResponse(err.Error())
	}
	return nil
}

func errorResponse(err error) *dto.BaseResponse {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return dto.NewNotFoundResponse(err.Error())
	case errors.Is(err, model.ErrConfigValidation),
		errors.Is(err, model.ErrData),
		errors.Is(err, model.ErrComparison):
		return dto.NewUnprocessableResponse(err.Error(), nil)
	default:
		return dto.NewInternalErrorResponse(err.Error())
	}
}

func respond(c echo.Context, response *dto.BaseResponse) error {
	return c.JSON(response.Code, response)
}
