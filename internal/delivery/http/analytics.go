package http

import (
	"golang-backtest/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalytics(base *echo.Group) {
	base.POST("/backtest/:id/analytics", h.computeAnalytics)
	base.POST("/backtest/:id/benchmark", h.compareBenchmark)
	base.POST("/analytics/compare", h.compareStrategies)
}

func (h *HttpAPIHandler) computeAnalytics(c echo.Context) error {
	req := new(dto.AnalyticsRequest)
	if resp := h.bind(c, req); resp != nil {
		return respond(c, resp)
	}

	out, err := h.service.AnalyticsService.ComputeAnalytics(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return respond(c, errorResponse(err))
	}
	return respond(c, dto.NewSuccessResponse("OK", out))
}

func (h *HttpAPIHandler) compareBenchmark(c echo.Context) error {
	req := new(dto.BenchmarkRequest)
	if resp := h.bind(c, req); resp != nil {
		return respond(c, resp)
	}

	out, err := h.service.AnalyticsService.CompareBenchmark(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return respond(c, errorResponse(err))
	}
	return respond(c, dto.NewSuccessResponse("OK", out))
}

func (h *HttpAPIHandler) compareStrategies(c echo.Context) error {
	req := new(dto.CompareRequest)
	if resp := h.bind(c, req); resp != nil {
		return respond(c, resp)
	}

	out, err := h.service.AnalyticsService.CompareStrategies(c.Request().Context(), req.BacktestIDs)
	if err != nil {
		return respond(c, errorResponse(err))
	}
	return respond(c, dto.NewSuccessResponse("OK", out))
}
