package http

import (
	"golang-backtest/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	{
		backtestGroup.POST("", h.runBacktest)
		backtestGroup.POST("/batch", h.runBatch)
		backtestGroup.GET("", h.listResults)
		backtestGroup.GET("/:id", h.getResult)
	}
	base.GET("/indicators", h.listIndicators)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if resp := h.bind(c, req); resp != nil {
		return respond(c, resp)
	}

	result, err := h.service.BacktestService.RunBacktest(ctx, *req, nil)
	if err != nil {
		resp := errorResponse(err)
		if result != nil {
			resp.Data = result
		}
		return respond(c, resp)
	}

	return respond(c, dto.NewSuccessResponse("Backtest completed", result))
}

func (h *HttpAPIHandler) runBatch(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BatchBacktestRequest)
	if resp := h.bind(c, req); resp != nil {
		return respond(c, resp)
	}

	results, err := h.service.BacktestService.RunBatch(ctx, req.Requests)
	if err != nil {
		return respond(c, errorResponse(err))
	}

	summaries := make([]dto.BacktestSummary, 0, len(results))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, dto.NewBacktestSummary(r))
		}
	}
	return respond(c, dto.NewSuccessResponse("Batch completed", summaries))
}

func (h *HttpAPIHandler) getResult(c echo.Context) error {
	result, err := h.service.BacktestService.GetResult(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respond(c, errorResponse(err))
	}
	return respond(c, dto.NewSuccessResponse("OK", result))
}

func (h *HttpAPIHandler) listResults(c echo.Context) error {
	results, err := h.service.BacktestService.ListResults(c.Request().Context())
	if err != nil {
		return respond(c, errorResponse(err))
	}
	summaries := make([]dto.BacktestSummary, len(results))
	for i, r := range results {
		summaries[i] = dto.NewBacktestSummary(r)
	}
	return respond(c, dto.NewSuccessResponse("OK", summaries))
}

func (h *HttpAPIHandler) listIndicators(c echo.Context) error {
	return respond(c, dto.NewSuccessResponse("OK", h.service.BacktestService.ListIndicators(c.Request().Context())))
}
