package service

import (
	"golang-backtest/config"
	"golang-backtest/internal/analytics"
	"golang-backtest/internal/backtest"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

type Service struct {
	BacktestService  BacktestService
	AnalyticsService AnalyticsService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	validator *goValidator.Validate,
) *Service {
	backtestEngine := backtest.NewEngine(log, backtest.Options{
		WarmupPeriod:       cfg.Backtest.WarmupPeriod,
		RiskFreeRate:       cfg.Backtest.RiskFreeRate,
		TradingDaysPerYear: cfg.Backtest.TradingDaysPerYear,
		ProgressEvery:      cfg.Backtest.ProgressEvery,
		Validate:           validator,
	})
	analyticsEngine := analytics.NewEngine(log, analytics.Options{
		RiskFreeRate:       cfg.Analytics.RiskFreeRate,
		RollingWindow:      cfg.Analytics.RollingWindow,
		HistogramBins:      cfg.Analytics.HistogramBins,
		TradingDaysPerYear: cfg.Backtest.TradingDaysPerYear,
	})

	return &Service{
		BacktestService:  NewBacktestService(cfg, log, backtestEngine, repo.ResultRepo),
		AnalyticsService: NewAnalyticsService(log, analyticsEngine, repo.ResultRepo),
	}
}
