package repository

import (
	"golang-backtest/config"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"
)

type Repository struct {
	BarRepo      BarRepository
	StrategyRepo StrategyRepository
	ResultRepo   ResultRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) *Repository {
	return &Repository{
		BarRepo:      NewBarRepository(log),
		StrategyRepo: NewStrategyRepository(),
		ResultRepo:   NewResultRepository(cfg, inmemoryCache),
	}
}
