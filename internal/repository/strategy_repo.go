package repository

import (
	"context"
	"fmt"
	"os"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"gopkg.in/yaml.v3"
)

// StrategyRepository memuat definisi strategi dari file YAML.
type StrategyRepository interface {
	Load(ctx context.Context, path string) (dto.StrategyConfig, error)
	Save(ctx context.Context, path string, cfg dto.StrategyConfig) error
}

type strategyRepository struct{}

func NewStrategyRepository() StrategyRepository {
	return &strategyRepository{}
}

func (r *strategyRepository) Load(_ context.Context, path string) (dto.StrategyConfig, error) {
	var cfg dto.StrategyConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", model.ErrConfigValidation, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %w", model.ErrConfigValidation, path, err)
	}
	return cfg, nil
}

func (r *strategyRepository) Save(_ context.Context, path string, cfg dto.StrategyConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
