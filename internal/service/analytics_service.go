package service

import (
	"context"

	"golang-backtest/internal/analytics"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"
)

// AnalyticsService menghitung analitik lanjutan dari hasil backtest yang tersimpan.
type AnalyticsService interface {
	ComputeAnalytics(ctx context.Context, id string, req dto.AnalyticsRequest) (*dto.Analytics, error)
	CompareBenchmark(ctx context.Context, id string, req dto.BenchmarkRequest) (*dto.BenchmarkComparison, error)
	CompareStrategies(ctx context.Context, ids []string) (*dto.MultiStrategyAnalysis, error)
}

type analyticsService struct {
	log        *logger.Logger
	engine     *analytics.Engine
	resultRepo repository.ResultRepository
}

func NewAnalyticsService(log *logger.Logger, engine *analytics.Engine, resultRepo repository.ResultRepository) AnalyticsService {
	return &analyticsService{log: log, engine: engine, resultRepo: resultRepo}
}

func (s *analyticsService) ComputeAnalytics(ctx context.Context, id string, req dto.AnalyticsRequest) (*dto.Analytics, error) {
	result, err := s.resultRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var benchmark *analytics.Benchmark
	if len(req.BenchmarkBars) > 0 {
		benchmark = &analytics.Benchmark{Symbol: req.BenchmarkSymbol, Bars: req.BenchmarkBars}
	}

	out, err := s.engine.ComputeAnalytics(result, benchmark, req.IncludeRolling)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to compute analytics", logger.StringField("backtest_id", id), logger.ErrorField(err))
		return nil, err
	}
	return out, nil
}

func (s *analyticsService) CompareBenchmark(ctx context.Context, id string, req dto.BenchmarkRequest) (*dto.BenchmarkComparison, error) {
	result, err := s.resultRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.CompareBenchmark(result, analytics.Benchmark{Symbol: req.BenchmarkSymbol, Bars: req.BenchmarkBars})
}

func (s *analyticsService) CompareStrategies(ctx context.Context, ids []string) (*dto.MultiStrategyAnalysis, error) {
	results, err := s.resultRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.engine.CompareStrategies(results)
}
