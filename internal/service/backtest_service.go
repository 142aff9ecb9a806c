package service

import (
	"context"
	"errors"
	"fmt"

	"golang-backtest/config"
	"golang-backtest/internal/backtest"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/indicator"
	"golang-backtest/internal/model"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/progress"
	"golang-backtest/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const progressBuffer = 64

// BacktestService mendefinisikan interface untuk layanan backtesting.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest, sink progress.Sink) (*model.BacktestResult, error)
	RunBatch(ctx context.Context, reqs []dto.BacktestRequest) ([]*model.BacktestResult, error)
	GetResult(ctx context.Context, id string) (*model.BacktestResult, error)
	ListResults(ctx context.Context) ([]*model.BacktestResult, error)
	ListIndicators(ctx context.Context) []indicator.Info
}

type backtestService struct {
	cfg        *config.Config
	log        *logger.Logger
	engine     *backtest.Engine
	resultRepo repository.ResultRepository
}

// NewBacktestService membuat instance baru dari backtestService.
func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	engine *backtest.Engine,
	resultRepo repository.ResultRepository,
) BacktestService {
	return &backtestService{
		cfg:        cfg,
		log:        log,
		engine:     engine,
		resultRepo: resultRepo,
	}
}

// RunBacktest menjalankan satu simulasi. Tanpa sink, progress dicatat ke log debug.
// Hasil yang selesai disimpan agar bisa dianalisis kemudian.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest, sink progress.Sink) (*model.BacktestResult, error) {
	if s.cfg.Backtest.TimeoutDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Backtest.TimeoutDuration)
		defer cancel()
	}

	ctx = logger.NewContext(ctx, s.log.With(logger.StringField("strategy", req.Strategy.Name)))

	capital := req.InitialCapital
	if capital == 0 {
		capital = s.cfg.Backtest.DefaultInitialCapital
	}

	if sink == nil {
		ch := progress.NewChannel(progressBuffer)
		defer ch.Close()
		s.drainProgress(ctx, req.Strategy.Name, ch)
		sink = ch
	}

	result, err := s.engine.Run(ctx, req.Strategy, req.Bars, capital, sink)
	if err != nil {
		s.log.WarnContext(ctx, "Backtest did not complete",
			logger.StringField("backtest_id", result.ID),
			logger.StringField("status", string(result.Status)),
			logger.ErrorField(err))
		return result, err
	}

	if err := s.resultRepo.Save(ctx, result); err != nil {
		s.log.ErrorContext(ctx, "Failed to store backtest result", logger.ErrorField(err))
		return result, err
	}
	return result, nil
}

func (s *backtestService) drainProgress(ctx context.Context, strategyName string, ch *progress.Channel) {
	utils.GoSafe(s.log, func() {
		for ev := range ch.Events() {
			s.log.DebugContext(ctx, "Backtest progress",
				logger.StringField("strategy", strategyName),
				logger.Float64Field("percent", ev.Percent),
				logger.StringField("message", ev.Message))
		}
	})
}

// RunBatch menjalankan beberapa backtest secara paralel, dibatasi oleh
// backtest.max_concurrency. Kegagalan satu run tidak menghentikan run lainnya;
// hasil dikembalikan sesuai urutan request.
func (s *backtestService) RunBatch(ctx context.Context, reqs []dto.BacktestRequest) ([]*model.BacktestResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", model.ErrConfigValidation)
	}

	results := make([]*model.BacktestResult, len(reqs))
	g := new(errgroup.Group)
	if s.cfg.Backtest.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.Backtest.MaxConcurrency)
	}

	s.log.InfoContext(ctx, "Start running backtest batch",
		logger.IntField("batch_size", len(reqs)),
		logger.IntField("max_concurrency", s.cfg.Backtest.MaxConcurrency))

	for i, req := range reqs {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		i, req := i, req
		g.Go(func() error {
			result, err := s.RunBacktest(ctx, req, nil)
			results[i] = result
			if errors.Is(err, model.ErrCancelled) && ctx.Err() != nil {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("%w: %w", model.ErrCancelled, err)
	}
	return results, nil
}

func (s *backtestService) GetResult(ctx context.Context, id string) (*model.BacktestResult, error) {
	return s.resultRepo.Get(ctx, id)
}

func (s *backtestService) ListResults(ctx context.Context) ([]*model.BacktestResult, error) {
	return s.resultRepo.List(ctx)
}

func (s *backtestService) ListIndicators(_ context.Context) []indicator.Info {
	return indicator.Catalog()
}
