package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/indicator"
	"golang-backtest/internal/model"
	"golang-backtest/internal/portfolio"
	"golang-backtest/internal/strategy"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/progress"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultWarmupPeriod       = 50
	DefaultRiskFreeRate       = 0.01
	DefaultTradingDaysPerYear = 252
	DefaultProgressEvery      = 100
)

type Options struct {
	WarmupPeriod       int
	RiskFreeRate       float64
	TradingDaysPerYear int
	ProgressEvery      int
	Validate           *goValidator.Validate
}

func (o Options) withDefaults() Options {
	if o.WarmupPeriod < 0 {
		o.WarmupPeriod = DefaultWarmupPeriod
	}
	if o.TradingDaysPerYear <= 0 {
		o.TradingDaysPerYear = DefaultTradingDaysPerYear
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	return o
}

// DefaultOptions mirrors the backtest section of the config defaults.
func DefaultOptions() Options {
	return Options{
		WarmupPeriod:       DefaultWarmupPeriod,
		RiskFreeRate:       DefaultRiskFreeRate,
		TradingDaysPerYear: DefaultTradingDaysPerYear,
		ProgressEvery:      DefaultProgressEvery,
	}
}

// Engine runs strategies bar by bar. It keeps no per-run state, so a single Engine
// may serve concurrent runs.
type Engine struct {
	log       *logger.Logger
	opts      Options
	evaluator *strategy.Evaluator
	validator *strategy.Validator
}

func NewEngine(log *logger.Logger, opts Options) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	opts = opts.withDefaults()
	return &Engine{
		log:       log,
		opts:      opts,
		evaluator: strategy.NewEvaluator(),
		validator: strategy.NewValidator(opts.Validate),
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Run simulates cfg over bars. On any failure the returned result is still
// non-nil: it carries the failed or cancelled status, the error message and zero
// metrics, without trades or snapshots.
func (e *Engine) Run(ctx context.Context, cfg dto.StrategyConfig, bars []model.Bar, initialCapital float64, sink progress.Sink) (*model.BacktestResult, error) {
	started := time.Now()
	sink = progress.Safe(sink)
	result := &model.BacktestResult{
		ID:             uuid.NewString(),
		StrategyName:   cfg.Name,
		Symbol:         cfg.AssetSelection.Symbol,
		InitialCapital: initialCapital,
		Trades:         []model.Trade{},
		Snapshots:      []model.PortfolioSnapshot{},
		CreatedAt:      started,
	}
	if len(bars) > 0 {
		result.StartDate = bars[0].Timestamp
		result.EndDate = bars[len(bars)-1].Timestamp
	}
	log := e.log.With(logger.StringField("backtest_id", result.ID), logger.StringField("strategy", cfg.Name))

	fail := func(err error) (*model.BacktestResult, error) {
		status := model.StatusFailed
		if errors.Is(err, model.ErrCancelled) {
			status = model.StatusCancelled
			sink.Report(progress.Aborted, "Backtest cancelled")
		} else {
			sink.Report(progress.Aborted, fmt.Sprintf("Error during backtest: %s", err))
		}
		log.ErrorContext(ctx, "Backtest aborted", logger.ErrorField(err), logger.StringField("status", string(status)))
		failed := &model.BacktestResult{
			ID:             result.ID,
			StrategyName:   result.StrategyName,
			Symbol:         result.Symbol,
			Status:         status,
			ErrorMessage:   err.Error(),
			StartDate:      result.StartDate,
			EndDate:        result.EndDate,
			InitialCapital: initialCapital,
			Trades:         []model.Trade{},
			Snapshots:      []model.PortfolioSnapshot{},
			Warnings:       result.Warnings,
			ExecutionTime:  time.Since(started),
			CreatedAt:      result.CreatedAt,
		}
		return failed, err
	}

	if initialCapital <= 0 {
		return fail(fmt.Errorf("%w: initial capital must be positive, got %v", model.ErrConfigValidation, initialCapital))
	}
	validation := e.validator.Validate(cfg)
	result.Warnings = validation.Warnings
	for _, w := range validation.Warnings {
		log.WarnContext(ctx, "Strategy validation warning", logger.StringField("warning", w))
	}
	if err := validation.Err(); err != nil {
		return fail(err)
	}
	if err := model.ValidateBars(bars, 1); err != nil {
		return fail(err)
	}

	log.InfoContext(ctx, "Starting backtest",
		logger.StringField("symbol", cfg.AssetSelection.Symbol),
		logger.IntField("bars", len(bars)),
		logger.Float64Field("initial_capital", initialCapital))
	sink.Report(0, "Starting backtest")

	values, err := indicator.ComputeAll(bars, cfg.SignalGeneration.Indicators)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", model.ErrConfigValidation, err))
	}
	sink.Report(10, "Technical indicators calculated")

	sim := portfolio.NewSimulator(initialCapital)
	if err := e.simulate(ctx, log, cfg, bars, values, sim, sink); err != nil {
		return fail(err)
	}

	sink.Report(90, "Calculating performance metrics...")
	result.Trades = sim.Trades()
	result.Snapshots = sim.Snapshots()
	result.Performance, result.Drawdown, result.Trading = computeMetrics(result.Snapshots, result.Trades, initialCapital, e.opts)
	result.Status = model.StatusCompleted
	result.ExecutionTime = time.Since(started)
	sink.Report(100, "Backtest completed successfully")

	log.InfoContext(ctx, "Backtest completed",
		logger.IntField("total_trades", result.Trading.TotalTrades),
		logger.Float64Field("total_return_pct", result.Performance.TotalReturnPct),
		logger.DurationField("execution_time", result.ExecutionTime))
	return result, nil
}

// simulate drives the bar loop. Any panic aborts the whole run as a simulation error.
func (e *Engine) simulate(
	ctx context.Context,
	log *logger.Logger,
	cfg dto.StrategyConfig,
	bars []model.Bar,
	values indicator.Values,
	sim *portfolio.Simulator,
	sink progress.Sink,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", model.ErrSimulation, r)
		}
	}()

	symbol := cfg.AssetSelection.Symbol
	sg := cfg.SignalGeneration
	exec := cfg.ExecutionParameters
	total := len(bars)
	peaks := make(map[string]float64)
	var prev *strategy.Frame

	for i, bar := range bars {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w at bar %d: %w", model.ErrCancelled, i, ctxErr)
		}
		if i%e.opts.ProgressEvery == 0 {
			sink.Report(10+float64(i)/float64(total)*80, fmt.Sprintf("Processing bar %d/%d", i+1, total))
		}
		marks := map[string]float64{symbol: bar.Close}

		if i < e.opts.WarmupPeriod {
			sim.RecordSnapshot(bar.Timestamp, marks)
			continue
		}

		frame := strategy.Frame{Bar: bar, Indicators: values.At(i)}
		lots := sim.OpenLots(symbol)
		for _, lot := range lots {
			peaks[lot.ID] = max(peaks[lot.ID], bar.Close)
		}

		exited := false
		if len(lots) > 0 {
			exitSignal, err := e.evaluator.Evaluate(sg.ExitConditions, frame, prev)
			if err != nil {
				return fmt.Errorf("%w: exit conditions at bar %d: %w", model.ErrSimulation, i, err)
			}
			// Most recent lot first.
			for j := len(lots) - 1; j >= 0; j-- {
				lot := lots[j]
				reason := model.ExitSignal
				if !exitSignal {
					var hit bool
					if reason, hit = riskExit(cfg.RiskManagement, lot, bar.Close, peaks[lot.ID]); !hit {
						continue
					}
				}
				_, err := sim.Submit(portfolio.Order{
					Symbol:      symbol,
					Action:      model.ActionSell,
					Quantity:    lot.Quantity,
					Price:       bar.Close,
					Timestamp:   bar.Timestamp,
					Fees:        feeAmount(lot.Quantity, bar.Close, exec.FeesBps),
					SlippageBps: exec.SlippageBps,
					Reason:      reason,
					LotID:       lot.ID,
				})
				if err != nil {
					log.DebugContext(ctx, "Sell order rejected", logger.IntField("bar", i), logger.ErrorField(err))
					continue
				}
				delete(peaks, lot.ID)
				exited = true
			}
		}

		if len(lots) == 0 || (sg.AllowMultipleEntries && !exited) {
			entry, err := e.evaluator.Evaluate(sg.EntryConditions, frame, prev)
			if err != nil {
				return fmt.Errorf("%w: entry conditions at bar %d: %w", model.ErrSimulation, i, err)
			}
			if entry {
				e.enter(ctx, log, cfg, bar, i, sim, peaks)
			}
		}

		prev = &frame
		sim.RecordSnapshot(bar.Timestamp, marks)
	}
	return nil
}

func (e *Engine) enter(ctx context.Context, log *logger.Logger, cfg dto.StrategyConfig, bar model.Bar, i int, sim *portfolio.Simulator, peaks map[string]float64) {
	exec := cfg.ExecutionParameters
	qty := positionSize(exec, cfg.RiskManagement, bar.Close, sim.Cash())
	if qty <= 0 {
		log.DebugContext(ctx, "Entry signal skipped, position size is zero", logger.IntField("bar", i))
		return
	}
	trade, err := sim.Submit(portfolio.Order{
		Symbol:      cfg.AssetSelection.Symbol,
		Action:      model.ActionBuy,
		Quantity:    qty,
		Price:       bar.Close,
		Timestamp:   bar.Timestamp,
		Fees:        feeAmount(qty, bar.Close, exec.FeesBps),
		SlippageBps: exec.SlippageBps,
	})
	if err != nil {
		log.DebugContext(ctx, "Buy order rejected", logger.IntField("bar", i), logger.ErrorField(err))
		return
	}
	peaks[trade.ID] = bar.Close
}
