package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/progress"
	"golang-backtest/pkg/utils"

	"github.com/spf13/cobra"
)

type runOptions struct {
	strategyPath    string
	barsPath        string
	capital         float64
	benchmarkPath   string
	benchmarkSymbol string
	rolling         bool
	outputPath      string
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single backtest from a strategy file and a bar file",
	RunE:  Run,
}

// runReport is the JSON document written by the run command.
type runReport struct {
	Result    *model.BacktestResult `json:"result"`
	Analytics *dto.Analytics        `json:"analytics,omitempty"`
}

func Run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	repo, services := appDep.Services()

	strategy, err := repo.StrategyRepo.Load(ctx, runOpts.strategyPath)
	if err != nil {
		return err
	}
	bars, err := repo.BarRepo.LoadBars(ctx, runOpts.barsPath)
	if err != nil {
		return err
	}

	sink := progress.Func(func(percent float64, message string) {
		appDep.log.InfoContext(ctx, "Backtest progress",
			logger.Float64Field("percent", percent),
			logger.StringField("message", message))
	})

	result, err := services.BacktestService.RunBacktest(ctx, dto.BacktestRequest{
		Strategy:       strategy,
		Bars:           bars,
		InitialCapital: runOpts.capital,
	}, sink)
	if err != nil {
		if result != nil {
			_ = writeJSON(cmd.OutOrStdout(), runOpts.outputPath, runReport{Result: result})
		}
		return err
	}

	req := dto.AnalyticsRequest{IncludeRolling: runOpts.rolling}
	if runOpts.benchmarkPath != "" {
		req.BenchmarkSymbol = runOpts.benchmarkSymbol
		req.BenchmarkBars, err = repo.BarRepo.LoadBars(ctx, runOpts.benchmarkPath)
		if err != nil {
			return err
		}
	}

	analytics, err := services.AnalyticsService.ComputeAnalytics(ctx, result.ID, req)
	if err != nil {
		return err
	}

	appDep.log.InfoContext(ctx, "Backtest report ready",
		logger.StringField("backtest_id", result.ID),
		logger.StringField("total_return", utils.FormatPercentage(result.Performance.TotalReturnPct)),
		logger.StringField("max_drawdown", utils.FormatPercentage(result.Drawdown.MaxDrawdownPct)),
		logger.IntField("total_trades", result.Trading.TotalTrades))

	return writeJSON(cmd.OutOrStdout(), runOpts.outputPath, runReport{Result: result, Analytics: analytics})
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty.
func writeJSON(stdout io.Writer, path string, v any) error {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("close output: %v", err)
			}
		}()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.strategyPath, "strategy", "s", "", "strategy YAML file")
	runCmd.Flags().StringVarP(&runOpts.barsPath, "bars", "b", "", "bar file (.csv or .parquet)")
	runCmd.Flags().Float64Var(&runOpts.capital, "capital", 0, "initial capital (defaults to backtest.default_initial_capital)")
	runCmd.Flags().StringVar(&runOpts.benchmarkPath, "benchmark", "", "benchmark bar file")
	runCmd.Flags().StringVar(&runOpts.benchmarkSymbol, "benchmark-symbol", "BENCHMARK", "benchmark symbol label")
	runCmd.Flags().BoolVar(&runOpts.rolling, "rolling", false, "include rolling metrics")
	runCmd.Flags().StringVarP(&runOpts.outputPath, "output", "o", "", "write the report to a file instead of stdout")
	_ = runCmd.MarkFlagRequired("strategy")
	_ = runCmd.MarkFlagRequired("bars")
}
