package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	compareStrategies []string
	compareBars       string
	compareCapital    float64
	compareOutput     string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several strategies on the same bars and compare them",
	RunE:  Compare,
}

func Compare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	repo, services := appDep.Services()

	bars, err := repo.BarRepo.LoadBars(ctx, compareBars)
	if err != nil {
		return err
	}

	reqs := make([]dto.BacktestRequest, 0, len(compareStrategies))
	for _, path := range compareStrategies {
		strategy, err := repo.StrategyRepo.Load(ctx, path)
		if err != nil {
			return err
		}
		reqs = append(reqs, dto.BacktestRequest{Strategy: strategy, Bars: bars, InitialCapital: compareCapital})
	}

	results, err := services.BacktestService.RunBatch(ctx, reqs)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(results))
	for i, r := range results {
		if r == nil || r.Status != model.StatusCompleted {
			appDep.log.WarnContext(ctx, "Skipping strategy that did not complete",
				logger.StringField("strategy", compareStrategies[i]))
			continue
		}
		ids = append(ids, r.ID)
	}
	if len(ids) < 2 {
		return fmt.Errorf("%w: only %d strategies completed", model.ErrComparison, len(ids))
	}

	analysis, err := services.AnalyticsService.CompareStrategies(ctx, ids)
	if err != nil {
		return err
	}
	for _, s := range analysis.Strategies {
		appDep.log.InfoContext(ctx, "Strategy compared",
			logger.StringField("strategy", s.StrategyName),
			logger.StringField("total_return", utils.FormatPercentage(s.TotalReturn)),
			logger.StringField("max_drawdown", utils.FormatPercentage(s.MaxDrawdown)),
			logger.IntField("rank_return", s.RankReturn))
	}
	return writeJSON(cmd.OutOrStdout(), compareOutput, analysis)
}

func init() {
	compareCmd.Flags().StringArrayVarP(&compareStrategies, "strategy", "s", nil, "strategy YAML file (repeatable)")
	compareCmd.Flags().StringVarP(&compareBars, "bars", "b", "", "bar file (.csv or .parquet)")
	compareCmd.Flags().Float64Var(&compareCapital, "capital", 0, "initial capital for every run")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write the analysis to a file instead of stdout")
	_ = compareCmd.MarkFlagRequired("strategy")
	_ = compareCmd.MarkFlagRequired("bars")
}
