package cmd

import (
	"context"

	"golang-backtest/pkg/logger"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output.parquet>",
	Short: "Convert a CSV bar file into parquet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appDep, err := NewAppDependency(ctx)
		if err != nil {
			return err
		}
		defer appDep.Close()

		repo, _ := appDep.Services()
		bars, err := repo.BarRepo.LoadBars(ctx, args[0])
		if err != nil {
			return err
		}
		if err := repo.BarRepo.SaveBarsParquet(ctx, args[1], bars); err != nil {
			return err
		}
		appDep.log.InfoContext(ctx, "Bars converted",
			logger.StringField("input", args[0]),
			logger.StringField("output", args[1]),
			logger.IntField("bars", len(bars)))
		return nil
	},
}
