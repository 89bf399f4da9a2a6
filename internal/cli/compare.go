package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/kinfit/internal/fit"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/internal/report"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		data    dataFlags
		models  []string
		details bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Fit several models to the same data and rank them",
		Long: `Fit every selected model to one observation set and rank the fits by
score, best first.

Examples:
  kinfit compare --dataset all
  kinfit compare --models hw,mvk --details`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(models) == 0 {
				models = kinetics.ModelNames()
			}
			plans := make([]*fit.Plan, 0, len(models))
			for _, name := range models {
				plan, err := fit.PlanFromConfig(a.cfg, name)
				if err != nil {
					return err
				}
				plans = append(plans, plan)
			}
			set, label, err := data.load(a)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results := make([]*fit.Result, 0, len(plans))
			for _, plan := range plans {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := plan.Run(ctx, set)
				if err != nil {
					logger.Warn("model fit failed", "model", plan.Model.Name(), "error", err)
					continue
				}
				results = append(results, res)
			}
			if len(results) == 0 {
				return fmt.Errorf("no model could be fitted to %s", label)
			}

			out := cmd.OutOrStdout()
			if err := report.WriteRanking(out, fit.Rank(results)); err != nil {
				return err
			}
			if !details {
				return nil
			}
			for _, res := range fit.Rank(results) {
				rep, err := report.Build(label, res, set)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				if err := report.WriteText(out, rep); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&models, "models", nil, "models to compare (default: all registered models)")
	f.StringVarP(&data.dataset, "dataset", "d", "", "built-in dataset (matlab, table, all)")
	f.StringVar(&data.dataFile, "data-file", "", "YAML or CSV observation file")
	f.BoolVar(&details, "details", false, "print the full report of every fit")
	return cmd
}
