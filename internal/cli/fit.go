package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/GoSim-25-26J-441/kinfit/internal/fit"
	"github.com/GoSim-25-26J-441/kinfit/internal/fitd"
	"github.com/GoSim-25-26J-441/kinfit/internal/report"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

type fitOptions struct {
	data          dataFlags
	model         string
	method        string
	maxIterations int
	starts        int
	seed          int64
	output        string
	remote        string
}

func newFitCmd(a *app) *cobra.Command {
	opts := &fitOptions{}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit one rate-law model",
		Long: `Fit one rate-law model to a built-in dataset or a data file and print
the fitted parameters, the score and the per-point deviations.

Examples:
  kinfit fit --model hw --dataset matlab
  kinfit fit --model mvk --data-file runs.csv --output json
  kinfit fit --model hw --remote localhost:50051`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.model, "model", "m", "", "model name or alias (hougen-watson/hw, mars-van-krevelen/mvk)")
	f.StringVarP(&opts.data.dataset, "dataset", "d", "", "built-in dataset (matlab, table, all)")
	f.StringVar(&opts.data.dataFile, "data-file", "", "YAML or CSV observation file")
	f.StringVar(&opts.method, "method", "", "optimizer (nelder-mead, lbfgs, compass)")
	f.IntVar(&opts.maxIterations, "max-iterations", 0, "iteration budget")
	f.IntVar(&opts.starts, "starts", 0, "number of starting points")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for retries and extra starts")
	f.StringVarP(&opts.output, "output", "o", "text", "output format (text, json)")
	f.StringVar(&opts.remote, "remote", "", "run the fit on a kinfit server at this gRPC address")
	return cmd
}

// apply copies non-zero flags over the config optimizer section
func (o *fitOptions) apply(plan *fit.Plan) {
	if o.method != "" {
		plan.Settings.Method = fit.Method(strings.ToLower(o.method))
	}
	if o.maxIterations > 0 {
		plan.Settings.MaxIterations = o.maxIterations
	}
	if o.starts > 0 {
		plan.Starts = o.starts
	}
	if o.seed != 0 {
		plan.Settings.Seed = o.seed
	}
}

func runFit(cmd *cobra.Command, a *app, opts *fitOptions) error {
	if opts.remote != "" {
		return runRemoteFit(cmd, opts)
	}

	plan, err := fit.PlanFromConfig(a.cfg, opts.model)
	if err != nil {
		return err
	}
	opts.apply(plan)
	set, label, err := opts.data.load(a)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := plan.Run(ctx, set)
	if err != nil {
		return err
	}
	rep, err := report.Build(label, res, set)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), rep, opts.output)
}

func runRemoteFit(cmd *cobra.Command, opts *fitOptions) error {
	if opts.data.dataFile != "" {
		return fmt.Errorf("--data-file is not supported with --remote; send a built-in dataset name")
	}

	conn, err := grpc.NewClient(opts.remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", opts.remote, err)
	}
	defer conn.Close()

	req, err := fitd.ToStruct(fitd.FitRequest{
		Model:         opts.model,
		Dataset:       opts.data.dataset,
		Method:        opts.method,
		MaxIterations: opts.maxIterations,
		Starts:        opts.starts,
		Seed:          opts.seed,
	})
	if err != nil {
		return err
	}

	resp, err := fitd.NewFitServiceClient(conn).Fit(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("remote fit failed: %w", err)
	}

	var out struct {
		Fit fitd.FitRecord `json:"fit"`
	}
	if err := fitd.FromStruct(resp, &out); err != nil {
		return err
	}
	logger.Info("remote fit finished", "fit_id", out.Fit.ID, "status", string(out.Fit.Status))
	if out.Fit.Status != fitd.StatusCompleted || out.Fit.Report == nil {
		return fmt.Errorf("remote fit %s %s: %s", out.Fit.ID, out.Fit.Status, out.Fit.Error)
	}
	return writeReport(cmd.OutOrStdout(), out.Fit.Report, opts.output)
}
