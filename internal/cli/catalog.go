package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/kinfit/internal/dataset"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List rate-law models with their starting points and bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tPARAMS\tINITIAL\tLOWER\tUPPER")
			for _, name := range kinetics.ModelNames() {
				m, err := kinetics.NewModel(name)
				if err != nil {
					return err
				}
				ms, _ := a.cfg.ModelSettingsFor(name)
				fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%v\n", name, strings.Join(m.ParamNames(), ","), ms.Initial, ms.Lower, ms.Upper)
			}
			return tw.Flush()
		},
	}
}

func newDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List built-in datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATASET\tPOINTS\tDESCRIPTION")
			for _, name := range dataset.Names() {
				set, err := dataset.Load(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == strings.ToLower(a.cfg.Dataset) {
					marker = " (configured)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s%s\n", name, len(set), dataset.Describe(name), marker)
			}
			return tw.Flush()
		},
	}
}
