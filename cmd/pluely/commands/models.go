package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the backend exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := withTimeout(cmd, a.cfg.ConfigFetchTimeout)
			defer cancel()

			models, err := a.gateway.FetchModels(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tMODALITY\tAVAILABLE")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", m.Provider, m.Model, m.Modality, m.IsAvailable)
			}

			return w.Flush()
		},
	}
}
