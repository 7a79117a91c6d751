package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt [description]",
		Short: "Generate a system prompt from a short description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := withTimeout(cmd, a.cfg.ConfigFetchTimeout)
			defer cancel()

			res, err := a.gateway.CreateSystemPrompt(ctx, args[0])
			if err != nil {
				return err
			}

			out := stdout(cmd)
			fmt.Fprintf(out, "# %s\n", res.PromptName)
			fmt.Fprintln(out, res.SystemPrompt)
			return nil
		},
	}
}
