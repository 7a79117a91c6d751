// Package commands implements the pluely cli.
package commands

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pluely",
		Short: "Pluely gateway",
		Long: `Pluely gateway resolves per call routing from the pluely backend and
talks to the configured chat and transcription providers.

Examples:
  pluely serve
  pluely chat "summarize this screen" --image screen.jpg
  pluely transcribe meeting.wav
  pluely models`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newTranscribeCmd(),
		newModelsCmd(),
		newPromptCmd(),
		newLicenseCmd(),
	)

	rootCmd.PersistentFlags().StringP("mode", "m", "dev", "select the mode that pluely runs in")
	rootCmd.PersistentFlags().String("env-file", ".env", "path to an optional .env file")

	return rootCmd
}
