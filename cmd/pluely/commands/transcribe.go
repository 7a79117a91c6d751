package commands

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTranscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe [file.wav]",
		Short: "Transcribe a wav recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("error reading audio %s: %w", args[0], err)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := withTimeout(cmd, a.cfg.TranscriptionTimeout)
			defer cancel()

			res, err := a.gateway.Transcribe(ctx, base64.StdEncoding.EncodeToString(data))
			if err != nil {
				return err
			}

			if !res.Success {
				return errors.New(res.Error)
			}

			fmt.Fprintln(stdout(cmd), res.Transcription)
			return nil
		},
	}
}
