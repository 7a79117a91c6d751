package commands

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/pluely/gateway/internal/gateway"
	"github.com/spf13/cobra"
)

// writerEmitter prints chunks as they arrive.
type writerEmitter struct {
	w io.Writer
}

func (we *writerEmitter) EmitChunk(chunk string) {
	fmt.Fprint(we.w, chunk)
}

func (we *writerEmitter) EmitComplete(_ string) {
	fmt.Fprintln(we.w)
}

func newChatCmd() *cobra.Command {
	var (
		systemPrompt string
		historyPath  string
		imagePaths   []string
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Stream a chat completion to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &gateway.ChatRequest{
				UserMessage:  args[0],
				SystemPrompt: systemPrompt,
			}

			for _, p := range imagePaths {
				data, err := os.ReadFile(p)
				if err != nil {
					return fmt.Errorf("error reading image %s: %w", p, err)
				}

				req.Images = append(req.Images, base64.StdEncoding.EncodeToString(data))
			}

			if len(historyPath) != 0 {
				data, err := os.ReadFile(historyPath)
				if err != nil {
					return fmt.Errorf("error reading history %s: %w", historyPath, err)
				}

				req.History = string(data)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := withTimeout(cmd, a.cfg.ChatStreamTimeout)
			defer cancel()

			_, err = a.gateway.ChatStream(ctx, req, &writerEmitter{w: stdout(cmd)})
			return err
		},
	}

	cmd.Flags().StringVarP(&systemPrompt, "system", "s", "", "system prompt")
	cmd.Flags().StringVar(&historyPath, "history", "", "path to a json array of prior messages")
	cmd.Flags().StringSliceVarP(&imagePaths, "image", "i", nil, "jpeg image to attach, may be repeated")

	return cmd
}
