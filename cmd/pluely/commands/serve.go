package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pluely/gateway/internal/server/web/bridge"
	"github.com/pluely/gateway/internal/telemetry"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local bridge server the desktop ui talks to",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			a.log.Sugar().Infof("pluely %s running in %s mode", cmd.Root().Version, a.mode)

			bs := bridge.NewBridgeServer(a.log, bridge.Config{
				Mode:                 a.mode,
				Port:                 a.cfg.ProxyPort,
				ChatStreamTimeout:    a.cfg.ChatStreamTimeout,
				TranscriptionTimeout: a.cfg.TranscriptionTimeout,
				RequestTimeout:       a.cfg.ConfigFetchTimeout,
				MetricsHandler:       telemetry.MetricsHandler(),
			}, a.gateway)

			bs.Run()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			a.log.Sugar().Info("shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := bs.Shutdown(ctx); err != nil {
				a.log.Sugar().Debugf("error shutting down bridge server: %v", err)
			}

			select {
			case <-ctx.Done():
				a.log.Sugar().Infof("timeout of 5 seconds")
			default:
			}

			a.log.Sugar().Info("server exited")
			return nil
		},
	}
}
