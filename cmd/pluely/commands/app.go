package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/config"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	"github.com/pluely/gateway/internal/event"
	"github.com/pluely/gateway/internal/gateway"
	"github.com/pluely/gateway/internal/logger/zap"
	"github.com/pluely/gateway/internal/message"
	"github.com/pluely/gateway/internal/route"
	"github.com/pluely/gateway/internal/telemetry"
	"github.com/spf13/cobra"
	uzap "go.uber.org/zap"
)

// app holds the components every command shares.
type app struct {
	mode     string
	cfg      *config.Config
	log      *uzap.Logger
	client   *backend.Client
	store    credential.Store
	identity device.Identity
	bus      *message.MessageBus
	consumer *message.Consumer
	gateway  *gateway.Gateway

	shutdownOtel func(context.Context) error
}

func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

func newCredentialStore(cfg *config.Config) (credential.Store, error) {
	switch cfg.CredentialBackend {
	case "file":
		return credential.NewFileStore(cfg.CredentialPath), nil
	case "keyring":
		return credential.NewKeyringStore(), nil
	}

	return nil, errors.New("unsupported credential backend: " + cfg.CredentialBackend)
}

func newDeviceIdentity(cfg *config.Config) device.Identity {
	if len(cfg.DeviceId) != 0 {
		return device.NewStaticIdentity(cfg.DeviceId)
	}

	return device.NewMachineIdentity()
}

func newApp(cmd *cobra.Command) (*app, error) {
	mode, _ := cmd.Flags().GetString("mode")
	envFile, _ := cmd.Flags().GetString("env-file")

	err := loadEnv(envFile)
	if err != nil {
		return nil, err
	}

	log := zap.NewLogger(mode)

	cfg, err := config.ParseEnvVariables()
	if err != nil {
		return nil, err
	}

	err = telemetry.Init(cfg)
	if err != nil {
		return nil, err
	}

	shutdownOtel, err := telemetry.SetupOTelSDK(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	store, err := newCredentialStore(cfg)
	if err != nil {
		return nil, err
	}

	identity := newDeviceIdentity(cfg)
	client := backend.NewClient(cfg.AppEndpoint, cfg.ApiAccessKey, cfg.AppVersion, telemetry.NewHttpClient(cfg.ConfigFetchTimeout))

	mb := message.NewMessageBus()
	beacons := make(chan message.Message, cfg.BeaconQueueSize)
	mb.Subscribe(event.TypeActivity, beacons)
	mb.Subscribe(event.TypeError, beacons)

	handler := message.NewHandler(client, store, identity, cfg.BeaconTimeout, log)
	consumer := message.NewConsumer(beacons, log, cfg.NumberOfBeaconConsumers, handler.HandleBeacon)
	consumer.StartBeaconMessageConsumers()

	resolver := route.NewResolver(client, store, identity, log)
	gw := gateway.New(resolver, client, store, identity, mb, telemetry.NewHttpClient(0), gateway.Options{
		ProtectReservedBodyKeys:  cfg.ProtectReservedBodyKeys,
		TranscriptionTierRetries: cfg.TranscriptionTierRetries,
	}, log)

	return &app{
		mode:         mode,
		cfg:          cfg,
		log:          log,
		client:       client,
		store:        store,
		identity:     identity,
		bus:          mb,
		consumer:     consumer,
		gateway:      gw,
		shutdownOtel: shutdownOtel,
	}, nil
}

// close stops the beacon consumers and flushes traces. Queued beacons are
// dropped.
func (a *app) close() {
	a.consumer.Stop()

	if err := telemetry.Close(); err != nil {
		a.log.Sugar().Debugf("error closing metrics client: %v", err)
	}

	if err := a.shutdownOtel(context.Background()); err != nil {
		a.log.Sugar().Debugf("error shutting down open telemetry: %v", err)
	}

	a.log.Sync()
}

func stdout(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}

	return os.Stdout
}

func withTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
