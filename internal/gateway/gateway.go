package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/pluely/gateway/internal/event"
	"github.com/pluely/gateway/internal/message"
	"github.com/pluely/gateway/internal/route"
	"go.uber.org/zap"
)

type resolver interface {
	Resolve(ctx context.Context, provider, model string) (*route.Config, error)
}

type backendClient interface {
	Do(ctx context.Context, method, path string, header map[string]string, body any) (*backend.Response, error)
	AppVersion() string
}

type publisher interface {
	Publish(ms message.Message)
}

type Options struct {
	ProtectReservedBodyKeys  bool
	TranscriptionTierRetries int
	TierRetryInterval        time.Duration
}

// Gateway runs chat and transcription calls against the providers the
// backend routes each call to.
type Gateway struct {
	resolver   resolver
	client     backendClient
	store      credential.Store
	identity   device.Identity
	bus        publisher
	httpClient *http.Client
	opts       Options
	log        *zap.Logger
}

func New(r resolver, c backendClient, store credential.Store, identity device.Identity, bus publisher, httpClient *http.Client, opts Options, log *zap.Logger) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Gateway{
		resolver:   r,
		client:     c,
		store:      store,
		identity:   identity,
		bus:        bus,
		httpClient: httpClient,
		opts:       opts,
		log:        log,
	}
}

type correlationIdKey struct{}

func WithCorrelationId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIdKey{}, id)
}

func CorrelationId(ctx context.Context) string {
	id, _ := ctx.Value(correlationIdKey{}).(string)
	return id
}

// selection is the provider and model the user picked. Both are empty when
// nothing is selected.
type selection struct {
	provider string
	model    string
}

// resolve looks up the selected model hints and fetches the routing
// configuration for one operation.
func (g *Gateway) resolve(ctx context.Context) (*route.Config, *selection, error) {
	creds, err := g.store.GetCredentials()
	if err != nil {
		return nil, nil, err
	}

	sel := &selection{}
	sel.provider, sel.model = creds.Hints()

	cfg, err := g.resolver.Resolve(ctx, sel.provider, sel.model)
	if err != nil {
		return nil, nil, err
	}

	return cfg, sel, nil
}

// publishError reports a provider failure against the selected provider and
// model, never the resolved upstream model.
func (g *Gateway) publishError(ctx context.Context, endpoint, detail string, sel *selection) {
	g.bus.Publish(message.Message{
		Type: event.TypeError,
		Data: &event.Error{
			Endpoint:      endpoint,
			Message:       detail,
			Provider:      sel.provider,
			Model:         sel.model,
			CorrelationId: CorrelationId(ctx),
		},
	})
}

func (g *Gateway) publishActivity(ctx context.Context, a *event.Activity) {
	a.CorrelationId = CorrelationId(ctx)

	g.bus.Publish(message.Message{
		Type: event.TypeActivity,
		Data: a,
	})
}

// identityHeader returns the license, instance and device headers sent with
// backend commands.
func (g *Gateway) identityHeader() (*credential.Credentials, string, error) {
	creds, err := g.store.GetCredentials()
	if err != nil {
		return nil, "", err
	}

	machineId, err := g.identity.DeviceId()
	if err != nil || len(machineId) == 0 {
		return nil, "", internal_errors.NewTransportError("Machine identifier unavailable")
	}

	return creds, machineId, nil
}

func requestFailed(action string, err error) error {
	return internal_errors.NewTransportError(fmt.Sprintf("Failed to make %s request: %s", action, backend.StripUrl(err)))
}

func serverError(res *backend.Response, messageFirst bool) error {
	return internal_errors.NewServerError(backend.ServerErrorMessage(res.StatusCode, backend.ErrorDetail(res.Body, messageFirst)), res.StatusCode)
}
