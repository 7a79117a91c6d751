package gateway

import (
	"context"
	"sync"

	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	"github.com/pluely/gateway/internal/event"
	"github.com/pluely/gateway/internal/message"
	"github.com/pluely/gateway/internal/route"
	"go.uber.org/zap"
)

type stubResolver struct {
	cfg      *route.Config
	err      error
	calls    int
	provider string
	model    string
}

func (sr *stubResolver) Resolve(_ context.Context, provider, model string) (*route.Config, error) {
	sr.calls++
	sr.provider = provider
	sr.model = model

	return sr.cfg, sr.err
}

type recordingBus struct {
	mu       sync.Mutex
	messages []message.Message
}

func (rb *recordingBus) Publish(ms message.Message) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.messages = append(rb.messages, ms)
}

func (rb *recordingBus) errors() []*event.Error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	result := []*event.Error{}
	for _, m := range rb.messages {
		if e, ok := m.Data.(*event.Error); ok {
			result = append(result, e)
		}
	}

	return result
}

func (rb *recordingBus) activities() []*event.Activity {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	result := []*event.Activity{}
	for _, m := range rb.messages {
		if a, ok := m.Data.(*event.Activity); ok {
			result = append(result, a)
		}
	}

	return result
}

type recordingEmitter struct {
	chunks   []string
	complete []string
}

func (re *recordingEmitter) EmitChunk(chunk string) {
	re.chunks = append(re.chunks, chunk)
}

func (re *recordingEmitter) EmitComplete(text string) {
	re.complete = append(re.complete, text)
}

func testCredentials() *credential.Credentials {
	return &credential.Credentials{
		LicenseKey: "lic",
		InstanceId: "inst",
		SelectedModel: &credential.Model{
			Provider: "openai",
			Model:    "gpt-4o",
		},
	}
}

func newTestGateway(r *stubResolver, bus *recordingBus, opts Options) *Gateway {
	return New(
		r,
		backend.NewClient("", "", "1.0.0", nil),
		credential.NewStaticStore(testCredentials()),
		device.NewStaticIdentity("machine"),
		bus,
		nil,
		opts,
		zap.NewNop(),
	)
}
