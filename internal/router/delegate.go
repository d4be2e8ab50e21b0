package router

import (
	"context"
	"fmt"
	"time"

	"github.com/af-corp/bfhl-service/internal/router/adapters"
	"github.com/af-corp/bfhl-service/internal/telemetry"
)

// Delegate sends a prompt to the active text-generation provider. It makes a
// single attempt per call; there are no retries or fallbacks.
type Delegate struct {
	adapter adapters.ProviderAdapter
	metrics *telemetry.Metrics
}

// NewDelegate resolves the active provider from the registry. metrics may be nil.
func NewDelegate(registry *Registry, active string, metrics *telemetry.Metrics) (*Delegate, error) {
	adapter, err := Resolve(registry, active)
	if err != nil {
		return nil, err
	}
	return &Delegate{adapter: adapter, metrics: metrics}, nil
}

// Provider returns the name of the adapter in use.
func (d *Delegate) Provider() string { return d.adapter.Name() }

// Complete returns the raw text generated for prompt.
func (d *Delegate) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := d.complete(ctx, prompt)
	if d.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		d.metrics.RecordDelegateCall(d.adapter.Name(), outcome, float64(time.Since(start).Milliseconds()))
	}
	return text, err
}

func (d *Delegate) complete(ctx context.Context, prompt string) (string, error) {
	req, err := d.adapter.TransformRequest(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("prepare %s request: %w", d.adapter.Name(), err)
	}
	resp, err := d.adapter.SendRequest(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", d.adapter.Name(), err)
	}
	text, err := d.adapter.TransformResponse(ctx, resp)
	if err != nil {
		return "", fmt.Errorf("process %s response: %w", d.adapter.Name(), err)
	}
	return text, nil
}
