package router

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/af-corp/bfhl-service/internal/config"
	"github.com/af-corp/bfhl-service/internal/router/adapters"
)

// ErrUnknownProvider is returned when the active delegate names no registered adapter.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry manages provider adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]adapters.ProviderAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]adapters.ProviderAdapter),
	}
}

func (r *Registry) Register(name string, adapter adapters.ProviderAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[name] = adapter
}

func (r *Registry) Get(name string) (adapters.ProviderAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// BuildFromConfig builds one adapter per configured provider, each with its
// own HTTP client.
func BuildFromConfig(delegateCfg config.DelegateConfig) *Registry {
	registry := NewRegistry()
	for name, cfg := range delegateCfg.Providers {
		client := &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        cfg.MaxConcurrent,
				MaxIdleConnsPerHost: cfg.MaxConcurrent,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		}

		var adapter adapters.ProviderAdapter
		switch cfg.Type {
		case config.ProviderGemini:
			adapter = adapters.NewGeminiAdapter(cfg, client)
		case config.ProviderAnthropic:
			adapter = adapters.NewAnthropicAdapter(cfg, client)
		default:
			// Fall back to OpenAI-compatible for unknown types
			adapter = adapters.NewOpenAIAdapter(cfg, client)
		}
		registry.Register(name, adapter)
	}
	return registry
}

// Resolve returns the adapter registered under name.
func Resolve(registry *Registry, name string) (adapters.ProviderAdapter, error) {
	adapter, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return adapter, nil
}
