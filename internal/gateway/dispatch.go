package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/af-corp/bfhl-service/internal/numeric"
	"github.com/af-corp/bfhl-service/internal/types"
)

// ErrNoDelegate is returned for AI requests when no delegate is configured.
var ErrNoDelegate = errors.New("no text-generation delegate configured")

// Delegate generates free text for a prompt.
type Delegate interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Dispatcher executes a parsed request. It holds no per-request state and is
// safe for concurrent use.
type Dispatcher struct {
	delegate Delegate
}

// NewDispatcher creates a dispatcher. delegate may be nil, in which case AI
// requests fail with ErrNoDelegate.
func NewDispatcher(delegate Delegate) *Dispatcher {
	return &Dispatcher{delegate: delegate}
}

// Execute returns the response data for req.
func (d *Dispatcher) Execute(ctx context.Context, req types.Request) (any, error) {
	switch r := req.(type) {
	case types.FibonacciRequest:
		return numeric.Fibonacci(r.N), nil
	case types.PrimeRequest:
		return numeric.FilterPrimes(r.Values), nil
	case types.LCMRequest:
		return numeric.LCM(r.Values)
	case types.HCFRequest:
		return numeric.HCF(r.Values)
	case types.AIRequest:
		if d.delegate == nil {
			return nil, ErrNoDelegate
		}
		text, err := d.delegate.Complete(ctx, r.Prompt)
		if err != nil {
			return nil, fmt.Errorf("delegate: %w", err)
		}
		return CleanToken(text), nil
	default:
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
}

// CleanToken returns the first whitespace-separated token of text with every
// character outside A-Z and a-z removed.
func CleanToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, fields[0])
}
