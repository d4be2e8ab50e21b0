package adapters

import (
	"context"
	"errors"
	"net/http"
)

// ErrMalformedResponse is returned when a provider answers 200 but the body
// lacks the generated text.
var ErrMalformedResponse = errors.New("malformed provider response")

// ProviderAdapter turns a prompt into a provider-specific HTTP request and
// extracts the generated text from the provider's response.
type ProviderAdapter interface {
	Name() string
	TransformRequest(ctx context.Context, prompt string) (*http.Request, error)
	// TransformResponse consumes and closes resp.Body.
	TransformResponse(ctx context.Context, resp *http.Response) (string, error)
	// SendRequest sends an HTTP request using the provider's configured client.
	SendRequest(req *http.Request) (*http.Response, error)
}
