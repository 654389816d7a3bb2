// Package art produces card artwork from text prompts through remote
// image-generation services.
package art

import (
	"context"
	"net/http"
	"time"

	"github.com/youruser/cardforge/internal/errors"
)

// Generator turns a prompt into encoded image bytes.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, width, height int) ([]byte, error)
}

// Provider names accepted by New.
const (
	ProviderPollinations = "pollinations"
	ProviderStability    = "stability"
)

// DefaultTimeout bounds a single generation request; image models are slow.
const DefaultTimeout = 60 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// New returns the generator registered under provider. apiKey is only used
// by providers that need one; empty means read it from the environment.
func New(provider, apiKey string) (Generator, error) {
	switch provider {
	case "", ProviderPollinations:
		return NewPollinations(), nil
	case ProviderStability:
		return NewStability(apiKey), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown art provider %q", provider)
}
