// Package provider wraps the external text-to-image model API.
package provider

import (
	"context"
	"errors"
)

// ErrRateLimited indicates the upstream model API refused the request due to
// rate limiting; callers should surface a retry-later semantic.
var ErrRateLimited = errors.New("provider rate limited")

type Generator interface {
	// Generate renders the prompt into image bytes. Generation parameters
	// (model, guidance, steps) are configuration, not caller-controlled.
	Generate(ctx context.Context, prompt string) ([]byte, error)
	// ModelName identifies the model recorded in image metadata.
	ModelName() string
}
