package providers

import (
	"context"
	"errors"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

var (
	ErrAuth          = errors.New("provider authentication failed")
	ErrNotConfigured = errors.New("provider credentials not configured")
	ErrBadStatus     = errors.New("unexpected provider status")
)

// Provider answers direct-leg queries between two station codes on a date.
type Provider interface {
	Name() string
	Type() models.TransportType
	Search(ctx context.Context, origin, dest, date string) ([]models.Leg, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
