package marketplace

import (
	"context"
	"errors"

	"github.com/jimezsa/rentcli/internal/models"
)

var ErrNotImplemented = errors.New("provider not implemented")

// Provider looks up rental listings for one search window. Implementations
// are injected so the scanner can run against fakes in tests.
type Provider interface {
	Name() string
	Search(ctx context.Context, criteria models.Criteria) ([]models.Listing, error)
}
