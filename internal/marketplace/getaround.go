package marketplace

import (
	"context"

	"github.com/jimezsa/rentcli/internal/models"
	"github.com/jimezsa/rentcli/internal/network"
)

type Getaround struct {
	client *network.Client
}

func NewGetaround(client *network.Client) *Getaround {
	return &Getaround{client: client}
}

func (g *Getaround) Name() string {
	return ProviderGetaround
}

func (g *Getaround) Search(ctx context.Context, criteria models.Criteria) ([]models.Listing, error) {
	return nil, ErrNotImplemented
}
