package catalog

import (
	"context"

	"github.com/wherewatch/wherewatch/internal/catalog/types"
)

// Client defines the upstream catalog operations the gateway relies on.
// Implementations perform exactly one round trip per call.
type Client interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
	SearchMulti(ctx context.Context, query, language string) ([]types.Title, error)
	Popular(ctx context.Context, kind types.MediaKind, language string) ([]types.Title, error)
	GetMovie(ctx context.Context, id int, language string) (*types.Title, error)
	GetSeries(ctx context.Context, id int, language string) (*types.Title, error)
	GetWatchProviders(ctx context.Context, kind types.MediaKind, id int, country string) ([]types.Source, error)
}
