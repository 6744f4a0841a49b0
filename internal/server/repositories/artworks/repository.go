package artworks

import (
	"context"

	"github.com/dmitrijs2005/artvault/internal/server/models"
)

// Repository stores artworks. Update only ever writes the editable columns
// (title, artist, year, description); ownership and timestamps are fixed
// at Create.
type Repository interface {
	Create(ctx context.Context, a *models.Artwork) (*models.Artwork, error)
	Get(ctx context.Context, id string) (*models.Artwork, error)
	List(ctx context.Context, offset, limit int) ([]*models.Artwork, int64, error)
	Update(ctx context.Context, a *models.Artwork) error
	SetImageKey(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
}
