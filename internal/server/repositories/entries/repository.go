package entries

import (
	"context"

	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.PersonalEntry, error)
	Insert(ctx context.Context, entry *models.PersonalEntry) (bool, error)
	Delete(ctx context.Context, ownerID, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
