package community

import (
	"context"

	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.CommunityEntry, error)
	GetByID(ctx context.Context, id string) (*models.CommunityEntry, error)
	Categories(ctx context.Context) ([]string, error)
	Capabilities(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]*models.CommunityEntry, error)
	FindPair(ctx context.Context, category, capability string) (*models.CommunityEntry, error)
	Insert(ctx context.Context, entry *models.CommunityEntry) (bool, error)
	UpdateCategory(ctx context.Context, id, category string) error
	UpdateCapability(ctx context.Context, id, capability string) error
	Delete(ctx context.Context, id string) error
	DeleteCategory(ctx context.Context, category string) (int64, error)
}
