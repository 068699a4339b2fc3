package accounts

import (
	"context"

	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	FindForProvider(ctx context.Context, googleID, email string) (*models.Account, error)
	LinkProvider(ctx context.Context, id, googleID string, picture *string) error
	Delete(ctx context.Context, id string) error
}
