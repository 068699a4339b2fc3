package client

import (
	"context"

	"github.com/dmitrijs2005/strengthsmap/internal/client/models"
)

// Client is the API surface the CLI uses. Calls that need a session take the
// bearer token explicitly.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password, name string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Me(ctx context.Context, token string) (*models.User, error)
	DeleteAccount(ctx context.Context, token string) error

	ListEntries(ctx context.Context, token string) ([]models.Entry, error)
	SaveEntries(ctx context.Context, token string, items []string) (*models.SaveResult, error)
	DeleteEntry(ctx context.Context, token, id string) error

	ListCommunity(ctx context.Context) ([]models.CommunityEntry, error)
	SubmitCommunity(ctx context.Context, category, capability string) (*models.CommunityEntry, bool, error)
}
