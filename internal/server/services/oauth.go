package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
)

// CodeExchanger trades an authorization code for the provider's profile.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (*models.ProviderProfile, error)
}

// OAuthService completes a delegated sign-in: code exchange, account
// resolution and token issuance.
type OAuthService struct {
	exchanger CodeExchanger
	accounts  *AccountService
	clientID  string
	logger    logging.Logger
}

// NewOAuthService constructs an OAuthService. A nil exchanger disables
// delegated sign-in; every callback then fails.
func NewOAuthService(exchanger CodeExchanger, accounts *AccountService, clientID string, logger logging.Logger) *OAuthService {
	return &OAuthService{
		exchanger: exchanger,
		accounts:  accounts,
		clientID:  clientID,
		logger:    logger.With("module", "oauth"),
	}
}

// ClientID is the public OAuth client id handed to browsers.
func (s *OAuthService) ClientID() string {
	return s.clientID
}

// Callback handles the provider redirect. A missing code yields
// common.ErrValidation; any exchange or profile failure yields
// common.ErrOAuthExchangeFailed. No token is issued before the account has
// been stored.
func (s *OAuthService) Callback(ctx context.Context, code string) (*AuthResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code required", common.ErrValidation)
	}
	if s.exchanger == nil {
		return nil, fmt.Errorf("%w: provider not configured", common.ErrOAuthExchangeFailed)
	}

	profile, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn(ctx, "oauth exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrOAuthExchangeFailed, err)
	}

	return s.accounts.LoginWithProvider(ctx, profile)
}
