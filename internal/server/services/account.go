// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, login, token verification,
// delegated (OAuth) sign-in and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/dmitrijs2005/strengthsmap/internal/server/auth"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/repomanager"
)

// AuthResult is a freshly issued session token and the account it names.
type AuthResult struct {
	Token   string
	Account *models.Account
}

// AccountService provides authentication-related operations:
// - Register / Login: password credentials
// - Verify: resolve a bearer token to a live account
// - LoginWithProvider: resolve or create an account from a provider profile
// - DeleteAccount: remove the account and everything it owns
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	bcryptCost  int
	logger      logging.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService, bcryptCost int, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
		logger:      logger.With("module", "accounts"),
	}
}

// Register creates a password account and signs it in. Missing fields yield
// common.ErrValidation; an email already in use (any casing) yields
// common.ErrDuplicateAccount.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: email, password, and name are required", common.ErrValidation)
	}

	repo := s.repomanager.Accounts(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateAccount
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account, err := repo.Create(ctx, &models.Account{Email: email, Name: name, PasswordHash: &hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return s.issue(account)
}

// Login checks password credentials. Unknown email, a provider-only account
// and a wrong password all yield common.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !account.HasPassword() {
		return nil, common.ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(*account.PasswordHash, password)
	if err != nil {
		s.logger.Warn(ctx, "stored password hash unusable", "account_id", account.ID, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(account)
}

// Verify resolves a bearer token to its account. A rejected token yields
// common.ErrUnauthenticated (wrapping the token error); a token whose subject
// no longer exists yields common.ErrAccountNotFound.
func (s *AccountService) Verify(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}
	return account, nil
}

// LoginWithProvider resolves a provider profile to a local account by
// federated id or email, linking or creating it in one transaction, and
// issues a token once that has committed. An email match on a password
// account links the two.
func (s *AccountService) LoginWithProvider(ctx context.Context, p *models.ProviderProfile) (*AuthResult, error) {
	if p == nil || p.ProviderID == "" || strings.TrimSpace(p.Email) == "" {
		return nil, common.ErrOAuthExchangeFailed
	}

	email := strings.TrimSpace(p.Email)
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = localPart(email)
	}
	var picture *string
	if p.Picture != "" {
		pic := p.Picture
		picture = &pic
	}

	var account *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		existing, err := repo.FindForProvider(ctx, p.ProviderID, email)
		switch {
		case err == nil:
			if err := repo.LinkProvider(ctx, existing.ID, p.ProviderID, picture); err != nil {
				return fmt.Errorf("error linking account: %w", err)
			}
			gid := p.ProviderID
			existing.GoogleID = &gid
			existing.Picture = picture
			account = existing
			return nil
		case errors.Is(err, common.ErrNotFound):
			gid := p.ProviderID
			created, err := repo.Create(ctx, &models.Account{Email: email, Name: name, GoogleID: &gid, Picture: picture})
			if err != nil {
				return fmt.Errorf("error creating account: %w", err)
			}
			account = created
			return nil
		default:
			return fmt.Errorf("error looking up account: %w", err)
		}
	})
	if err != nil {
		s.logger.Error(ctx, "provider login failed", "error", err)
		return nil, err
	}

	return s.issue(account)
}

// DeleteAccount removes the account's personal entries and then the account
// in one transaction. A missing account yields common.ErrAccountNotFound.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	var removed int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Entries(tx).DeleteByOwner(ctx, accountID)
		if err != nil {
			return fmt.Errorf("error deleting entries: %w", err)
		}
		removed = n
		if err := s.repomanager.Accounts(tx).Delete(ctx, accountID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrAccountNotFound
			}
			return fmt.Errorf("error deleting account: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrAccountNotFound) {
			s.logger.Error(ctx, "account deletion failed", "account_id", accountID, "error", err)
		}
		return err
	}

	s.logger.Info(ctx, "account deleted", "account_id", accountID, "entries_removed", removed)
	return nil
}

func (s *AccountService) issue(account *models.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account.ID, account.Email, account.Name)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, Account: account}, nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
