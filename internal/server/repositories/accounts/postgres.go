// Package accounts provides the PostgreSQL-backed credential store.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements account storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccount = `SELECT id, email, name, password_hash, google_id, picture, created_at, updated_at FROM accounts`

// Create inserts a new account. An empty ID is replaced with a fresh UUID.
// A clash on the email or google_id index yields common.ErrDuplicate.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO accounts (id, email, name, password_hash, google_id, picture)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash, account.GoogleID, account.Picture,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// GetByID returns common.ErrNotFound when no account has the id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE id = $1`, id)
}

// GetByEmail matches the email case-insensitively.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE lower(email) = lower($1)`, email)
}

// FindForProvider looks an account up by federated id or email, preferring
// the federated id match when both exist.
func (r *PostgresRepository) FindForProvider(ctx context.Context, googleID, email string) (*models.Account, error) {
	query := selectAccount + ` WHERE google_id = $1 OR lower(email) = lower($2)
		 ORDER BY (google_id IS NOT DISTINCT FROM $1) DESC
		 LIMIT 1`
	return r.getOne(ctx, query, googleID, email)
}

// LinkProvider records the federated id and avatar and touches updated_at.
func (r *PostgresRepository) LinkProvider(ctx context.Context, id, googleID string, picture *string) error {
	query :=
		`UPDATE accounts SET google_id = $2, picture = $3, updated_at = now()
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, googleID, picture)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes the account row. Owned entries must be removed first.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.GoogleID, &a.Picture, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
