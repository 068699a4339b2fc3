// Package entries provides PostgreSQL-backed storage for personal
// capability entries.
package entries

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

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOwner returns the owner's entries, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.PersonalEntry, error) {
	query := `SELECT id, owner_id, content, created_at FROM personal_entries
		WHERE owner_id = $1
		ORDER BY created_at, id
		`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []*models.PersonalEntry{}
	for rows.Next() {
		var item models.PersonalEntry
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Content, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert stores the entry and reports whether a row was created. A row that
// clashes with the owner's case-insensitive unique index is skipped.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.PersonalEntry) (bool, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO personal_entries (id, owner_id, content)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, entry.ID, entry.OwnerID, entry.Content).Scan(&entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// Delete removes one entry of the owner; common.ErrNotFound when the owner
// has no entry with that id.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_entries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every entry of the owner and returns how many went.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_entries WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
