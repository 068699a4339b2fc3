// Package community provides PostgreSQL-backed storage for the shared
// category/capability taxonomy.
package community

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

// PostgresRepository implements taxonomy storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectEntry = `SELECT id, category, capability, created_at FROM community_entries`

// List returns all pairs, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.CommunityEntry, error) {
	return r.query(ctx, selectEntry+` ORDER BY created_at DESC, id DESC`)
}

// GetByID returns common.ErrNotFound when the id is unknown.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CommunityEntry, error) {
	return r.queryOne(ctx, selectEntry+` WHERE id = $1`, id)
}

// Categories returns distinct category labels in order of first use.
func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	return r.labels(ctx, `SELECT category FROM community_entries GROUP BY category ORDER BY MIN(created_at)`)
}

// Capabilities returns distinct capability labels in order of first use.
func (r *PostgresRepository) Capabilities(ctx context.Context) ([]string, error) {
	return r.labels(ctx, `SELECT capability FROM community_entries GROUP BY capability ORDER BY MIN(created_at)`)
}

// ListByCategory returns entries whose category matches case-insensitively,
// oldest first.
func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]*models.CommunityEntry, error) {
	return r.query(ctx, selectEntry+` WHERE lower(category) = lower($1) ORDER BY created_at, id`, category)
}

// FindPair matches both labels case-insensitively.
func (r *PostgresRepository) FindPair(ctx context.Context, category, capability string) (*models.CommunityEntry, error) {
	return r.queryOne(ctx, selectEntry+` WHERE lower(category) = lower($1) AND lower(capability) = lower($2)`, category, capability)
}

// Insert stores the pair and reports whether a row was created. A clash with
// the pair index is skipped.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.CommunityEntry) (bool, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO community_entries (id, category, capability)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, entry.ID, entry.Category, entry.Capability).Scan(&entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// UpdateCategory moves one entry to another category.
func (r *PostgresRepository) UpdateCategory(ctx context.Context, id, category string) error {
	return r.exec(ctx, `UPDATE community_entries SET category = $2 WHERE id = $1`, id, category)
}

// UpdateCapability relabels one entry.
func (r *PostgresRepository) UpdateCapability(ctx context.Context, id, capability string) error {
	return r.exec(ctx, `UPDATE community_entries SET capability = $2 WHERE id = $1`, id, capability)
}

// Delete removes one entry.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM community_entries WHERE id = $1`, id)
}

// DeleteCategory removes every entry of the category (case-insensitive).
func (r *PostgresRepository) DeleteCategory(ctx context.Context, category string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM community_entries WHERE lower(category) = lower($1)`, category)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicate
		}
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

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.CommunityEntry, error) {
	e := &models.CommunityEntry{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.Category, &e.Capability, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.CommunityEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select community entries: %w", err)
	}
	defer rows.Close()

	result := []*models.CommunityEntry{}
	for rows.Next() {
		var item models.CommunityEntry
		if err := rows.Scan(&item.ID, &item.Category, &item.Capability, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) labels(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select labels: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
