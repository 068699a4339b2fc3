package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/strengthsmap/internal/capmerge"
	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/repomanager"
)

// SaveResult reports what a save added and the notice to show, if any.
type SaveResult struct {
	Added  []*models.PersonalEntry
	Notice string
}

// EntryService manages an account's personal capability list.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewEntryService constructs an EntryService.
func NewEntryService(db *sql.DB, m repomanager.RepositoryManager) *EntryService {
	return &EntryService{db: db, repomanager: m}
}

// List returns the owner's entries, oldest first.
func (s *EntryService) List(ctx context.Context, ownerID string) ([]*models.PersonalEntry, error) {
	items, err := s.repomanager.Entries(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	return items, nil
}

// Save merges items into the owner's list. Items matching an existing entry
// (ignoring case) or an earlier item of the batch are skipped. Survivors are
// inserted in batch order within one transaction.
func (s *EntryService) Save(ctx context.Context, ownerID string, items []string) (*SaveResult, error) {
	out := &SaveResult{Added: []*models.PersonalEntry{}}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)

		current, err := repo.ListByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("error listing entries: %w", err)
		}
		existing := make([]string, 0, len(current))
		for _, e := range current {
			existing = append(existing, e.Content)
		}

		res := capmerge.Merge(existing, items)
		for _, content := range res.Added {
			e := &models.PersonalEntry{OwnerID: ownerID, Content: content}
			created, err := repo.Insert(ctx, e)
			if err != nil {
				return fmt.Errorf("error inserting entry: %w", err)
			}
			if created {
				out.Added = append(out.Added, e)
			}
		}

		if res.NoNewEntries || (len(res.Added) > 0 && len(out.Added) == 0) {
			out.Notice = capmerge.NoNewEntriesNotice
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one of the owner's entries; common.ErrNotFound when the
// owner has no such entry.
func (s *EntryService) Delete(ctx context.Context, ownerID, id string) error {
	err := s.repomanager.Entries(s.db).Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}
