package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/community"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/strengthsmap/internal/taxonomy"
)

// SubmitResult is the stored pair and whether this call created it.
type SubmitResult struct {
	Entry   *models.CommunityEntry
	Created bool
}

// RenameResult summarizes a category rename or merge.
type RenameResult struct {
	Category string
	Moved    int
	Removed  int
	Merged   bool
}

// CommunityService maintains the shared category/capability taxonomy.
// Labels are normalized on every write so that spellings converge on the
// first one ever stored.
type CommunityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewCommunityService constructs a CommunityService.
func NewCommunityService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *CommunityService {
	return &CommunityService{db: db, repomanager: m, logger: logger.With("module", "community")}
}

// List returns all pairs, newest first.
func (s *CommunityService) List(ctx context.Context) ([]*models.CommunityEntry, error) {
	items, err := s.repomanager.Community(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing community entries: %w", err)
	}
	return items, nil
}

// Submit normalizes both labels and stores the pair. If the canonical pair
// already exists it is returned with Created=false.
func (s *CommunityService) Submit(ctx context.Context, category, capability string) (*SubmitResult, error) {
	if taxonomy.Key(category) == "" || taxonomy.Key(capability) == "" {
		return nil, fmt.Errorf("%w: category and capability are required", common.ErrValidation)
	}

	repo := s.repomanager.Community(s.db)

	categories, err := repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	capabilities, err := repo.Capabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing capabilities: %w", err)
	}

	cat := taxonomy.NormalizeCategory(category, categories)
	capability = taxonomy.NormalizeCapability(capability, capabilities)

	existing, err := findPair(ctx, repo, cat, capability)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &SubmitResult{Entry: existing}, nil
	}

	e := &models.CommunityEntry{Category: cat, Capability: capability}
	created, err := repo.Insert(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("error inserting community entry: %w", err)
	}
	if !created {
		existing, err = findPair(ctx, repo, cat, capability)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, common.ErrorInternal
		}
		return &SubmitResult{Entry: existing}, nil
	}

	return &SubmitResult{Entry: e, Created: true}, nil
}

// RenameCategory moves every entry filed under oldCategory to the normalized
// newCategory in one transaction. When newCategory names another existing
// category this is a merge: entries whose capability already exists under
// the target are removed instead of moved. A rename that normalizes to the
// same label is a no-op. An unknown oldCategory yields common.ErrNotFound.
func (s *CommunityService) RenameCategory(ctx context.Context, oldCategory, newCategory string) (*RenameResult, error) {
	oldKey := taxonomy.Key(oldCategory)
	if oldKey == "" || taxonomy.Key(newCategory) == "" {
		return nil, fmt.Errorf("%w: oldCategory and newCategory are required", common.ErrValidation)
	}

	res := &RenameResult{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Community(tx)

		moving, err := repo.ListByCategory(ctx, taxonomy.Clean(oldCategory))
		if err != nil {
			return fmt.Errorf("error listing category: %w", err)
		}
		if len(moving) == 0 {
			return common.ErrNotFound
		}

		if taxonomy.Key(newCategory) == oldKey {
			res.Category = moving[0].Category
			return nil
		}

		categories, err := repo.Categories(ctx)
		if err != nil {
			return fmt.Errorf("error listing categories: %w", err)
		}
		others := make([]string, 0, len(categories))
		for _, c := range categories {
			if taxonomy.Key(c) != oldKey {
				others = append(others, c)
			}
		}
		target := taxonomy.NormalizeCategory(newCategory, others)
		res.Category = target

		present, err := repo.ListByCategory(ctx, target)
		if err != nil {
			return fmt.Errorf("error listing category: %w", err)
		}
		res.Merged = len(present) > 0

		seen := make(map[string]struct{}, len(present)+len(moving))
		for _, e := range present {
			seen[taxonomy.Key(e.Capability)] = struct{}{}
		}

		for _, e := range moving {
			k := taxonomy.Key(e.Capability)
			if _, dup := seen[k]; dup {
				if err := repo.Delete(ctx, e.ID); err != nil {
					return fmt.Errorf("error removing duplicate: %w", err)
				}
				res.Removed++
				continue
			}
			seen[k] = struct{}{}
			if err := repo.UpdateCategory(ctx, e.ID, target); err != nil {
				return fmt.Errorf("error moving entry: %w", err)
			}
			res.Moved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Moved > 0 || res.Removed > 0 {
		s.logger.Info(ctx, "category renamed", "from", oldCategory, "to", res.Category,
			"moved", res.Moved, "removed", res.Removed, "merged", res.Merged)
	}
	return res, nil
}

// RenameCapability relabels one entry. The new label is normalized against
// the other capabilities of the same category; if it collides with one of
// them the entry is returned unchanged. An unknown id yields
// common.ErrNotFound.
func (s *CommunityService) RenameCapability(ctx context.Context, id, newCapability string) (*models.CommunityEntry, error) {
	if taxonomy.Key(newCapability) == "" {
		return nil, fmt.Errorf("%w: capability is required", common.ErrValidation)
	}

	repo := s.repomanager.Community(s.db)

	entry, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading entry: %w", err)
	}

	siblings, err := repo.ListByCategory(ctx, entry.Category)
	if err != nil {
		return nil, fmt.Errorf("error listing category: %w", err)
	}
	key := taxonomy.Key(newCapability)
	for _, sib := range siblings {
		if sib.ID != entry.ID && taxonomy.Key(sib.Capability) == key {
			return entry, nil
		}
	}

	label := taxonomy.CapitalizeWords(newCapability)
	if key == taxonomy.Key(entry.Capability) {
		label = entry.Capability
	}
	if label == entry.Capability {
		return entry, nil
	}

	if err := repo.UpdateCapability(ctx, entry.ID, label); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return entry, nil
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error renaming entry: %w", err)
	}
	entry.Capability = label
	return entry, nil
}

// Delete removes one pair; common.ErrNotFound for an unknown id.
func (s *CommunityService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Community(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

// DeleteCategory removes every pair of the category (matched ignoring case)
// and returns how many went; common.ErrNotFound when there were none.
func (s *CommunityService) DeleteCategory(ctx context.Context, category string) (int64, error) {
	if taxonomy.Key(category) == "" {
		return 0, fmt.Errorf("%w: category is required", common.ErrValidation)
	}
	n, err := s.repomanager.Community(s.db).DeleteCategory(ctx, taxonomy.Clean(category))
	if err != nil {
		return 0, fmt.Errorf("error deleting category: %w", err)
	}
	if n == 0 {
		return 0, common.ErrNotFound
	}
	return n, nil
}

// findPair returns nil, nil when the pair does not exist.
func findPair(ctx context.Context, repo community.Repository, category, capability string) (*models.CommunityEntry, error) {
	e, err := repo.FindPair(ctx, category, capability)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error looking up pair: %w", err)
	}
	return e, nil
}
