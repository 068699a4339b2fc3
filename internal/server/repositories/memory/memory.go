// Package memory provides in-process repository implementations that mirror
// the PostgreSQL schema's uniqueness rules. Every repository vended by one
// Manager shares the same state, so transactions are not isolated.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/community"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/entries"
	"github.com/google/uuid"
)

type store struct {
	mu        sync.Mutex
	seq       int64
	accounts  map[string]*models.Account
	entries   map[string]*models.PersonalEntry
	community map[string]*models.CommunityEntry
}

// Manager implements repomanager.RepositoryManager in memory.
type Manager struct {
	s *store
}

// NewManager returns an empty in-memory store.
func NewManager() *Manager {
	return &Manager{s: &store{
		accounts:  map[string]*models.Account{},
		entries:   map[string]*models.PersonalEntry{},
		community: map[string]*models.CommunityEntry{},
	}}
}

// RunMigrations is a no-op.
func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

// Accounts ignores db; all repositories share the manager's state.
func (m *Manager) Accounts(dbx.DBTX) accounts.Repository { return &accountRepo{m.s} }

// Entries ignores db; all repositories share the manager's state.
func (m *Manager) Entries(dbx.DBTX) entries.Repository { return &entryRepo{m.s} }

// Community ignores db; all repositories share the manager's state.
func (m *Manager) Community(dbx.DBTX) community.Repository { return &communityRepo{m.s} }

// tick returns a strictly increasing timestamp so ordering is deterministic.
func (s *store) tick() time.Time {
	s.seq++
	return time.Unix(1_700_000_000, 0).UTC().Add(time.Duration(s.seq) * time.Millisecond)
}

func lower(s string) string { return strings.ToLower(s) }

type accountRepo struct{ s *store }

func (r *accountRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.accounts {
		if lower(x.Email) == lower(a.Email) {
			return nil, common.ErrDuplicate
		}
		if a.GoogleID != nil && x.GoogleID != nil && *x.GoogleID == *a.GoogleID {
			return nil, common.ErrDuplicate
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = r.s.tick()
	a.UpdatedAt = a.CreatedAt
	c := *a
	r.s.accounts[a.ID] = &c
	return a, nil
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.accounts {
		if lower(a.Email) == lower(email) {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *accountRepo) FindForProvider(_ context.Context, googleID, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var byEmail *models.Account
	for _, a := range r.s.accounts {
		if a.GoogleID != nil && *a.GoogleID == googleID {
			c := *a
			return &c, nil
		}
		if lower(a.Email) == lower(email) {
			byEmail = a
		}
	}
	if byEmail == nil {
		return nil, common.ErrNotFound
	}
	c := *byEmail
	return &c, nil
}

func (r *accountRepo) LinkProvider(_ context.Context, id, googleID string, picture *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return common.ErrNotFound
	}
	g := googleID
	a.GoogleID = &g
	a.Picture = picture
	a.UpdatedAt = r.s.tick()
	return nil
}

func (r *accountRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[id]; !ok {
		return common.ErrNotFound
	}
	for _, e := range r.s.entries {
		if e.OwnerID == id {
			return common.ErrorInternal
		}
	}
	delete(r.s.accounts, id)
	return nil
}

type entryRepo struct{ s *store }

func (r *entryRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.PersonalEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*models.PersonalEntry{}
	for _, e := range r.s.entries {
		if e.OwnerID == ownerID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *entryRepo) Insert(_ context.Context, e *models.PersonalEntry) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.entries {
		if x.OwnerID == e.OwnerID && lower(x.Content) == lower(e.Content) {
			return false, nil
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.s.tick()
	c := *e
	r.s.entries[e.ID] = &c
	return true, nil
}

func (r *entryRepo) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return common.ErrNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r *entryRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, e := range r.s.entries {
		if e.OwnerID == ownerID {
			delete(r.s.entries, id)
			n++
		}
	}
	return n, nil
}

type communityRepo struct{ s *store }

func (r *communityRepo) sorted(filter func(*models.CommunityEntry) bool) []*models.CommunityEntry {
	out := []*models.CommunityEntry{}
	for _, e := range r.s.community {
		if filter == nil || filter(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *communityRepo) List(_ context.Context) ([]*models.CommunityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.sorted(nil)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *communityRepo) GetByID(_ context.Context, id string) (*models.CommunityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.community[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (r *communityRepo) distinct(label func(*models.CommunityEntry) string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, e := range r.sorted(nil) {
		l := label(e)
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func (r *communityRepo) Categories(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.distinct(func(e *models.CommunityEntry) string { return e.Category }), nil
}

func (r *communityRepo) Capabilities(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.distinct(func(e *models.CommunityEntry) string { return e.Capability }), nil
}

func (r *communityRepo) ListByCategory(_ context.Context, category string) ([]*models.CommunityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(e *models.CommunityEntry) bool { return lower(e.Category) == lower(category) }), nil
}

func (r *communityRepo) pairTaken(category, capability, exceptID string) bool {
	for id, e := range r.s.community {
		if id != exceptID && lower(e.Category) == lower(category) && lower(e.Capability) == lower(capability) {
			return true
		}
	}
	return false
}

func (r *communityRepo) FindPair(_ context.Context, category, capability string) (*models.CommunityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.community {
		if lower(e.Category) == lower(category) && lower(e.Capability) == lower(capability) {
			c := *e
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *communityRepo) Insert(_ context.Context, e *models.CommunityEntry) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.pairTaken(e.Category, e.Capability, "") {
		return false, nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.s.tick()
	c := *e
	r.s.community[e.ID] = &c
	return true, nil
}

func (r *communityRepo) UpdateCategory(_ context.Context, id, category string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.community[id]
	if !ok {
		return common.ErrNotFound
	}
	if r.pairTaken(category, e.Capability, id) {
		return common.ErrDuplicate
	}
	e.Category = category
	return nil
}

func (r *communityRepo) UpdateCapability(_ context.Context, id, capability string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.community[id]
	if !ok {
		return common.ErrNotFound
	}
	if r.pairTaken(e.Category, capability, id) {
		return common.ErrDuplicate
	}
	e.Capability = capability
	return nil
}

func (r *communityRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.community[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.community, id)
	return nil
}

func (r *communityRepo) DeleteCategory(_ context.Context, category string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, e := range r.s.community {
		if lower(e.Category) == lower(category) {
			delete(r.s.community, id)
			n++
		}
	}
	return n, nil
}
