// Package session holds the CLI's sign-in state: anonymous, guest or
// authenticated. Guests keep their capability list in memory; signing in
// pushes it to the account through the server-side merge.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/strengthsmap/internal/capmerge"
	"github.com/dmitrijs2005/strengthsmap/internal/client/client"
	"github.com/dmitrijs2005/strengthsmap/internal/client/models"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/google/uuid"
)

// Keys under which the session persists itself.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

type State int

const (
	StateAnonymous State = iota
	StateGuest
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

var (
	ErrNoSession     = errors.New("no active session")
	ErrNotSignedIn   = errors.New("not signed in")
	ErrAlreadySigned = errors.New("already signed in")
)

// Store persists the session between runs. Get returns (nil, nil) for an
// absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Session is safe for concurrent use. Operations are serialized, including
// the API calls they make.
type Session struct {
	mu     sync.Mutex
	api    client.Client
	store  Store
	logger logging.Logger
	now    func() time.Time

	state State
	token string
	user  *models.User
	guest []models.Entry
}

// New returns an anonymous session. Call Restore to pick up a stored one.
func New(api client.Client, store Store, logger logging.Logger) *Session {
	return &Session{
		api:    api,
		store:  store,
		logger: logger.With("module", "session"),
		now:    time.Now,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User is nil unless authenticated.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Restore loads a persisted token and checks it with the server. A rejected
// token, or one whose account is gone, clears the store. When the server is
// unreachable the stored session is kept as is.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if len(token) == 0 {
		s.reset()
		return nil
	}

	var stored *models.User
	if raw, err := s.store.Get(ctx, UserKey); err != nil {
		return fmt.Errorf("load user: %w", err)
	} else if len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err == nil {
			stored = &u
		}
	}

	user, err := s.api.Me(ctx, string(token))
	switch {
	case err == nil:
		if err := s.persist(ctx, string(token), user); err != nil {
			return err
		}
		s.state, s.token, s.user = StateAuthenticated, string(token), user
		return nil
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNotFound):
		s.logger.Info(ctx, "stored session rejected", "error", err)
		return s.clear(ctx)
	case errors.Is(err, client.ErrUnavailable):
		s.logger.Warn(ctx, "server unreachable, keeping stored session", "error", err)
		s.state, s.token, s.user = StateAuthenticated, string(token), stored
		return nil
	default:
		return err
	}
}

// Login adopts a freshly issued token. If the session was a guest session
// holding capabilities they are saved to the account and the guest list is
// dropped; the merge result is returned (nil when there was nothing to
// push). A failed merge keeps the guest list for MergeGuest to retry.
func (s *Session) Login(ctx context.Context, res *models.AuthResult) (*models.SaveResult, error) {
	if res == nil || res.Token == "" {
		return nil, ErrNotSignedIn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := res.User
	if err := s.persist(ctx, res.Token, &user); err != nil {
		return nil, err
	}
	s.state, s.token, s.user = StateAuthenticated, res.Token, &user
	s.logger.Info(ctx, "signed in", "account_id", user.ID)

	return s.mergeGuest(ctx)
}

// SignIn checks credentials with the server and logs in.
func (s *Session) SignIn(ctx context.Context, email, password string) (*models.SaveResult, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.Login(ctx, res)
}

// SignUp registers an account and logs in.
func (s *Session) SignUp(ctx context.Context, email, password, name string) (*models.SaveResult, error) {
	res, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return s.Login(ctx, res)
}

// MergeGuest retries pushing a leftover guest list to the account.
func (s *Session) MergeGuest(ctx context.Context) (*models.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return nil, ErrNotSignedIn
	}
	return s.mergeGuest(ctx)
}

func (s *Session) mergeGuest(ctx context.Context) (*models.SaveResult, error) {
	if len(s.guest) == 0 {
		return nil, nil
	}

	items := make([]string, 0, len(s.guest))
	for _, e := range s.guest {
		items = append(items, e.Content)
	}

	res, err := s.api.SaveEntries(ctx, s.token, items)
	if err != nil {
		s.logger.Warn(ctx, "guest merge failed", "items", len(items), "error", err)
		return nil, fmt.Errorf("merge guest capabilities: %w", err)
	}
	s.guest = nil
	return res, nil
}

// ContinueAsGuest starts an unauthenticated session with an empty list.
// It is a no-op for a guest and an error when signed in.
func (s *Session) ContinueAsGuest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAuthenticated:
		return ErrAlreadySigned
	case StateAnonymous:
		s.state = StateGuest
		s.guest = nil
	}
	return nil
}

// Logout forgets the token, the account and any guest list.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx)
}

// DeleteAccount removes the signed-in account on the server and logs out.
func (s *Session) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return ErrNotSignedIn
	}
	if err := s.api.DeleteAccount(ctx, s.token); err != nil {
		return err
	}
	return s.clear(ctx)
}

// SaveCapabilities adds items to the list: in memory for a guest, through the
// server for an account.
func (s *Session) SaveCapabilities(ctx context.Context, items []string) (*models.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateGuest:
		existing := make([]string, 0, len(s.guest))
		for _, e := range s.guest {
			existing = append(existing, e.Content)
		}
		r := capmerge.Merge(existing, items)

		out := &models.SaveResult{Added: make([]models.Entry, 0, len(r.Added)), Notice: r.Notice()}
		for _, content := range r.Added {
			e := models.Entry{ID: uuid.NewString(), Content: content, CreatedAt: s.now()}
			s.guest = append(s.guest, e)
			out.Added = append(out.Added, e)
		}
		return out, nil
	case StateAuthenticated:
		return s.api.SaveEntries(ctx, s.token, items)
	default:
		return nil, ErrNoSession
	}
}

// Capabilities lists the current list, oldest first.
func (s *Session) Capabilities(ctx context.Context) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateGuest:
		out := make([]models.Entry, len(s.guest))
		copy(out, s.guest)
		return out, nil
	case StateAuthenticated:
		return s.api.ListEntries(ctx, s.token)
	default:
		return nil, ErrNoSession
	}
}

// DeleteCapability removes one entry by id. An unknown id yields
// client.ErrNotFound in both modes.
func (s *Session) DeleteCapability(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateGuest:
		for i, e := range s.guest {
			if e.ID == id {
				s.guest = append(s.guest[:i], s.guest[i+1:]...)
				return nil
			}
		}
		return client.ErrNotFound
	case StateAuthenticated:
		return s.api.DeleteEntry(ctx, s.token, id)
	default:
		return ErrNoSession
	}
}

// persist writes user then token, so a failed write never leaves the new
// token behind.
func (s *Session) persist(ctx context.Context, token string, user *models.User) error {
	if user == nil {
		if err := s.store.Set(ctx, TokenKey, []byte(token)); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := s.store.Set(ctx, TokenKey, []byte(token)); err != nil {
		_ = s.store.Delete(ctx, UserKey)
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Session) clear(ctx context.Context) error {
	s.reset()
	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if err := s.store.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Session) reset() {
	s.state, s.token, s.user, s.guest = StateAnonymous, "", nil, nil
}
