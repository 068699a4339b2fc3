package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/strengthsmap/internal/capmerge"
	"github.com/dmitrijs2005/strengthsmap/internal/client/client"
	"github.com/dmitrijs2005/strengthsmap/internal/client/localdb"
	"github.com/dmitrijs2005/strengthsmap/internal/client/models"
	"github.com/dmitrijs2005/strengthsmap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements client.Client with an in-memory account list.
type fakeAPI struct {
	client.Client

	meErr    error
	saveErr  error
	tokens   map[string]models.User
	entries  map[string][]models.Entry
	saved    [][]string
	deleted  []string
	password string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tokens:   map[string]models.User{},
		entries:  map[string][]models.Entry{},
		password: "pw",
	}
}

func (f *fakeAPI) issue(u models.User) *models.AuthResult {
	token := fmt.Sprintf("tok-%s-%d", u.ID, len(f.tokens))
	f.tokens[token] = u
	return &models.AuthResult{Token: token, User: u}
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.AuthResult, error) {
	if password != f.password {
		return nil, client.ErrUnauthorized
	}
	return f.issue(models.User{ID: "a1", Email: email, Name: "Alice"}), nil
}

func (f *fakeAPI) Register(_ context.Context, email, _, name string) (*models.AuthResult, error) {
	return f.issue(models.User{ID: "a2", Email: email, Name: name}), nil
}

func (f *fakeAPI) Me(_ context.Context, token string) (*models.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	u, ok := f.tokens[token]
	if !ok {
		return nil, client.ErrUnauthorized
	}
	return &u, nil
}

func (f *fakeAPI) SaveEntries(_ context.Context, token string, items []string) (*models.SaveResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, items)
	u := f.tokens[token]

	existing := make([]string, 0)
	for _, e := range f.entries[u.ID] {
		existing = append(existing, e.Content)
	}
	r := capmerge.Merge(existing, items)
	out := &models.SaveResult{Added: []models.Entry{}, Notice: r.Notice()}
	for i, c := range r.Added {
		e := models.Entry{ID: fmt.Sprintf("e%d", len(f.entries[u.ID])+i), Content: c}
		out.Added = append(out.Added, e)
	}
	f.entries[u.ID] = append(f.entries[u.ID], out.Added...)
	return out, nil
}

func (f *fakeAPI) ListEntries(_ context.Context, token string) ([]models.Entry, error) {
	return f.entries[f.tokens[token].ID], nil
}

func (f *fakeAPI) DeleteEntry(_ context.Context, _ string, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) DeleteAccount(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func newStore(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := localdb.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func contents(items []models.Entry) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.Content)
	}
	return out
}

func TestAnonymous_RejectsListOperations(t *testing.T) {
	s := New(newFakeAPI(), newStore(t), logging.Nop{})
	ctx := context.Background()

	assert.Equal(t, StateAnonymous, s.State())
	_, err := s.SaveCapabilities(ctx, []string{"x"})
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = s.Capabilities(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, s.DeleteCapability(ctx, "id"), ErrNoSession)
	assert.ErrorIs(t, s.DeleteAccount(ctx), ErrNotSignedIn)
}

func TestGuest_LocalMergeThenSignInPushesList(t *testing.T) {
	api := newFakeAPI()
	store := newStore(t)
	s := New(api, store, logging.Nop{})
	ctx := context.Background()

	require.NoError(t, s.ContinueAsGuest())
	assert.Equal(t, StateGuest, s.State())

	res, err := s.SaveCapabilities(ctx, []string{"Leadership", "leadership ", "Analysis"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Leadership", "Analysis"}, contents(res.Added))
	assert.Empty(t, res.Notice)

	res, err = s.SaveCapabilities(ctx, []string{"ANALYSIS"})
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, capmerge.NoNewEntriesNotice, res.Notice)

	list, err := s.Capabilities(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NoError(t, s.DeleteCapability(ctx, list[1].ID))
	assert.ErrorIs(t, s.DeleteCapability(ctx, "nope"), client.ErrNotFound)

	merged, err := s.SignIn(ctx, "alice@x.io", "pw")
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.Equal(t, []string{"Leadership"}, contents(merged.Added))
	assert.Equal(t, [][]string{{"Leadership"}}, api.saved)

	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "alice@x.io", s.User().Email)

	tok, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	raw, err := store.Get(ctx, UserKey)
	require.NoError(t, err)
	var u models.User
	require.NoError(t, json.Unmarshal(raw, &u))
	assert.Equal(t, "a1", u.ID)

	list, err = s.Capabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leadership"}, contents(list))

	assert.ErrorIs(t, s.ContinueAsGuest(), ErrAlreadySigned)
}

func TestLogin_MergeFailureKeepsGuestList(t *testing.T) {
	api := newFakeAPI()
	s := New(api, newStore(t), logging.Nop{})
	ctx := context.Background()

	require.NoError(t, s.ContinueAsGuest())
	_, err := s.SaveCapabilities(ctx, []string{"Focus"})
	require.NoError(t, err)

	api.saveErr = client.ErrUnavailable
	_, err = s.SignIn(ctx, "alice@x.io", "pw")
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, StateAuthenticated, s.State())

	api.saveErr = nil
	res, err := s.MergeGuest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Focus"}, contents(res.Added))

	res, err = s.MergeGuest(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)
}

// failingStore rejects writes of one key.
type failingStore struct {
	Store
	key string
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestLogin_PersistFailureKeepsPreviousState(t *testing.T) {
	api := newFakeAPI()
	store := newStore(t)
	s := New(api, &failingStore{Store: store, key: TokenKey}, logging.Nop{})
	ctx := context.Background()

	require.NoError(t, s.ContinueAsGuest())
	_, err := s.SaveCapabilities(ctx, []string{"Focus"})
	require.NoError(t, err)

	_, err = s.SignIn(ctx, "alice@x.io", "pw")
	require.Error(t, err)
	assert.Equal(t, StateGuest, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, api.saved)

	list, err := s.Capabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Focus"}, contents(list))

	tok, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Nil(t, tok)
	raw, err := store.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSignIn_BadCredentialsLeavesStateAlone(t *testing.T) {
	s := New(newFakeAPI(), newStore(t), logging.Nop{})

	_, err := s.SignIn(context.Background(), "alice@x.io", "wrong")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.User())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		s := New(newFakeAPI(), newStore(t), logging.Nop{})
		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, StateAnonymous, s.State())
	})

	t.Run("valid token", func(t *testing.T) {
		api := newFakeAPI()
		store := newStore(t)
		_, err := New(api, store, logging.Nop{}).SignUp(ctx, "bob@x.io", "pw", "Bob")
		require.NoError(t, err)

		s := New(api, store, logging.Nop{})
		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, StateAuthenticated, s.State())
		assert.Equal(t, "Bob", s.User().Name)
	})

	t.Run("rejected token clears store", func(t *testing.T) {
		api := newFakeAPI()
		store := newStore(t)
		require.NoError(t, store.Set(ctx, TokenKey, []byte("stale")))
		require.NoError(t, store.Set(ctx, UserKey, []byte(`{"id":"x"}`)))

		s := New(api, store, logging.Nop{})
		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, StateAnonymous, s.State())

		v, err := store.Get(ctx, TokenKey)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("deleted account clears store", func(t *testing.T) {
		api := newFakeAPI()
		api.meErr = client.ErrNotFound
		store := newStore(t)
		require.NoError(t, store.Set(ctx, TokenKey, []byte("tok")))

		s := New(api, store, logging.Nop{})
		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, StateAnonymous, s.State())
	})

	t.Run("server unreachable keeps session", func(t *testing.T) {
		api := newFakeAPI()
		api.meErr = client.ErrUnavailable
		store := newStore(t)
		require.NoError(t, store.Set(ctx, TokenKey, []byte("tok")))
		require.NoError(t, store.Set(ctx, UserKey, []byte(`{"id":"a1","email":"a@x.io","name":"A"}`)))

		s := New(api, store, logging.Nop{})
		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, StateAuthenticated, s.State())
		assert.Equal(t, "a1", s.User().ID)

		v, err := store.Get(ctx, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, []byte("tok"), v)
	})
}

func TestLogoutAndDeleteAccount(t *testing.T) {
	api := newFakeAPI()
	store := newStore(t)
	s := New(api, store, logging.Nop{})
	ctx := context.Background()

	_, err := s.SignIn(ctx, "alice@x.io", "pw")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, StateAnonymous, s.State())
	v, err := store.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = s.SignIn(ctx, "alice@x.io", "pw")
	require.NoError(t, err)
	require.NoError(t, s.DeleteCapability(ctx, "e0"))
	assert.Equal(t, []string{"e0"}, api.deleted)

	before := len(api.tokens)
	require.NoError(t, s.DeleteAccount(ctx))
	assert.Equal(t, StateAnonymous, s.State())
	assert.Len(t, api.tokens, before-1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "guest", StateGuest.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
