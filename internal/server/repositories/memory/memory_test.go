package memory

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

func strPtr(s string) *string { return &s }

func TestAccounts(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	repo := m.Accounts(nil)

	a, err := repo.Create(ctx, &models.Account{Email: "Alice@x.io", Name: "Alice", PasswordHash: strPtr("h")})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	_, err = repo.Create(ctx, &models.Account{Email: "alice@X.IO", Name: "Dup", PasswordHash: strPtr("h")})
	assert.ErrorIs(t, err, common.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "ALICE@x.io")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = repo.FindForProvider(ctx, "g-1", "alice@x.io")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	require.NoError(t, repo.LinkProvider(ctx, a.ID, "g-1", strPtr("http://pic")))
	got, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GoogleID)
	assert.Equal(t, "g-1", *got.GoogleID)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	got, err = repo.FindForProvider(ctx, "g-1", "other@x.io")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.FindForProvider(ctx, "g-2", "nobody@x.io")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.LinkProvider(ctx, "ghost", "g", nil), common.ErrNotFound)
}

func TestAccountDelete_RefusesWhileEntriesExist(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	a, err := m.Accounts(nil).Create(ctx, &models.Account{Email: "a@x.io", Name: "A", PasswordHash: strPtr("h")})
	require.NoError(t, err)
	_, err = m.Entries(nil).Insert(ctx, &models.PersonalEntry{OwnerID: a.ID, Content: "Focus"})
	require.NoError(t, err)

	assert.ErrorIs(t, m.Accounts(nil).Delete(ctx, a.ID), common.ErrorInternal)

	n, err := m.Entries(nil).DeleteByOwner(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, m.Accounts(nil).Delete(ctx, a.ID))
	assert.ErrorIs(t, m.Accounts(nil).Delete(ctx, a.ID), common.ErrNotFound)
}

func TestEntries(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	repo := m.Entries(nil)

	for _, c := range []string{"Leadership", "leadership", "Analysis"} {
		_, err := repo.Insert(ctx, &models.PersonalEntry{OwnerID: "u1", Content: c})
		require.NoError(t, err)
	}
	created, err := repo.Insert(ctx, &models.PersonalEntry{OwnerID: "u2", Content: "Leadership"})
	require.NoError(t, err)
	assert.True(t, created)

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Leadership", list[0].Content)
	assert.Equal(t, "Analysis", list[1].Content)

	assert.ErrorIs(t, repo.Delete(ctx, "u2", list[0].ID), common.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", list[0].ID))

	empty, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCommunity(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	repo := m.Community(nil)

	first := &models.CommunityEntry{Category: "Leadership", Capability: "Coaching"}
	created, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.Insert(ctx, &models.CommunityEntry{Category: "leadership", Capability: "COACHING"})
	require.NoError(t, err)
	assert.False(t, created)

	second := &models.CommunityEntry{Category: "Tech", Capability: "Go"}
	_, err = repo.Insert(ctx, second)
	require.NoError(t, err)
	third := &models.CommunityEntry{Category: "Tech", Capability: "Coaching"}
	_, err = repo.Insert(ctx, third)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leadership", "Tech"}, cats)

	caps, err := repo.Capabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Coaching", "Go"}, caps)

	pair, err := repo.FindPair(ctx, "TECH", "go")
	require.NoError(t, err)
	assert.Equal(t, second.ID, pair.ID)

	assert.ErrorIs(t, repo.UpdateCategory(ctx, third.ID, "Leadership"), common.ErrDuplicate)
	assert.ErrorIs(t, repo.UpdateCapability(ctx, second.ID, "coaching"), common.ErrDuplicate)
	require.NoError(t, repo.UpdateCapability(ctx, second.ID, "Golang"))
	assert.ErrorIs(t, repo.UpdateCategory(ctx, "ghost", "X"), common.ErrNotFound)

	inTech, err := repo.ListByCategory(ctx, "tech")
	require.NoError(t, err)
	assert.Len(t, inTech, 2)

	n, err := repo.DeleteCategory(ctx, "TECH")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), common.ErrNotFound)
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRunMigrationsIsNoop(t *testing.T) {
	assert.NoError(t, NewManager().RunMigrations(context.Background(), nil))
}
