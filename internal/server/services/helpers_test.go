package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/dmitrijs2005/strengthsmap/internal/server/auth"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/entries"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/memory"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// newTxDB returns a mock database that accepts any number (up to 64) of
// transactions in any order. The in-memory repositories ignore the handle.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 64; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fixture struct {
	db        *sql.DB
	rm        *memory.Manager
	tokens    *auth.TokenService
	accounts  *AccountService
	entries   *EntryService
	community *CommunityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTxDB(t)
	rm := memory.NewManager()
	tokens := auth.NewTokenService([]byte("test-secret"), 7*24*time.Hour)
	return &fixture{
		db:        db,
		rm:        rm,
		tokens:    tokens,
		accounts:  NewAccountService(db, rm, tokens, bcrypt.MinCost, logging.Nop{}),
		entries:   NewEntryService(db, rm),
		community: NewCommunityService(db, rm, logging.Nop{}),
	}
}

// failingManager serves memory repositories but fails entry deletion.
type failingManager struct {
	*memory.Manager
	err error
}

func (m failingManager) Entries(db dbx.DBTX) entries.Repository {
	return failingEntries{Repository: m.Manager.Entries(db), err: m.err}
}

var _ repomanager.RepositoryManager = failingManager{}

type failingEntries struct {
	entries.Repository
	err error
}

func (f failingEntries) DeleteByOwner(context.Context, string) (int64, error) {
	return 0, f.err
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
