package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/strengthsmap/internal/client/client"
	"github.com/dmitrijs2005/strengthsmap/internal/client/config"
	"github.com/dmitrijs2005/strengthsmap/internal/client/localdb"
	"github.com/dmitrijs2005/strengthsmap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/strengthsmap/internal/client/session"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
)

type App struct {
	config  *config.Config
	api     client.Client
	session *session.Session
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local store and wires the API client into a session.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := localdb.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	return &App{
		config:  c,
		api:     api,
		session: session.New(api, metadata.NewSQLiteRepository(db), logger),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) state() session.State {
	return a.session.State()
}

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	if a.state() == session.StateGuest {
		return "(guest)"
	}
	return ""
}

// Run restores any stored session and serves the REPL on stdin.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to strengthsmap (type 'help' for commands)")

	if err := a.session.Restore(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not restore session:", err)
	} else if u := a.session.User(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
