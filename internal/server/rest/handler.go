// Package rest exposes the strengthsmap services over HTTP/JSON.
package rest

import (
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/dmitrijs2005/strengthsmap/internal/server/services"
)

// Handler holds the services backing the HTTP routes.
type Handler struct {
	accounts    *services.AccountService
	oauth       *services.OAuthService
	entries     *services.EntryService
	community   *services.CommunityService
	frontendURL string
	logger      logging.Logger
}

// NewHandler wires the services into a Handler. frontendURL is where the
// delegated-login callback redirects the browser.
func NewHandler(
	accounts *services.AccountService,
	oauth *services.OAuthService,
	entries *services.EntryService,
	community *services.CommunityService,
	frontendURL string,
	logger logging.Logger,
) *Handler {
	return &Handler{
		accounts:    accounts,
		oauth:       oauth,
		entries:     entries,
		community:   community,
		frontendURL: frontendURL,
		logger:      logger.With("module", "rest"),
	}
}
