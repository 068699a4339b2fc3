package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/strengthsmap/internal/client/models"
	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API at baseURL. Each call is
// bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func bearer(token string) http.Header {
	return http.Header{common.AuthorizationHeaderName: {common.BearerPrefix + token}}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, header http.Header, in, out any) (int, error) {
	status, err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, header, in, out)
	if err != nil {
		return status, c.mapError(err)
	}
	return status, nil
}

func (c *HTTPClient) mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, netx.ErrEncoding) {
		return err
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return err
	}

	switch se.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, se.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, se.Message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, se.Message)
	default:
		return se
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
	return err
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (*models.AuthResult, error) {
	var out models.AuthResult
	in := map[string]string{"email": email, "password": password, "name": name}
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	in := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", bearer(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodDelete, "/auth/delete-account", bearer(token), nil, nil)
	return err
}

func (c *HTTPClient) ListEntries(ctx context.Context, token string) ([]models.Entry, error) {
	out := []models.Entry{}
	if _, err := c.do(ctx, http.MethodGet, "/entries", bearer(token), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SaveEntries(ctx context.Context, token string, items []string) (*models.SaveResult, error) {
	var out models.SaveResult
	in := map[string][]string{"items": items}
	if _, err := c.do(ctx, http.MethodPost, "/entries", bearer(token), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), bearer(token), nil, nil)
	return err
}

func (c *HTTPClient) ListCommunity(ctx context.Context) ([]models.CommunityEntry, error) {
	out := []models.CommunityEntry{}
	if _, err := c.do(ctx, http.MethodGet, "/community-entries", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitCommunity reports created=true when the pair was new.
func (c *HTTPClient) SubmitCommunity(ctx context.Context, category, capability string) (*models.CommunityEntry, bool, error) {
	var out models.CommunityEntry
	in := map[string]string{"category": category, "capability": capability}
	status, err := c.do(ctx, http.MethodPost, "/community-entries", nil, in, &out)
	if err != nil {
		return nil, false, err
	}
	return &out, status == http.StatusCreated, nil
}
