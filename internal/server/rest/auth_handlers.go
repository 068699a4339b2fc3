package rest

import (
	"encoding/json"
	"net/http"
	"net/url"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := parseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusCreated, authResponse{Token: res.Token, User: toUser(res.Account)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, authResponse{Token: res.Token, User: toUser(res.Account)})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, toUser(accountFromContext(r.Context())))
}

func (h *Handler) authConfig(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{"googleClientId": h.oauth.ClientID()})
}

// googleCallback finishes delegated login and sends the browser back to the
// frontend with either token and user, or error=oauth_failed.
func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}

	res, err := h.oauth.Callback(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		q.Set("error", "oauth_failed")
	} else {
		user, mErr := json.Marshal(toUser(res.Account))
		if mErr != nil {
			h.logger.Error(r.Context(), "encoding user", "error", mErr)
			q.Set("error", "oauth_failed")
		} else {
			q.Set("token", res.Token)
			q.Set("user", string(user))
		}
	}

	http.Redirect(w, r, h.frontendRedirect(q), http.StatusFound)
}

func (h *Handler) frontendRedirect(q url.Values) string {
	u, err := url.Parse(h.frontendURL)
	if err != nil {
		return h.frontendURL + "?" + q.Encode()
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	if err := h.accounts.DeleteAccount(r.Context(), account.ID); err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
