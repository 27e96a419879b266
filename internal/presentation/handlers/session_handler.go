package handlers

import (
	"errors"
	"net/http"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/session"
)

type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Login handles POST /api/v1/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var profile entities.UserProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return
	}

	s, err := h.manager.Login(r.Context(), profile)
	if err != nil {
		if errors.Is(err, session.ErrInvalidProfile) {
			writeError(w, http.StatusBadRequest, "invalid_profile", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "session_error", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(h.manager.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, s)
}

// Current handles GET /api/v1/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no_session", session.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Logout handles DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no_session", session.ErrNoSession.Error())
		return
	}

	if err := h.manager.Logout(r.Context(), s.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "session_error", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
