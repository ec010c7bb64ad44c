package public

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aprameyak/philly/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) PublicRegister(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	user, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("user registered", slog.String("username", user.Username))
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) PublicLogin(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) PublicGetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Auth.GetUser(r.Context(), username)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}
