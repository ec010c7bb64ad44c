package public

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aprameyak/philly/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) PublicGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	profile, err := h.Profile.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) PublicUpdateProfile(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	userID := chi.URLParam(r, "user_id")

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	profile, err := h.Profile.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) PublicLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 20)

	profiles, err := h.Profile.Leaderboard(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"leaderboard": profiles,
		"limit":       limit,
	})
}
