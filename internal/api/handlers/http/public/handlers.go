package public

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ScoreHandler interface {
	Assess(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error)
}

type ReportHandler interface {
	Submit(ctx context.Context, req domain.SubmitReportRequest) (*domain.SubmitReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
}

type ProfileHandler interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.UserProfile, error)
	Leaderboard(ctx context.Context, limit int) ([]*domain.UserProfile, error)
}

type AuthHandler interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
}

type Handler struct {
	logger  *slog.Logger
	Score   ScoreHandler
	Report  ReportHandler
	Profile ProfileHandler
	Auth    AuthHandler
}

func NewHandler(logger *slog.Logger, score ScoreHandler, report ReportHandler, profile ProfileHandler, auth AuthHandler) *Handler {
	return &Handler{
		logger:  logger,
		Score:   score,
		Report:  report,
		Profile: profile,
		Auth:    auth,
	}
}

func (h *Handler) PublicScore(w http.ResponseWriter, r *http.Request) {
	var req domain.ScoreRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resp, err := h.Score.Assess(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) PublicSubmitReport(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	// token identity wins over whatever the body claims
	if uid := middleware.UserID(r.Context()); uid != "" {
		req.UserID = uid
	}

	l.Info("submitting report",
		slog.String("category", req.Category),
		slog.Float64("lat", req.Lat),
		slog.Float64("lng", req.Lng),
	)

	resp, err := h.Report.Submit(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) PublicGetReport(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	inc, err := h.Report.GetReport(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, inc)
}
