package public_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/aprameyak/philly/internal/api/handlers/http/public"
	mock_public "github.com/aprameyak/philly/internal/api/handlers/http/public/mocks"
	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/internal/middleware"
	"github.com/aprameyak/philly/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

type handlerMocks struct {
	score   *mock_public.MockScoreHandler
	report  *mock_public.MockReportHandler
	profile *mock_public.MockProfileHandler
	auth    *mock_public.MockAuthHandler
}

func newTestHandler(ctrl *gomock.Controller) (*public.Handler, handlerMocks) {
	m := handlerMocks{
		score:   mock_public.NewMockScoreHandler(ctrl),
		report:  mock_public.NewMockReportHandler(ctrl),
		profile: mock_public.NewMockProfileHandler(ctrl),
		auth:    mock_public.NewMockAuthHandler(ctrl),
	}
	return public.NewHandler(newTestLogger(), m.score, m.report, m.profile, m.auth), m
}

func TestPublicScore_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	reqBody := `{"latitude":39.95,"longitude":-75.16,"time":"2024-03-15T22:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	wantReq := domain.ScoreRequest{Lat: 39.95, Lng: -75.16, Time: "2024-03-15T22:00:00Z"}
	wantResp := domain.ScoreResult{
		DangerScore: 3,
		Reasons:     []string{"several thefts within 500m"},
		Events:      []domain.IncidentEvidence{},
	}

	m.score.EXPECT().
		Assess(gomock.Any(), wantReq).
		Return(wantResp, nil).
		Times(1)

	h.PublicScore(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.ScoreResult](t, rr)
	if got.DangerScore != 3 || len(got.Reasons) != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestPublicScore_InvalidJSON_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewBufferString("{bad json"))
	rr := httptest.NewRecorder()

	h.PublicScore(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestPublicScore_UnknownField_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(ctrl)

	reqBody := `{"latitude":39.95,"longitude":-75.16,"time":"2024-03-15T22:00:00Z","foo":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	h.PublicScore(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestPublicScore_InvalidCoordinates_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	reqBody := `{"latitude":99,"longitude":-75.16,"time":"2024-03-15T22:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	m.score.EXPECT().
		Assess(gomock.Any(), gomock.Any()).
		Return(domain.ScoreResult{}, e.ErrInvalidCoordinates).
		Times(1)

	h.PublicScore(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestPublicScore_EmptyStore_500(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	reqBody := `{"latitude":39.95,"longitude":-75.16,"time":"2024-03-15T22:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	m.score.EXPECT().
		Assess(gomock.Any(), gomock.Any()).
		Return(domain.ScoreResult{}, e.ErrNoIncidents).
		Times(1)

	h.PublicScore(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d got %d body=%s", http.StatusInternalServerError, rr.Code, rr.Body.String())
	}
}

func TestPublicSubmitReport_Created(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	reqBody := `{"user_id":"u1","category":"Thefts","latitude":39.95,"longitude":-75.16}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	wantReq := domain.SubmitReportRequest{UserID: "u1", Category: "Thefts", Lat: 39.95, Lng: -75.16}
	wantResp := &domain.SubmitReportResponse{
		Profile: &domain.UserProfile{UserID: "u1", TotalSubmissions: 1, Level: 1},
	}

	m.report.EXPECT().
		Submit(gomock.Any(), wantReq).
		Return(wantResp, nil).
		Times(1)

	h.PublicSubmitReport(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.SubmitReportResponse](t, rr)
	if got.Profile == nil || got.Profile.TotalSubmissions != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestPublicSubmitReport_TokenIdentityWins(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	secret := "test-secret"
	userID := uuid.NewString()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	// the body claims someone else
	reqBody := `{"user_id":"impostor","category":"Thefts","latitude":39.95,"longitude":-75.16}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(reqBody))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	m.report.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, gotReq domain.SubmitReportRequest) (*domain.SubmitReportResponse, error) {
			if gotReq.UserID != userID {
				t.Fatalf("expected token identity %s got %s", userID, gotReq.UserID)
			}
			return &domain.SubmitReportResponse{Profile: &domain.UserProfile{UserID: userID}}, nil
		}).
		Times(1)

	middleware.JWTOptional(secret)(http.HandlerFunc(h.PublicSubmitReport)).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestPublicSubmitReport_InvalidJSON_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString("{bad"))
	rr := httptest.NewRecorder()

	h.PublicSubmitReport(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestPublicGetReport(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	id := uuid.New()
	inc := &domain.Incident{ID: id, Category: "Thefts", Status: domain.IncidentPending}

	m.report.EXPECT().
		GetReport(gomock.Any(), id).
		Return(inc, nil).
		Times(1)

	r := chi.NewRouter()
	r.Get("/reports/{id}", h.PublicGetReport)

	req := httptest.NewRequest(http.MethodGet, "/reports/"+id.String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.Incident](t, rr)
	if got.ID != id {
		t.Fatalf("unexpected incident: %+v", got)
	}
}

func TestPublicGetReport_InvalidID_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(ctrl)

	r := chi.NewRouter()
	r.Get("/reports/{id}", h.PublicGetReport)

	req := httptest.NewRequest(http.MethodGet, "/reports/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestPublicGetReport_NotFound_404(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	id := uuid.New()
	m.report.EXPECT().
		GetReport(gomock.Any(), id).
		Return(nil, e.ErrNotFound).
		Times(1)

	r := chi.NewRouter()
	r.Get("/reports/{id}", h.PublicGetReport)

	req := httptest.NewRequest(http.MethodGet, "/reports/"+id.String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d got %d body=%s", http.StatusNotFound, rr.Code, rr.Body.String())
	}
}

func TestPublicGetProfile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.profile.EXPECT().
		GetProfile(gomock.Any(), "u1").
		Return(&domain.UserProfile{UserID: "u1", Level: 2}, nil).
		Times(1)

	r := chi.NewRouter()
	r.Get("/profiles/{user_id}", h.PublicGetProfile)

	req := httptest.NewRequest(http.MethodGet, "/profiles/u1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.UserProfile](t, rr)
	if got.UserID != "u1" || got.Level != 2 {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestPublicUpdateProfile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.profile.EXPECT().
		UpdateProfile(gomock.Any(), "u1", gomock.Any()).
		DoAndReturn(func(_ interface{}, _ string, req domain.UpdateProfileRequest) (*domain.UserProfile, error) {
			if req.ExperiencePoints == nil || *req.ExperiencePoints != 250 {
				t.Fatalf("unexpected request: %+v", req)
			}
			return &domain.UserProfile{UserID: "u1", ExperiencePoints: 250, Level: 3}, nil
		}).
		Times(1)

	r := chi.NewRouter()
	r.Put("/profiles/{user_id}", h.PublicUpdateProfile)

	req := httptest.NewRequest(http.MethodPut, "/profiles/u1", bytes.NewBufferString(`{"experience_points":250}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestPublicLeaderboard_DefaultLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.profile.EXPECT().
		Leaderboard(gomock.Any(), 20).
		Return([]*domain.UserProfile{{UserID: "u1"}}, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	rr := httptest.NewRecorder()
	h.PublicLeaderboard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestPublicLeaderboard_ExplicitLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.profile.EXPECT().
		Leaderboard(gomock.Any(), 5).
		Return(nil, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?limit=5", nil)
	rr := httptest.NewRecorder()
	h.PublicLeaderboard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestPublicRegister_Created(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.auth.EXPECT().
		Register(gomock.Any(), domain.RegisterRequest{Username: "reporter1", Password: "correct horse battery"}).
		Return(&domain.User{ID: uuid.New(), Username: "reporter1"}, nil).
		Times(1)

	reqBody := `{"username":"reporter1","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	h.PublicRegister(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestPublicRegister_Conflict_409(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.auth.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(nil, e.ErrConflict).
		Times(1)

	reqBody := `{"username":"reporter1","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	h.PublicRegister(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected %d got %d body=%s", http.StatusConflict, rr.Code, rr.Body.String())
	}
}

func TestPublicLogin_BadCredentials_401(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.auth.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(nil, e.ErrInvalidCredentials).
		Times(1)

	reqBody := `{"username":"reporter1","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	h.PublicLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d got %d body=%s", http.StatusUnauthorized, rr.Code, rr.Body.String())
	}
}

func TestPublicLogin_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	m.auth.EXPECT().
		Login(gomock.Any(), domain.LoginRequest{Username: "reporter1", Password: "correct horse battery"}).
		Return(&domain.AuthResponse{Token: "signed", User: &domain.User{Username: "reporter1"}}, nil).
		Times(1)

	reqBody := `{"username":"reporter1","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	h.PublicLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.AuthResponse](t, rr)
	if got.Token != "signed" {
		t.Fatalf("unexpected response: %+v", got)
	}
}
