package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/internal/service"
	"github.com/aprameyak/philly/pkg/e"
	"github.com/aprameyak/philly/pkg/logger"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.Username]; ok {
		return e.ErrUniqueViolation
	}
	r.users[user.Username] = user
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, e.ErrNotFound
	}
	return u, nil
}

const testSecret = "test-secret-not-for-production"

func newAuthService(repo *memUserRepo) service.AuthService {
	return service.NewAuthService(repo, logger.Discard(), testSecret, time.Hour)
}

func TestRegister_HashesPassword(t *testing.T) {
	t.Parallel()

	repo := newMemUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "reporter1",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct horse battery" {
		t.Fatalf("password stored in the clear")
	}
	if user.DisplayName != "reporter1" {
		t.Fatalf("expected display name defaulted to username, got %q", user.DisplayName)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemUserRepo())

	req := domain.RegisterRequest{Username: "reporter1", Password: "correct horse battery"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, e.ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemUserRepo())

	cases := []domain.RegisterRequest{
		{Username: "", Password: "correct horse battery"},
		{Username: "ab", Password: "correct horse battery"}, // too short
		{Username: "reporter1", Password: "short"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, e.ErrInvalidInput) {
			t.Fatalf("req %+v: expected ErrInvalidInput got %v", req, err)
		}
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemUserRepo())

	registered, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "reporter1",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	resp, err := svc.Login(context.Background(), domain.LoginRequest{
		Username: "reporter1",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.User.ID != registered.ID {
		t.Fatalf("login returned a different user")
	}

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", token.Claims)
	}
	if claims["sub"] != registered.ID.String() {
		t.Fatalf("expected sub %s got %v", registered.ID, claims["sub"])
	}
	if claims["username"] != "reporter1" {
		t.Fatalf("expected username claim got %v", claims["username"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemUserRepo())

	if _, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "reporter1",
		Password: "correct horse battery",
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Username: "reporter1",
		Password: "wrong",
	})
	if !errors.Is(err, e.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemUserRepo())

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Username: "ghost",
		Password: "whatever1",
	})
	if !errors.Is(err, e.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemUserRepo())

	registered, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "reporter1",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := svc.GetUser(context.Background(), "reporter1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != registered.ID {
		t.Fatalf("wrong user returned")
	}

	if _, err := svc.GetUser(context.Background(), ""); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}
