package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"
	"github.com/aprameyak/philly/pkg/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type authService struct {
	users    UserRepository
	logger   *slog.Logger
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users UserRepository, logger *slog.Logger, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		logger:   logger,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, e.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, e.Wrap("service.auth.Register", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, e.ErrUniqueViolation) {
			return nil, e.ErrConflict
		}
		return nil, err
	}

	s.logger.Info("user registered", slog.String("username", user.Username))
	return user, nil
}

func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, e.ErrInvalidInput
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, e.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, e.Wrap("service.auth.Login", err)
	}

	return &domain.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, e.ErrInvalidInput
	}
	return s.users.GetByUsername(ctx, username)
}

func (s *authService) signToken(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
