package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"planora/internal/auth"
	"planora/internal/cache"
	apperrors "planora/internal/errors"
	"planora/internal/model"
	"planora/internal/repository"
)

const bcryptCost = 10

const userCacheTTL = 5 * time.Minute

// AuthService handles registration, login and current-user lookup.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	cache      *cache.Client
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, cache *cache.Client) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		cache:      cache,
	}
}

// Register creates a new user with a bcrypt-hashed password. The username
// check runs before the email check; email is lowercased before either
// comparison or storage.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	email = strings.ToLower(email)

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateUsername
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	existing, err = s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token. An unknown email and
// a wrong password both surface as ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

func (s *authService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// CurrentUser resolves the id carried by a verified token back to a stored
// user, through a short-lived redis read-through cache.
func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, userCacheTTL)
	}
	return user, nil
}
