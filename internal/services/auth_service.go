package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "dentiq"

// AuthService registers users and issues bearer tokens.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, login, password string) (*LoginResult, error)
	EnsureAdmin(ctx context.Context, username, email, password string) error
	GenerateToken(user *models.User) (string, time.Time, error)
}

// ExpirationChecker applies the lazy plan expiration check to a user.
type ExpirationChecker interface {
	CheckAndUpdateExpiration(ctx context.Context, user *models.User) (*models.User, error)
}

// TokenClaims are the JWT claims carried by every bearer token.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    *string
}

type LoginResult struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type authService struct {
	users      repositories.UserRepository
	expiration ExpirationChecker
	jwtSecret  []byte
	tokenTTL   time.Duration
	cost       int
	log        *zap.Logger
}

func NewAuthService(users repositories.UserRepository, expiration ExpirationChecker, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) AuthService {
	return &authService{
		users:      users,
		expiration: expiration,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		cost:       bcrypt.DefaultCost,
		log:        log,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	user, err := s.newUser(input, models.RoleDentist)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator unless the login is taken.
func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.users.GetByLogin(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	admin, err := s.newUser(RegisterInput{Username: username, Email: email, Password: password, FullName: "Administrator"}, models.RoleAdmin)
	if err != nil {
		return err
	}
	admin.PlanStatus = models.PlanStatusActive
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.log.Info("bootstrap admin created", zap.String("username", admin.Username))
	return nil
}

func (s *authService) newUser(input RegisterInput, role models.Role) (*models.User, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	verr := &common.ValidationError{Fields: map[string]string{}}
	switch {
	case len(input.Username) < 3:
		verr.Fields["username"] = "must be at least 3 characters"
	case strings.Contains(input.Username, "@"):
		verr.Fields["username"] = "must not contain @"
	}
	if !strings.Contains(input.Email, "@") {
		verr.Fields["email"] = "must be a valid email address"
	}
	if len(input.Password) < 8 {
		verr.Fields["password"] = "must be at least 8 characters"
	}
	if input.FullName == "" {
		verr.Fields["full_name"] = "is required"
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Phone:        trimOptional(input.Phone),
		Role:         role,
		PlanStatus:   models.PlanStatusPending,
	}, nil
}

// Login authenticates by username or email. Unknown users and wrong
// passwords produce the same error.
func (s *authService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredential
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredential
	}

	if !user.IsAdmin() {
		user, err = s.expiration.CheckAndUpdateExpiration(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("check plan expiration: %w", err)
		}
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) GenerateToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := TokenClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT: %w", err)
	}
	return token, expiresAt, nil
}
