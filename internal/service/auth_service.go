package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
	"book_catalog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL   = time.Hour
	defaultSigningKey = "access"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService handles registration, login and token verification.
type AuthService struct {
	authRepo   repository.Credentials
	events     eventRecorder
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.Credentials, events repository.EventRepo, cfg AuthConfig) *AuthService {
	key := cfg.Secret
	if key == "" {
		key = defaultSigningKey
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		authRepo:   repo,
		events:     eventRecorder{repo: events},
		signingKey: []byte(key),
		tokenTTL:   ttl,
		now:        now,
	}
}

// Claims defines JWT claims. Data carries the username.
type Claims struct {
	jwt.RegisteredClaims
	Data string `json:"data"`
}

// Register validates and stores a new user.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrMissingFields
	}
	if strings.TrimSpace(username) == "" {
		return common.ErrInvalidUsername
	}
	if err := s.authRepo.Create(ctx, models.User{Username: username, Password: password}); err != nil {
		return fmt.Errorf("register %q: %w", username, err)
	}
	s.events.record(ctx, models.EventUserRegistered, username, "", "user registered")
	return nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.ErrMissingFields
	}
	ok, err := s.authRepo.Verify(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("verify %q: %w", username, err)
	}
	if !ok {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.issueToken(username)
	if err != nil {
		return "", err
	}
	s.events.record(ctx, models.EventUserLoggedIn, username, "", "user logged in")
	return token, nil
}

// ParseToken verifies signature and expiry and returns the username.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}
	// tokens without exp are rejected; jwt/v5 accepts them by default
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, keyFunc,
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Data == "" {
		return "", fmt.Errorf("%w: %v", common.ErrUnauthorized, ErrInvalidToken)
	}
	return claims.Data, nil
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(username string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Data: username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
