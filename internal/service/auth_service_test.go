package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"book_catalog/internal/common"
	"book_catalog/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// mockCredentials is a lightweight in-test mock for repository.Credentials.
type mockCredentials struct {
	CreateFn func(u models.User) error
	VerifyFn func(username, password string) (bool, error)

	createCalls []models.User
	verifyCalls []string
}

func (m *mockCredentials) Create(_ context.Context, u models.User) error {
	m.createCalls = append(m.createCalls, u)
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(u)
}

func (m *mockCredentials) Verify(_ context.Context, username, password string) (bool, error) {
	m.verifyCalls = append(m.verifyCalls, username)
	if m.VerifyFn == nil {
		return false, nil
	}
	return m.VerifyFn(username, password)
}

// recordingEvents captures appended events.
type recordingEvents struct {
	events []models.ActivityEvent
	err    error
}

func (r *recordingEvents) Append(_ context.Context, e models.ActivityEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingEvents) List(context.Context, time.Time, time.Time, string, string) ([]models.ActivityEvent, error) {
	return r.events, nil
}

func newAuthService(creds *mockCredentials, events *recordingEvents) *AuthService {
	if events == nil {
		events = &recordingEvents{}
	}
	return NewAuthService(creds, events, AuthConfig{Secret: "access", TokenTTL: time.Hour})
}

// --- Register tests ---

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		createErr error
		wantErr   error
		wantCalls int
	}{
		{name: "ok", username: "alice", password: "pw", wantCalls: 1},
		{name: "missing username", username: "", password: "pw", wantErr: common.ErrMissingFields},
		{name: "missing password", username: "alice", password: "", wantErr: common.ErrMissingFields},
		{name: "whitespace username", username: "   ", password: "pw", wantErr: common.ErrInvalidUsername},
		{name: "duplicate", username: "alice", password: "pw", createErr: common.ErrDuplicateUser, wantErr: common.ErrDuplicateUser, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds := &mockCredentials{CreateFn: func(models.User) error { return tc.createErr }}
			events := &recordingEvents{}
			svc := newAuthService(creds, events)

			err := svc.Register(context.Background(), tc.username, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v, got %v", tc.wantErr, err)
			}
			if len(creds.createCalls) != tc.wantCalls {
				t.Fatalf("expected %d Create calls, got %d", tc.wantCalls, len(creds.createCalls))
			}
			if tc.wantErr == nil {
				if len(events.events) != 1 || events.events[0].Type != models.EventUserRegistered {
					t.Fatalf("expected one USER_REGISTERED event, got %+v", events.events)
				}
			} else if len(events.events) != 0 {
				t.Fatalf("no event expected on failure, got %+v", events.events)
			}
		})
	}
}

func TestAuthService_Register_StoresPasswordVerbatim(t *testing.T) {
	creds := &mockCredentials{}
	svc := newAuthService(creds, &recordingEvents{})

	if err := svc.Register(context.Background(), "bob", " pw "); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if creds.createCalls[0].Password != " pw " {
		t.Fatalf("password must be stored as given, got %q", creds.createCalls[0].Password)
	}
}

// --- Login tests ---

func TestAuthService_Login_Success(t *testing.T) {
	creds := &mockCredentials{VerifyFn: func(u, p string) (bool, error) {
		return u == "diana" && p == "letmein", nil
	}}
	events := &recordingEvents{}
	svc := newAuthService(creds, events)

	token, err := svc.Login(context.Background(), "diana", "letmein")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	username, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if username != "diana" {
		t.Fatalf("expected username diana from token, got %q", username)
	}
	if len(events.events) != 1 || events.events[0].Type != models.EventUserLoggedIn {
		t.Fatalf("expected one USER_LOGGED_IN event, got %+v", events.events)
	}
}

func TestAuthService_Login_TokenClaims(t *testing.T) {
	creds := &mockCredentials{VerifyFn: func(string, string) (bool, error) { return true, nil }}
	svc := newAuthService(creds, &recordingEvents{})
	fixed := time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("access"), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("parse with default secret failed: %v", err)
	}
	if claims.Data != "alice" {
		t.Fatalf("expected data claim alice, got %q", claims.Data)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
}

func TestAuthService_Login_DistinctTokens(t *testing.T) {
	creds := &mockCredentials{VerifyFn: func(string, string) (bool, error) { return true, nil }}
	svc := newAuthService(creds, &recordingEvents{})

	a, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	b, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct tokens per login")
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		verify    func(string, string) (bool, error)
		wantErr   error
		wantCalls int
	}{
		{name: "missing fields", username: "", password: "", wantErr: common.ErrMissingFields},
		{name: "wrong password", username: "eve", password: "wrong",
			verify: func(string, string) (bool, error) { return false, nil }, wantErr: common.ErrInvalidCredentials, wantCalls: 1},
		{name: "unknown user", username: "ghost", password: "pw", wantErr: common.ErrInvalidCredentials, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds := &mockCredentials{VerifyFn: tc.verify}
			events := &recordingEvents{}
			svc := newAuthService(creds, events)

			_, err := svc.Login(context.Background(), tc.username, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(creds.verifyCalls) != tc.wantCalls {
				t.Fatalf("expected %d Verify calls, got %d", tc.wantCalls, len(creds.verifyCalls))
			}
			if len(events.events) != 0 {
				t.Fatalf("no event expected on failure")
			}
		})
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repoErr := errors.New("query failed")
	creds := &mockCredentials{VerifyFn: func(string, string) (bool, error) { return false, repoErr }}
	svc := newAuthService(creds, &recordingEvents{})

	_, err := svc.Login(context.Background(), "john", "pw")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

// --- ParseToken tests ---

func TestAuthService_ParseToken_Malformed(t *testing.T) {
	svc := newAuthService(&mockCredentials{}, nil)
	_, err := svc.ParseToken("not-a-jwt")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for malformed token, got %v", err)
	}
}

func TestAuthService_ParseToken_InvalidSignature(t *testing.T) {
	svc := newAuthService(&mockCredentials{}, nil)

	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Data: "alice",
	})
	badToken, err := tk.SignedString([]byte("different-key"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(badToken); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected signature verification error, got %v", err)
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	creds := &mockCredentials{VerifyFn: func(string, string) (bool, error) { return true, nil }}
	svc := newAuthService(creds, nil)
	issued := time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.ParseToken(token); err != nil {
		t.Fatalf("token should still be valid before expiry: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	if _, err := svc.ParseToken(token); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestAuthService_ParseToken_MissingData(t *testing.T) {
	svc := newAuthService(&mockCredentials{}, nil)

	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	tokenStr, err := tk.SignedString([]byte("access"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(tokenStr); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for token without data, got %v", err)
	}
}

func TestAuthService_ParseToken_UnexpectedAlg(t *testing.T) {
	svc := newAuthService(&mockCredentials{}, nil)

	now := time.Now()

	// Generate RSA key for RS256 signing
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}

	tk := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Data: "mallory",
	})
	tokenStr, err := tk.SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(tokenStr); err == nil {
		t.Fatalf("expected error due to unexpected signing method")
	}
}

func TestNewAuthService_Defaults(t *testing.T) {
	svc := NewAuthService(&mockCredentials{}, nil, AuthConfig{})
	if string(svc.signingKey) != defaultSigningKey {
		t.Fatalf("expected default signing key, got %q", svc.signingKey)
	}
	if svc.tokenTTL != defaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", svc.tokenTTL)
	}
}

func TestAuthService_ParseToken_RequiresExpiry(t *testing.T) {
	svc := newAuthService(&mockCredentials{}, nil)

	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
		Data:             "alice",
	})
	tokenStr, err := tk.SignedString([]byte("access"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(tokenStr); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for token without exp, got %v", err)
	}
}

func TestAuthService_ParseToken_OnlyHS256(t *testing.T) {
	svc := newAuthService(&mockCredentials{}, nil)

	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Data: "alice",
	})
	tokenStr, err := tk.SignedString([]byte("access"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(tokenStr); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for HS512 token, got %v", err)
	}
}

func TestNewAuthService_ConfiguredClock(t *testing.T) {
	fixed := time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAuthService(&mockCredentials{}, nil, AuthConfig{Now: func() time.Time { return fixed }})

	if got := svc.now(); !got.Equal(fixed) {
		t.Fatalf("expected configured clock, got %v", got)
	}
}
