package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/token-gate/internal/config"
	"github.com/spec-kit/token-gate/internal/ratelimit"
	apperrors "github.com/spec-kit/token-gate/pkg/util"
)

func newTestService(t *testing.T, max int) *TokenService {
	t.Helper()

	governor, err := ratelimit.NewGovernor(ratelimit.NewMemoryStore(), time.Minute, max)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTLMinutes: 60},
	}
	return NewTokenService(cfg, governor)
}

func TestTokenService_ValidatesUsername(t *testing.T) {
	svc := newTestService(t, 100)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "empty", username: "", wantErr: true},
		{name: "whitespace only", username: "  ", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "minimum length", username: "abc", wantErr: false},
		{name: "padded valid", username: "  alice  ", wantErr: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, err := svc.Issue(ctx, "10.0.0.1", tc.username)
			if tc.wantErr {
				var domainErr *apperrors.DomainError
				if !errors.As(err, &domainErr) {
					t.Fatalf("expected DomainError, got %v", err)
				}
				if domainErr.Code != "VALIDATION_FAILED" {
					t.Fatalf("expected VALIDATION_FAILED, got %s", domainErr.Code)
				}
				if len(domainErr.Fields) != 1 || domainErr.Fields[0].Field != "username" {
					t.Fatalf("expected a username field error, got %+v", domainErr.Fields)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" {
				t.Fatal("expected non-empty token")
			}
		})
	}
}

func TestTokenService_TrimsSubject(t *testing.T) {
	svc := newTestService(t, 100)

	token, _, err := svc.Issue(context.Background(), "10.0.0.1", "  alice  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.Codec().Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected trimmed subject alice, got %q", claims.Subject)
	}
}

func TestTokenService_RateLimitsPerClient(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()

	if _, _, err := svc.Issue(ctx, "10.0.0.1", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err := svc.Issue(ctx, "10.0.0.1", "alice")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("expected RATE_LIMIT_EXCEEDED, got %v", err)
	}

	// A different client key still has its own budget.
	if _, _, err := svc.Issue(ctx, "10.0.0.2", "alice"); err != nil {
		t.Fatalf("unexpected error for second client: %v", err)
	}
}

func TestTokenService_ValidationRunsBeforeRateCheck(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()

	// Invalid requests must not charge the budget.
	for i := 0; i < 3; i++ {
		if _, _, err := svc.Issue(ctx, "10.0.0.1", "ab"); err == nil {
			t.Fatal("expected validation error")
		}
	}

	if _, _, err := svc.Issue(ctx, "10.0.0.1", "alice"); err != nil {
		t.Fatalf("expected budget untouched by invalid requests, got %v", err)
	}
}
