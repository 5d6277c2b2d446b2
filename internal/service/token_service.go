package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/token-gate/internal/auth"
	"github.com/spec-kit/token-gate/internal/config"
	"github.com/spec-kit/token-gate/internal/ratelimit"
	apperrors "github.com/spec-kit/token-gate/pkg/util"
)

const minUsernameLength = 3

// TokenService validates issuance requests and produces signed tokens,
// gated by the rate governor.
type TokenService struct {
	codec    *auth.TokenCodec
	governor *ratelimit.Governor
}

// NewTokenService builds the service.
func NewTokenService(cfg config.Config, governor *ratelimit.Governor) *TokenService {
	return &TokenService{
		codec:    auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		governor: governor,
	}
}

// Issue validates the username, charges the caller's request budget and
// returns a signed token. clientKey identifies the caller, normally its
// network address. The rate budget is only charged after validation, and
// no token is created for a rejected caller.
func (s *TokenService) Issue(ctx context.Context, clientKey, rawUsername string) (string, time.Time, error) {
	username := strings.TrimSpace(rawUsername)
	if username == "" {
		return "", time.Time{}, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if len(username) < minUsernameLength {
		return "", time.Time{}, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "username",
			Message: "username must be at least 3 characters",
		})
	}

	decision, err := s.governor.Admit(ctx, clientKey)
	if err != nil {
		return "", time.Time{}, err
	}
	if !decision.Allowed {
		return "", time.Time{}, apperrors.NewRateLimited(decision.RetryAfter)
	}

	return s.codec.Encode(username)
}

// Codec exposes the underlying token codec for middleware usage.
func (s *TokenService) Codec() *auth.TokenCodec {
	return s.codec
}
