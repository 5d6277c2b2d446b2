package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-gate/internal/api/dto"
	"github.com/spec-kit/token-gate/internal/observability"
	"github.com/spec-kit/token-gate/internal/service"
	apperrors "github.com/spec-kit/token-gate/pkg/util"
)

// TokenHandler exposes the token issuance endpoint.
type TokenHandler struct {
	tokens  *service.TokenService
	metrics *observability.Metrics
}

// NewTokenHandler constructs handler.
func NewTokenHandler(tokens *service.TokenService, metrics *observability.Metrics) *TokenHandler {
	return &TokenHandler{tokens: tokens, metrics: metrics}
}

// Issue handles POST /token.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(apperrors.FieldError{
			Field:   "body",
			Message: "invalid request payload",
		})
	}

	token, _, err := h.tokens.Issue(c.UserContext(), c.IP(), req.Username)
	if err != nil {
		if domainErr := apperrors.ToDomainError(err); domainErr.Code == "RATE_LIMIT_EXCEEDED" {
			h.metrics.RecordRateLimited(c.IP())
		}
		return err
	}

	h.metrics.RecordIssuance()
	return c.Status(http.StatusOK).JSON(dto.TokenResponse{AccessToken: token})
}
