package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-gate/internal/auth"
	apperrors "github.com/spec-kit/token-gate/pkg/util"
)

// SecureHandler serves the resource gated behind token verification.
type SecureHandler struct{}

// NewSecureHandler returns a new handler instance.
func NewSecureHandler() *SecureHandler {
	return &SecureHandler{}
}

// Get handles GET /secure-data. The route must sit behind auth.Guard, which
// guarantees a non-empty subject in the request locals.
func (h *SecureHandler) Get(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("Unauthorized: No token provided")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Hello, %s!", subject),
	})
}
