package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/token-gate/pkg/util"
)

const subjectKey = "auth_subject"

const bearerPrefix = "Bearer"

// Guard validates bearer tokens and attaches the authenticated subject to
// the request.
type Guard struct {
	codec *TokenCodec
}

// NewGuard constructs the middleware.
func NewGuard(codec *TokenCodec) *Guard {
	return &Guard{codec: codec}
}

// Handle enforces authentication for protected routes.
//
// All decode failures surface as one generic message so a caller cannot
// tell a bad signature from an expired or mangled token.
func (g *Guard) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("Unauthorized: No token provided")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
		return apperrors.NewUnauthenticated("Unauthorized: No token provided")
	}

	claims, err := g.codec.Decode(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthenticated("Invalid or expired token")
	}
	if claims.Subject == "" {
		return apperrors.NewUnauthenticated("Invalid or expired token")
	}

	c.Locals(subjectKey, claims.Subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject.
func SubjectFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(subjectKey)
	if val == nil {
		return "", false
	}
	subject, ok := val.(string)
	return subject, ok && subject != ""
}
