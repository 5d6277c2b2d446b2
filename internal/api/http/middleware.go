package http

import (
	"context"
	"errors"
	"math"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/token-gate/internal/observability"
	apperrors "github.com/spec-kit/token-gate/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(cors.New())
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware maps application errors to response bodies.
// Validation failures render a per-field errors list; everything else
// renders a single message.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				c.Status(fiberErr.Code)
				_ = c.JSON(fiber.Map{"message": fiberErr.Message})
				err = nil
				return
			}

			domainErr := apperrors.ToDomainError(err)
			if metrics != nil {
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			}
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed", zap.Error(domainErr))
			}
			if domainErr.RetryAfter > 0 {
				seconds := int(math.Ceil(domainErr.RetryAfter.Seconds()))
				c.Set("Retry-After", strconv.Itoa(seconds))
			}

			c.Status(domainErr.HTTPStatus)
			if len(domainErr.Fields) > 0 {
				_ = c.JSON(fiber.Map{"errors": domainErr.Fields})
			} else {
				_ = c.JSON(fiber.Map{"message": domainErr.Message})
			}
			err = nil
		}()
		return c.Next()
	}
}
