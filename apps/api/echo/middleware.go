package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// principalMiddleware resolves the authenticated Principal from the verified
// JWT claims and stores it in the request context for handlers.
func principalMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			ctx.Set(contextPrincipalKey, principalFromClaims(claims))
			return next(ctx)
		}
	}
}
