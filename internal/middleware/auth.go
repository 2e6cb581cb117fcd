package middleware

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth verifies the Clerk session token from the Authorization
// header and stores user id, role and permissions in the Echo context.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		))(
		func(c echo.Context) error {
			start := time.Now()

			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				GetLogger(c).Error().
					Str("function", "RequireAuth").
					Dur("duration", time.Since(start)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(UserRoleKey, claims.ActiveOrganizationRole)
			c.Set(PermissionsKey, claims.Claims.ActiveOrganizationPermissions)

			setLogger(c, GetLogger(c).With().
				Str("user_id", claims.Subject).
				Str("user_role", claims.ActiveOrganizationRole).
				Logger())

			GetLogger(c).Debug().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("user authenticated successfully")

			return next(c)
		})
}

// writeUnauthorized answers requests Clerk rejected, in the same shape the
// global error handler uses.
func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "RequireAuth").
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "RequireAuth").
		Str("path", r.URL.Path).
		Msg("request rejected: missing or invalid session token")
}

// RequirePermission rejects users whose active organization permissions do
// not include permission. It must run after RequireAuth.
func (auth *AuthMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetUserID(c) == "" {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			if !slices.Contains(GetPermissions(c), permission) {
				GetLogger(c).Warn().
					Str("permission", permission).
					Msg("permission denied")

				return errs.NewForbiddenError("You do not have permission to perform this action", true)
			}

			return next(c)
		}
	}
}
