package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargotrack/identity-service/internal/api/metrics"
	"github.com/cargotrack/identity-service/internal/core/ports"
)

// RequirePermission enforces that the authenticated principal's effective
// permission set contains the given system name. The set is resolved per
// request, so role and permission revocations apply without reissuing
// tokens.
func RequirePermission(resolver ports.PermissionResolver, systemName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			allowed, err := resolver.HasPermission(c.Request().Context(), userID, systemName)
			if err != nil {
				return err
			}
			if !allowed {
				metrics.PermissionDeniedTotal.WithLabelValues(systemName).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
