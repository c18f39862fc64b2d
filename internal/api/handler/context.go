package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargotrack/identity-service/internal/api/middleware"
)

// ctxUserID extracts the authenticated principal's id injected by the Auth
// middleware. Its presence proves the middleware ran; a protected handler
// reached without it is a wiring error, rejected with 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
