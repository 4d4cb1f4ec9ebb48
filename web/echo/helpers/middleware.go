package helpers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/core"
)

var ForbiddenHTTPErr = echo.NewHTTPError(http.StatusForbidden, "permission denied")

// LoginRedirect sends the browser to the login route, preserving the requested path.
func LoginRedirect(ctx echo.Context) error {
	loginRoute := core.Conf.GetString("loginRoute")
	next := ctx.Request().URL.Path
	if next == "" || next == loginRoute {
		return ctx.Redirect(http.StatusSeeOther, loginRoute)
	}
	return ctx.Redirect(http.StatusSeeOther, loginRoute+"?next="+url.QueryEscape(next))
}

// RequireAuth redirects anonymous visitors to the login route.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !ContextSession(ctx).Authenticated() {
				return LoginRedirect(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireRoles gates a route to the given roles; anonymous visitors are sent to
// login, everyone else without a matching role gets 403.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess := ContextSession(ctx)
			if !sess.Authenticated() {
				return LoginRedirect(ctx)
			}
			for _, role := range roles {
				if sess.HasRole(role) {
					return next(ctx)
				}
			}
			return ForbiddenHTTPErr
		}
	}
}
