package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
)

const (
	sessionContextKey = "session"
	clientContextKey  = "backendClient"
)

// SessionMiddleware bootstraps the session from the cookie store and binds a
// per-request backend client whose session-expired callback tears the session down.
//
// Bootstrap errors are swallowed: the session always settles Authenticated or
// Anonymous, and a failed validation clears the persisted pair.
func SessionMiddleware(store session.Store, client *backend.Client, logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			sess := session.New()

			token, usr, validated := store.Read(req)
			ok := sess.Bootstrap(token, usr, validated, func(tk string) error {
				return client.Auth.Validate(req.Context(), tk)
			})
			if !ok {
				if err := store.Clear(ctx.Response(), req); err != nil {
					logger.Warn("clearing session cookie", err)
				}
			} else if sess.Authenticated() && !validated {
				if err := store.MarkValidated(ctx.Response(), req); err != nil {
					logger.Warn("marking session validated", err)
				}
			}

			bound := client.WithSession(sess, func() {
				// at most one teardown per session, however many calls 401 concurrently
				sess.Expire(func() {
					if err := store.Clear(ctx.Response(), req); err != nil {
						logger.Warn("clearing session cookie", err)
					}
				})
			})

			ctx.Set(sessionContextKey, sess)
			ctx.Set(clientContextKey, bound)
			return next(ctx)
		}
	}
}

// ContextSession returns the request's session; never nil once SessionMiddleware ran.
func ContextSession(ctx echo.Context) *session.Session {
	if sess, ok := ctx.Get(sessionContextKey).(*session.Session); ok {
		return sess
	}
	return session.New()
}

// ContextClient returns the backend client bound to the request's session.
func ContextClient(ctx echo.Context) *backend.Client {
	client, _ := ctx.Get(clientContextKey).(*backend.Client)
	return client
}
