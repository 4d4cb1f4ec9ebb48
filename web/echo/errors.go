package echoweb

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

// newAppHTTPErrorHandler returns an echo.HTTPErrorHandler that knows our errors.
// 401s coming back from the backend redirect to the login route (the session
// teardown already happened in the client wrapper); everything else renders the
// error page with the message and a retry link. signalShutdown is called whenever
// a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message string
		var fields map[string]string

		switch origErr := errors.Cause(err).(type) {
		case *backend.Error:
			switch origErr.Kind {
			case backend.KindUnauthorized:
				// skip the redirect when the failing page is the login route itself
				if ctx.Request().URL.Path == core.Conf.GetString("loginRoute") {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if rErr := helpers.LoginRedirect(ctx); rErr != nil {
					ctx.Echo().Logger.Error(rErr)
				}
				return
			case backend.KindForbidden:
				code = http.StatusForbidden
				message = origErr.Message
			case backend.KindNetwork:
				code = http.StatusBadGateway
				message = origErr.Message
			default:
				code = origErr.StatusCode
				if code < http.StatusBadRequest {
					code = http.StatusBadRequest
				}
				message = origErr.Message
			}
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fields[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = "please correct the highlighted fields"
		case *core.ValidationError:
			if origErr.Fields != nil {
				fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fields[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			args := []interface{}{errors.Wrap(err, message)}
			if usr := helpers.ContextSession(ctx).User(); usr != nil {
				args = append(args, *usr)
			}
			logger.Error(message, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		retry := ctx.Request().URL.RequestURI()
		if ctx.Request().Method != http.MethodGet {
			retry = ctx.Request().Referer()
		}
		rErr := ctx.Render(code, "error", echo.Map{
			"Session": helpers.ContextSession(ctx),
			"Message": message,
			"Fields":  fields,
			"Retry":   retry,
		})
		if rErr != nil {
			ctx.Echo().Logger.Error(rErr)
			if sErr := ctx.String(code, message); sErr != nil {
				ctx.Echo().Logger.Error(sErr)
			}
		}
	}
}
