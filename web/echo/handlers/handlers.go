package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

var errHTTPNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, errHTTPNotFound
	}
	return id, nil
}

// viewData injects the session into every template's data map.
func viewData(ctx echo.Context, data echo.Map) echo.Map {
	if data == nil {
		data = echo.Map{}
	}
	data["Session"] = helpers.ContextSession(ctx)
	return data
}

// bestEffort swallows a sub-fetch error so the page renders with partial data.
// Authentication failures still bubble so the login redirect happens.
func bestEffort(ctx echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if backend.IsUnauthorized(err) {
		return err
	}
	ctx.Logger().Warnf("partial page data: %v", err)
	return nil
}

// fieldErrors flattens a validation error into per-field messages for inline display.
func fieldErrors(err error) (map[string]string, bool) {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fields := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fields[vErr.Field()] = vErr.Translate(core.Translator)
		}
		return fields, true
	case *core.ValidationError:
		fields := make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			fields[fErr.Field] = fErr.Error
		}
		return fields, true
	}
	return nil, false
}

// errMessage extracts the user-facing message from a backend error; other errors
// are not meant for end users.
func errMessage(err error) string {
	var bErr *backend.Error
	if errors.As(err, &bErr) {
		return bErr.Message
	}
	return "something went wrong, please try again"
}
