package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type recommendationPages struct{}

func RegisterRecommendationPages(e *echo.Echo) {
	pages := recommendationPages{}
	auth := helpers.RequireAuth()

	e.POST("/recommendations/track", pages.track, auth)
	e.GET("/preferences", pages.preferences, auth)
	e.POST("/preferences", pages.updatePreferences, auth)
}

// track reports a widget interaction; the widget fires these in the background so
// the response carries no body.
func (p recommendationPages) track(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.FormValue("course_id"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: "must be a number"})
	}
	action := core.CleanString(ctx.FormValue("action"), true /* lower */)
	switch action {
	case backend.InteractionView, backend.InteractionClick, backend.InteractionDismiss, backend.InteractionEnroll:
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "action", Error: "unknown action"})
	}
	if err := helpers.ContextClient(ctx).Recommendations.TrackInteraction(ctx.Request().Context(), courseID, action); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (p recommendationPages) preferences(ctx echo.Context) error {
	prefs, err := helpers.ContextClient(ctx).Recommendations.Preferences(ctx.Request().Context())
	if err := bestEffort(ctx, err); err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "preferences", viewData(ctx, echo.Map{"Preferences": prefs}))
}

func (p recommendationPages) updatePreferences(ctx echo.Context) error {
	if err := ctx.Request().ParseForm(); err != nil {
		return err
	}
	prefs := backend.Preferences{
		Topics: ctx.Request().PostForm["topic"],
		Level:  core.CleanString(ctx.FormValue("level"), true /* lower */),
		Goal:   core.CleanString(ctx.FormValue("goal")),
	}
	if _, err := helpers.ContextClient(ctx).Recommendations.UpdatePreferences(ctx.Request().Context(), prefs); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/preferences")
}
