package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type adminPages struct{}

// RegisterAdminPages mounts the user-management dashboards.
func RegisterAdminPages(e *echo.Echo) {
	pages := adminPages{}
	g := e.Group("/admin", helpers.RequireRoles(session.RoleAdmin))

	g.GET("/users", pages.users)
	g.POST("/users/:id/role", pages.setRole)
	g.GET("/users/:id/activity", pages.activity)
	g.GET("/stats", pages.stats)
}

func (p adminPages) users(ctx echo.Context) error {
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	q := core.CleanString(ctx.QueryParam("q"))
	accounts, err := client.Users.List(reqCtx)
	if q != "" {
		accounts, err = client.Users.Search(reqCtx, q)
	}
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "admin_users", viewData(ctx, echo.Map{
		"Accounts": accounts,
		"Query":    q,
		"Roles":    session.AllRoles,
	}))
}

// setRole promotes or demotes a user.
func (p adminPages) setRole(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	role := core.CleanString(ctx.FormValue("role"), true /* lower */)
	valid := false
	for _, known := range session.AllRoles {
		if role == known {
			valid = true
			break
		}
	}
	if !valid {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	if _, err := helpers.ContextClient(ctx).Users.SetRole(ctx.Request().Context(), id, role); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/admin/users")
}

func (p adminPages) activity(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	events, err := helpers.ContextClient(ctx).Users.Activity(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "admin_activity", viewData(ctx, echo.Map{
		"UserID": id,
		"Events": events,
	}))
}

func (p adminPages) stats(ctx echo.Context) error {
	stats, err := helpers.ContextClient(ctx).Users.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "admin_stats", viewData(ctx, echo.Map{"Stats": stats}))
}
