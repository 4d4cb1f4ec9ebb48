package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core/session"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type authPages struct {
	store session.Store
}

func RegisterAuthPages(e *echo.Echo, store session.Store) {
	pages := authPages{store: store}

	e.GET("/login", pages.loginForm)
	e.POST("/login", pages.login)
	e.GET("/register", pages.registerForm)
	e.POST("/register", pages.register)
	e.GET("/auth/google/callback", pages.googleCallback)
	e.POST("/logout", pages.logout)

	e.GET("/profile", pages.profile, helpers.RequireAuth())
	e.POST("/profile", pages.updateProfile, helpers.RequireAuth())
	e.POST("/profile/password", pages.changePassword, helpers.RequireAuth())
}

func (p *authPages) renderLogin(ctx echo.Context, code int, email string, err error) error {
	data := echo.Map{"Email": email, "Next": ctx.QueryParam("next")}
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			data["Fields"] = fields
		} else {
			data["Error"] = errMessage(err)
		}
	}
	if googleURL := helpers.ContextClient(ctx).Auth.GoogleLoginURL(); googleURL != "" {
		data["GoogleURL"] = googleURL
	}
	return ctx.Render(code, "login", viewData(ctx, data))
}

func (p *authPages) loginForm(ctx echo.Context) error {
	if helpers.ContextSession(ctx).Authenticated() {
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	return p.renderLogin(ctx, http.StatusOK, "", nil)
}

// startSession persists the token/user pair and flips the session to Authenticated.
func (p *authPages) startSession(ctx echo.Context, usr session.User, token string) error {
	sess := helpers.ContextSession(ctx)
	sess.Login(usr, token)
	return p.store.Write(ctx.Response(), ctx.Request(), token, &usr)
}

func (p *authPages) login(ctx echo.Context) error {
	creds := backend.Credentials{
		Email:    ctx.FormValue("email"),
		Password: ctx.FormValue("password"),
	}
	if err := creds.Validate(); err != nil {
		return p.renderLogin(ctx, http.StatusBadRequest, creds.Email, err)
	}

	payload, err := helpers.ContextClient(ctx).Auth.Login(ctx.Request().Context(), creds)
	if err != nil {
		if kind := backend.KindOf(err); kind != 0 && kind != backend.KindNetwork {
			return p.renderLogin(ctx, http.StatusBadRequest, creds.Email, err)
		}
		return err
	}
	if err := p.startSession(ctx, payload.User, payload.Token); err != nil {
		return err
	}

	if next := ctx.QueryParam("next"); next != "" && next[0] == '/' {
		return ctx.Redirect(http.StatusSeeOther, next)
	}
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (p *authPages) registerForm(ctx echo.Context) error {
	if helpers.ContextSession(ctx).Authenticated() {
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	return ctx.Render(http.StatusOK, "register", viewData(ctx, nil))
}

func (p *authPages) register(ctx echo.Context) error {
	account := backend.NewAccount{
		Name:            ctx.FormValue("name"),
		Email:           ctx.FormValue("email"),
		Password:        ctx.FormValue("password"),
		PasswordConfirm: ctx.FormValue("password_confirm"),
	}
	renderErr := func(err error) error {
		data := echo.Map{"Name": account.Name, "Email": account.Email}
		if fields, ok := fieldErrors(err); ok {
			data["Fields"] = fields
		} else {
			data["Error"] = errMessage(err)
		}
		return ctx.Render(http.StatusBadRequest, "register", viewData(ctx, data))
	}

	if err := account.Validate(); err != nil {
		return renderErr(err)
	}
	payload, err := helpers.ContextClient(ctx).Auth.Register(ctx.Request().Context(), account)
	if err != nil {
		if kind := backend.KindOf(err); kind != 0 && kind != backend.KindNetwork {
			return renderErr(err)
		}
		return err
	}
	if err := p.startSession(ctx, payload.User, payload.Token); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/")
}

// googleCallback receives the token minted by the backend's OAuth exchange. The
// payload decode is a convenience read for display fields; the token gets properly
// validated on the next bootstrap.
func (p *authPages) googleCallback(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if token == "" {
		return helpers.LoginRedirect(ctx)
	}
	usr, err := helpers.DecodeTokenUser(token)
	if err != nil {
		ctx.Logger().Warnf("oauth callback: %v", err)
		return helpers.LoginRedirect(ctx)
	}
	if err := p.startSession(ctx, usr, token); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/")
}

// logout calls the backend best-effort; the local teardown proceeds regardless.
func (p *authPages) logout(ctx echo.Context) error {
	if err := helpers.ContextClient(ctx).Auth.Logout(ctx.Request().Context()); err != nil {
		ctx.Logger().Warnf("backend logout: %v", err)
	}
	helpers.ContextSession(ctx).Logout()
	if err := p.store.Clear(ctx.Response(), ctx.Request()); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

func (p *authPages) profile(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "profile", viewData(ctx, nil))
}

func (p *authPages) updateProfile(ctx echo.Context) error {
	update := backend.ProfileUpdate{
		Name:   ctx.FormValue("name"),
		Avatar: ctx.FormValue("avatar"),
	}
	renderErr := func(code int, err error) error {
		data := echo.Map{}
		if fields, ok := fieldErrors(err); ok {
			data["Fields"] = fields
		} else {
			data["Error"] = errMessage(err)
		}
		return ctx.Render(code, "profile", viewData(ctx, data))
	}

	if err := update.Validate(); err != nil {
		return renderErr(http.StatusBadRequest, err)
	}
	usr, err := helpers.ContextClient(ctx).Auth.UpdateProfile(ctx.Request().Context(), update)
	if err != nil {
		if kind := backend.KindOf(err); kind == backend.KindRequest || kind == backend.KindForbidden {
			return renderErr(http.StatusBadRequest, err)
		}
		return err
	}

	// replace the user record in place; the token is untouched
	sess := helpers.ContextSession(ctx)
	sess.UpdateUser(usr)
	if err := p.store.Write(ctx.Response(), ctx.Request(), sess.Token(), &usr); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/profile")
}

func (p *authPages) changePassword(ctx echo.Context) error {
	change := backend.PasswordChange{
		Current:         ctx.FormValue("current_password"),
		Password:        ctx.FormValue("password"),
		PasswordConfirm: ctx.FormValue("password_confirm"),
	}
	if err := change.Validate(); err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Auth.ChangePassword(ctx.Request().Context(), change); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/profile")
}
