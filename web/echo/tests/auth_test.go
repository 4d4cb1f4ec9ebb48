package tests

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	testutil "github.com/darasahq/darasa-web/tests"
)

func Test_web_loginPage(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	app := setup(t, stub)

	rec := doReq(app, http.MethodGet, "/login", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	wantBody(t, rec, `action="/login"`, "Continue with Google")
}

func Test_web_login(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	app := setup(t, stub)

	tests := []struct {
		name         string
		path         string
		form         url.Values
		wantCode     int
		wantLocation string
		wantBody     string
	}{
		{
			name: "malformed email", path: "/login",
			form:     url.Values{"email": {"not-an-email"}, "password": {"x"}},
			wantCode: http.StatusBadRequest, wantBody: "email",
		},
		{
			name: "missing password", path: "/login",
			form:     url.Values{"email": {testEmail}},
			wantCode: http.StatusBadRequest, wantBody: "required",
		},
		{
			name: "backend rejects", path: "/login",
			form:     url.Values{"email": {testEmail}, "password": {"wrong"}},
			wantCode: http.StatusBadRequest, wantBody: "invalid credentials",
		},
		{
			name: "success", path: "/login",
			form:     url.Values{"email": {testEmail}, "password": {testPwd}},
			wantCode: http.StatusSeeOther, wantLocation: "/",
		},
		{
			name: "success honors next", path: "/login?next=%2Fcourses%2F5",
			form:     url.Values{"email": {testEmail}, "password": {testPwd}},
			wantCode: http.StatusSeeOther, wantLocation: "/courses/5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReq(app, http.MethodPost, tt.path, nil, tt.form)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
				if sessionCookie(rec) == nil {
					t.Error("no session cookie set")
				}
			}
			if tt.wantBody != "" {
				wantBody(t, rec, tt.wantBody)
			}
		})
	}
}

// A persisted token is validated once per browser session, not once per request.
func Test_web_bootstrapValidatesOnce(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	student := testutil.Student()
	auth := stubAuth(stub, student)
	app := setup(t, stub)

	cookies := login(t, app)
	if got := auth.Validations(); got != 0 {
		t.Fatalf("login itself validated %d times", got)
	}

	rec := doReq(app, http.MethodGet, "/profile", cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	wantBody(t, rec, student.Email)
	if got := auth.Validations(); got != 1 {
		t.Fatalf("first page load validated %d times, want 1", got)
	}

	// the validated flag is persisted; the next request skips the check
	cookies = mergeCookies(cookies, rec)
	rec = doReq(app, http.MethodGet, "/profile", cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if got := auth.Validations(); got != 1 {
		t.Errorf("second page load validated again (%d calls)", got)
	}
}

func Test_web_rejectedTokenClearsSession(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	auth := stubAuth(stub, testutil.Student())
	app := setup(t, stub)

	cookies := login(t, app)

	// invalidate the token server-side; the next bootstrap lands anonymous
	auth.Revoke()

	rec := doReq(app, http.MethodGet, "/profile", cookies, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("Location = %q, want the login route", loc)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge != -1 {
		t.Error("the persisted pair should have been cleared")
	}
}

// A 401 on any backend call mid-request tears the session down and redirects,
// preserving the requested path.
func Test_web_sessionExpiry(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	stub.Fail("/quizzes/1", http.StatusUnauthorized, "token expired")
	app := setup(t, stub)

	cookies := login(t, app)
	rec := doReq(app, http.MethodGet, "/quizzes/1", cookies, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fquizzes%2F1" {
		t.Errorf("Location = %q, want /login?next=%%2Fquizzes%%2F1", loc)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge != -1 {
		t.Error("the persisted pair should have been cleared")
	}
}

func Test_web_logout(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	app := setup(t, stub)

	cookies := login(t, app)
	rec := doReq(app, http.MethodPost, "/logout", cookies, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge != -1 {
		t.Error("logout should clear the session cookie")
	}
}

func Test_web_roleGating(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Student())
		app := setup(t, stub)

		for _, path := range []string{"/profile", "/teach", "/admin/users"} {
			rec := doReq(app, http.MethodGet, path, nil, nil)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("GET %s code = %d, want 303", path, rec.Code)
			}
			want := "/login?next=" + url.QueryEscape(path)
			if loc := rec.Header().Get("Location"); loc != want {
				t.Errorf("GET %s Location = %q, want %q", path, loc, want)
			}
		}
	})

	t.Run("student", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Student())
		app := setup(t, stub)
		cookies := login(t, app)

		for _, path := range []string{"/teach", "/admin/users"} {
			rec := doReq(app, http.MethodGet, path, cookies, nil)
			if rec.Code != http.StatusForbidden {
				t.Errorf("GET %s code = %d, want 403", path, rec.Code)
			}
		}
	})

	t.Run("instructor", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Instructor())
		stub.Reply("/courses", []interface{}{})
		stub.Reply("/categories", []interface{}{})
		app := setup(t, stub)
		cookies := login(t, app)

		rec := doReq(app, http.MethodGet, "/teach", cookies, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET /teach code = %d, want 200; body: %s", rec.Code, rec.Body.String())
		}
		rec = doReq(app, http.MethodGet, "/admin/users", cookies, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("GET /admin/users code = %d, want 403", rec.Code)
		}
	})

	t.Run("admin", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		admin := testutil.Admin()
		stubAuth(stub, admin)
		stub.Reply("/users", []interface{}{})
		app := setup(t, stub)
		cookies := login(t, app)

		rec := doReq(app, http.MethodGet, "/admin/users", cookies, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET /admin/users code = %d, want 200; body: %s", rec.Code, rec.Body.String())
		}
	})
}
