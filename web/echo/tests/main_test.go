package tests

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
	logsvc "github.com/darasahq/darasa-web/services/logger"
	testutil "github.com/darasahq/darasa-web/tests"
	echoweb "github.com/darasahq/darasa-web/web/echo"
)

const (
	testEmail = "a@b.com"
	testPwd   = "password123"
	testToken = "xyz"
)

var quietLogger = logsvc.NewConsoleLogger(log.New(ioutil.Discard, "", 0))

func TestMain(m *testing.M) {
	core.Conf.Set("debug", false)
	core.Conf.Set("testMode", true)
	os.Exit(m.Run())
}

func setup(t *testing.T, stub *testutil.StubBackend) echoweb.Server {
	t.Helper()
	client, err := backend.NewClient(&backend.Options{
		BaseURL: stub.BaseURL(),
		Timeout: 5 * time.Second,
		Logger:  quietLogger,
	})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	store := session.NewCookieStore("darasa_session", []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	return echoweb.NewServer(&echoweb.Options{
		DisableReqLogs: true,
		Client:         client,
		Store:          store,
		Logger:         quietLogger,
	})
}

// authStub tracks the stubbed auth endpoints' state.
type authStub struct {
	validations int32
	revoked     int32
}

func (a *authStub) Validations() int32 { return atomic.LoadInt32(&a.validations) }

// Revoke makes every subsequent validation fail, as if the token expired server-side.
func (a *authStub) Revoke() { atomic.StoreInt32(&a.revoked, 1) }

// stubAuth wires the login/validate/logout endpoints for usr.
func stubAuth(stub *testutil.StubBackend, usr session.User) *authStub {
	a := &authStub{}
	stub.Handle("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds backend.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPwd {
			testutil.WriteFailure(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		testutil.WriteSuccess(w, backend.AuthPayload{User: usr, Token: testToken})
	})
	stub.Handle("/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&a.validations, 1)
		if atomic.LoadInt32(&a.revoked) == 1 || testutil.BearerToken(r) != testToken {
			testutil.WriteFailure(w, http.StatusUnauthorized, "token expired")
			return
		}
		testutil.WriteSuccess(w, nil)
	})
	stub.Reply("/auth/logout", nil)
	return a
}

func doReq(app http.Handler, method, path string, cookies []*http.Cookie, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

// login drives the real login flow and returns the session cookies.
func login(t *testing.T, app http.Handler) []*http.Cookie {
	t.Helper()
	rec := doReq(app, http.MethodPost, "/login", nil, url.Values{"email": {testEmail}, "password": {testPwd}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login failed: code = %d, body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("login redirected to %q, want /", loc)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}
	return cookies
}

// mergeCookies applies the cookies set on rec over the current jar, keeping one
// cookie per name (the last written, as a browser would).
func mergeCookies(cookies []*http.Cookie, rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie)
	order := []string{}
	for _, c := range append(cookies, rec.Result().Cookies()...) {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	merged := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		merged = append(merged, byName[name])
	}
	return merged
}

// sessionCookie returns the last session cookie set on rec, the one a browser
// would keep when a response rewrites it more than once.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var last *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "darasa_session" {
			last = c
		}
	}
	return last
}

func wantBody(t *testing.T, rec *httptest.ResponseRecorder, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		if !strings.Contains(rec.Body.String(), s) {
			t.Errorf("body does not contain %q\nbody: %s", s, rec.Body.String())
		}
	}
}
