package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darasahq/darasa-web/core/session"
)

// StubBackend is an in-process API double speaking the response envelope the
// real backend uses. Handlers are registered per path; unregistered paths
// return 404 failures so tests notice unexpected calls.
type StubBackend struct {
	*httptest.Server
	mux *http.ServeMux
}

func NewStubBackend(t *testing.T) *StubBackend {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &StubBackend{Server: srv, mux: mux}
}

// BaseURL is what backend.Options.BaseURL should be set to.
func (b *StubBackend) BaseURL() string { return b.Server.URL }

func (b *StubBackend) Handle(pattern string, h http.HandlerFunc) {
	b.mux.HandleFunc(pattern, h)
}

// Reply registers a handler that always succeeds with the given data.
func (b *StubBackend) Reply(pattern string, data interface{}) {
	b.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteSuccess(w, data)
	})
}

// Fail registers a handler that always fails with the given status and message.
func (b *StubBackend) Fail(pattern string, status int, message string) {
	b.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteFailure(w, status, message)
	})
}

// WriteSuccess writes a {success: true} envelope around data.
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// WriteFailure writes a {success: false} envelope with the given status.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// BearerToken extracts the token from an Authorization header; "" if absent.
func BearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// User fixtures

func Student() session.User {
	return session.User{ID: 1, Name: "Awa Student", Email: "awa@test.cd", Role: session.RoleStudent}
}

func Instructor() session.User {
	return session.User{ID: 2, Name: "Imani Instructor", Email: "imani@test.cd", Role: session.RoleInstructor}
}

func Admin() session.User {
	return session.User{ID: 3, Name: "Amani Admin", Email: "amani@test.cd", Role: session.RoleAdmin}
}
