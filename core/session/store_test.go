package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestStore() *CookieStore {
	return NewCookieStore("darasa_test", []byte("0123456789abcdef0123456789abcdef"), 24*time.Hour)
}

// replay builds a request carrying the cookies set on rec.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCookieStore_roundTrip(t *testing.T) {
	store := newTestStore()
	usr := &User{ID: 1, Name: "Awa", Email: "awa@test.cd", Role: RoleStudent}

	rec := httptest.NewRecorder()
	if err := store.Write(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "xyz", usr); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	token, got, validated := store.Read(replay(rec))
	if token != "xyz" {
		t.Errorf("token = %q, want %q", token, "xyz")
	}
	if got == nil || *got != *usr {
		t.Errorf("user = %+v, want %+v", got, usr)
	}
	if validated {
		t.Error("a freshly written pair must read back non-validated")
	}
}

func TestCookieStore_markValidated(t *testing.T) {
	store := newTestStore()
	usr := &User{ID: 1, Email: "awa@test.cd", Role: RoleStudent}

	rec := httptest.NewRecorder()
	if err := store.Write(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "xyz", usr); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	rec2 := httptest.NewRecorder()
	if err := store.MarkValidated(rec2, replay(rec)); err != nil {
		t.Fatalf("MarkValidated() failed: %v", err)
	}

	token, _, validated := store.Read(replay(rec2))
	if token != "xyz" {
		t.Errorf("token = %q, want %q", token, "xyz")
	}
	if !validated {
		t.Error("pair should read back validated")
	}
}

func TestCookieStore_clear(t *testing.T) {
	store := newTestStore()
	usr := &User{ID: 1, Email: "awa@test.cd"}

	rec := httptest.NewRecorder()
	if err := store.Write(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "xyz", usr); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	rec2 := httptest.NewRecorder()
	if err := store.Clear(rec2, replay(rec)); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	// expiry goes out on the wire
	cookies := rec2.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge != -1 {
		t.Error("Clear() should expire the cookie")
	}

	token, got, _ := store.Read(replay(rec2))
	if token != "" || got != nil {
		t.Errorf("Read() after Clear() = (%q, %+v), want absent", token, got)
	}
}

func TestCookieStore_absentOrTampered(t *testing.T) {
	store := newTestStore()

	// no cookie at all
	token, usr, validated := store.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	if token != "" || usr != nil || validated {
		t.Error("Read() without a cookie should report absent")
	}

	// cookie signed with a different key
	other := NewCookieStore("darasa_test", []byte("ffffffffffffffffffffffffffffffff"), 24*time.Hour)
	rec := httptest.NewRecorder()
	if err := other.Write(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "xyz", &User{ID: 1}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	token, usr, _ = store.Read(replay(rec))
	if token != "" || usr != nil {
		t.Error("Read() of a foreign-signed cookie should report absent")
	}
}
