package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// Store persists the session's {token, user} pair between requests. Read never
// fails: a missing or malformed stored value is treated as absent.
type Store interface {
	Read(r *http.Request) (token string, usr *User, validated bool)
	Write(w http.ResponseWriter, r *http.Request, token string, usr *User) error
	MarkValidated(w http.ResponseWriter, r *http.Request) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

const (
	tokenKey     = "token"
	userKey      = "user"
	validatedKey = "validated"
)

// CookieStore keeps the pair in a signed cookie; the token and the JSON-serialized
// user record are the entirety of durable client state.
type CookieStore struct {
	name  string
	store *sessions.CookieStore
}

var _ Store = (*CookieStore)(nil)

func NewCookieStore(name string, secret []byte, maxAge time.Duration) *CookieStore {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{name: name, store: cs}
}

func (s *CookieStore) Read(r *http.Request) (string, *User, bool) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		// tampered or stale cookie; treat as absent
		return "", nil, false
	}

	token, _ := sess.Values[tokenKey].(string)
	data, _ := sess.Values[userKey].(string)
	if token == "" || data == "" {
		return "", nil, false
	}

	usr := new(User)
	if err := json.Unmarshal([]byte(data), usr); err != nil {
		return "", nil, false
	}
	validated, _ := sess.Values[validatedKey].(bool)
	return token, usr, validated
}

// Write persists the pair as the new source of truth, overwriting any prior value.
// The token is written non-validated; it gets re-checked against the backend on the
// next bootstrap, mirroring a fresh page load.
func (s *CookieStore) Write(w http.ResponseWriter, r *http.Request, token string, usr *User) error {
	data, err := json.Marshal(usr)
	if err != nil {
		return err
	}

	sess, _ := s.store.Get(r, s.name)
	sess.Values[tokenKey] = token
	sess.Values[userKey] = string(data)
	sess.Values[validatedKey] = false
	return sess.Save(r, w)
}

func (s *CookieStore) MarkValidated(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return err
	}
	sess.Values[validatedKey] = true
	return sess.Save(r, w)
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
