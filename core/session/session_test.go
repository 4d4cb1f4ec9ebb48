package session

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestSession_Bootstrap(t *testing.T) {
	usr := &User{ID: 1, Name: "Awa", Email: "awa@test.cd", Role: RoleStudent}

	tests := []struct {
		name        string
		token       string
		usr         *User
		validated   bool
		validateErr error
		wantOK      bool
		wantState   State
		wantCalls   int
	}{
		{name: "no persisted pair", wantOK: true, wantState: Anonymous},
		{name: "token without user", token: "xyz", wantOK: false, wantState: Anonymous},
		{name: "user without token", usr: usr, wantOK: false, wantState: Anonymous},
		{name: "validated pair skips the check", token: "xyz", usr: usr, validated: true, wantOK: true, wantState: Authenticated},
		{name: "fresh pair validates once", token: "xyz", usr: usr, wantOK: true, wantState: Authenticated, wantCalls: 1},
		{name: "rejected token", token: "xyz", usr: usr, validateErr: errors.New("token expired"), wantOK: false, wantState: Anonymous, wantCalls: 1},
		{name: "network error during validation", token: "xyz", usr: usr, validateErr: errors.New("connection refused"), wantOK: false, wantState: Anonymous, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := New()
			if !sess.Loading() {
				t.Error("new session should be bootstrapping")
			}

			calls := 0
			ok := sess.Bootstrap(tt.token, tt.usr, tt.validated, func(token string) error {
				calls++
				if token != tt.token {
					t.Errorf("validate got token %q, want %q", token, tt.token)
				}
				return tt.validateErr
			})

			if ok != tt.wantOK {
				t.Errorf("Bootstrap() = %v, want %v", ok, tt.wantOK)
			}
			if sess.State() != tt.wantState {
				t.Errorf("State() = %v, want %v", sess.State(), tt.wantState)
			}
			if calls != tt.wantCalls {
				t.Errorf("validate called %d times, want %d", calls, tt.wantCalls)
			}
			if sess.Loading() {
				t.Error("session should have settled")
			}
		})
	}
}

func TestSession_LoginLogout(t *testing.T) {
	sess := New()
	usr := User{ID: 7, Name: "Imani", Email: "imani@test.cd", Role: RoleInstructor}

	sess.Login(usr, "tok-7")
	if !sess.Authenticated() {
		t.Fatal("session should be authenticated after Login()")
	}
	if got := sess.Token(); got != "tok-7" {
		t.Errorf("Token() = %q, want %q", got, "tok-7")
	}
	if got := sess.User(); got == nil || got.Email != usr.Email {
		t.Errorf("User() = %+v, want %+v", got, usr)
	}

	// User() hands out a copy; mutating it must not leak back
	cp := sess.User()
	cp.Role = RoleAdmin
	if sess.IsAdmin() {
		t.Error("mutating the User() copy changed the session")
	}

	sess.Logout()
	if sess.Authenticated() {
		t.Error("session should be anonymous after Logout()")
	}
	if sess.Token() != "" || sess.User() != nil {
		t.Error("Logout() should null the token/user pair")
	}
}

func TestSession_UpdateUser(t *testing.T) {
	sess := New()

	// ignored while anonymous
	sess.Bootstrap("", nil, false, nil)
	sess.UpdateUser(User{ID: 1, Name: "Ghost"})
	if sess.User() != nil {
		t.Error("UpdateUser() should be a no-op on an anonymous session")
	}

	sess = New()
	sess.Login(User{ID: 1, Name: "Awa", Role: RoleStudent}, "xyz")
	sess.UpdateUser(User{ID: 1, Name: "Awa Renamed", Role: RoleStudent})
	if got := sess.User(); got.Name != "Awa Renamed" {
		t.Errorf("User().Name = %q, want %q", got.Name, "Awa Renamed")
	}
	if got := sess.Token(); got != "xyz" {
		t.Errorf("UpdateUser() touched the token: %q", got)
	}
}

func TestSession_Expire_once(t *testing.T) {
	sess := New()
	sess.Login(User{ID: 1, Role: RoleStudent}, "xyz")

	var mu sync.Mutex
	calls := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Expire(func() {
				mu.Lock()
				calls++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("Expire() side effects ran %d times, want 1", calls)
	}
	if sess.Authenticated() {
		t.Error("session should be anonymous after Expire()")
	}
}

func TestSession_roles(t *testing.T) {
	tests := []struct {
		role                            string
		isStudent, isInstructor, isAdmin bool
	}{
		{role: RoleStudent, isStudent: true},
		{role: RoleInstructor, isInstructor: true},
		{role: RoleAdmin, isAdmin: true},
		{role: ""},
		{role: "superuser"},
	}
	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			sess := New()
			sess.Login(User{ID: 1, Role: tt.role}, "xyz")
			if sess.IsStudent() != tt.isStudent {
				t.Errorf("IsStudent() = %v, want %v", sess.IsStudent(), tt.isStudent)
			}
			if sess.IsInstructor() != tt.isInstructor {
				t.Errorf("IsInstructor() = %v, want %v", sess.IsInstructor(), tt.isInstructor)
			}
			if sess.IsAdmin() != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", sess.IsAdmin(), tt.isAdmin)
			}
		})
	}

	// anonymous sessions never carry a role
	sess := New()
	sess.Bootstrap("", nil, false, nil)
	if sess.HasRole(RoleStudent) || sess.IsAdmin() {
		t.Error("anonymous session reported a role")
	}
}
