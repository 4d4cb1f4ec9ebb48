package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/darasahq/darasa-web/core/session"
)

// UserService exposes the admin user-management endpoints.
type UserService struct {
	client *Client
}

// Account is the admin view of a user record.
type Account struct {
	session.User
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

type ActivityEvent struct {
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

type UserStats struct {
	Total       int `json:"total"`
	Students    int `json:"students"`
	Instructors int `json:"instructors"`
	Admins      int `json:"admins"`
	ActiveToday int `json:"active_today"`
}

func (s *UserService) List(ctx context.Context) ([]Account, error) {
	accounts := []Account{}
	err := s.client.do(ctx, http.MethodGet, "users", nil, nil, &accounts)
	return accounts, err
}

// Search does a case-insensitive match on name or email.
func (s *UserService) Search(ctx context.Context, q string) ([]Account, error) {
	accounts := []Account{}
	err := s.client.do(ctx, http.MethodGet, "users/search", url.Values{"q": {q}}, nil, &accounts)
	return accounts, err
}

// SetRole promotes or demotes a user to the given role.
func (s *UserService) SetRole(ctx context.Context, id int, role string) (Account, error) {
	var account Account
	body := map[string]string{"role": role}
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("users/%d/role", id), nil, body, &account)
	return account, err
}

func (s *UserService) Activity(ctx context.Context, id int) ([]ActivityEvent, error) {
	events := []ActivityEvent{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("users/%d/activity", id), nil, nil, &events)
	return events, err
}

func (s *UserService) Stats(ctx context.Context) (UserStats, error) {
	var stats UserStats
	err := s.client.do(ctx, http.MethodGet, "users/stats", nil, nil, &stats)
	return stats, err
}
