package backend

import (
	"context"
	"net/http"

	"github.com/darasahq/darasa-web/core"
)

type CategoryService struct {
	client *Client
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	err := s.client.do(ctx, http.MethodGet, "categories", nil, nil, &categories)
	return categories, err
}

func (s *CategoryService) Create(ctx context.Context, name string) (Category, error) {
	var category Category
	body := map[string]string{"name": core.CleanString(name)}
	err := s.client.do(ctx, http.MethodPost, "categories", nil, body, &category)
	return category, err
}
