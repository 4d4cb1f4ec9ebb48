package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/darasahq/darasa-web/core"
)

type ModuleService struct {
	client *Client
}

// Module is a titled, ordered group of lessons within a course.
type Module struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type ModuleInput struct {
	CourseID int    `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Position int    `json:"position"`
}

func (mi *ModuleInput) Validate() error {
	mi.Title = core.CleanString(mi.Title)
	return core.Validate.Struct(mi)
}

func (s *ModuleService) ForCourse(ctx context.Context, courseID int) ([]Module, error) {
	modules := []Module{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("modules/course/%d", courseID), nil, nil, &modules)
	return modules, err
}

func (s *ModuleService) Create(ctx context.Context, in ModuleInput) (Module, error) {
	var module Module
	err := s.client.do(ctx, http.MethodPost, "modules", nil, in, &module)
	return module, err
}

func (s *ModuleService) Update(ctx context.Context, id int, in ModuleInput) (Module, error) {
	var module Module
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("modules/%d", id), nil, in, &module)
	return module, err
}

func (s *ModuleService) Delete(ctx context.Context, id int) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("modules/%d", id), nil, nil, nil)
}

// Reorder persists a new module ordering for a course.
func (s *ModuleService) Reorder(ctx context.Context, courseID int, moduleIDs []int) error {
	body := map[string]interface{}{"module_ids": moduleIDs}
	return s.client.do(ctx, http.MethodPut, fmt.Sprintf("modules/course/%d/reorder", courseID), nil, body, nil)
}
