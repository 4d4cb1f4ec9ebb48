package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/darasahq/darasa-web/core"
)

type LessonService struct {
	client *Client
}

type Lesson struct {
	ID        int    `json:"id"`
	ModuleID  int    `json:"module_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	VideoURL  string `json:"video_url"`
	Duration  int    `json:"duration"` // minutes
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`
}

type LessonInput struct {
	ModuleID int    `json:"module_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url" validate:"omitempty,url"`
	Duration int    `json:"duration" validate:"omitempty,gte=0"`
	Position int    `json:"position"`
}

func (li *LessonInput) Validate() error {
	li.Title = core.CleanString(li.Title)
	return core.Validate.Struct(li)
}

// Adjacency points at the previous/next lessons in course order; nil at the edges.
type Adjacency struct {
	Prev *Lesson `json:"prev"`
	Next *Lesson `json:"next"`
}

func (s *LessonService) ForModule(ctx context.Context, moduleID int) ([]Lesson, error) {
	lessons := []Lesson{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("lessons/module/%d", moduleID), nil, nil, &lessons)
	return lessons, err
}

func (s *LessonService) Get(ctx context.Context, id int) (Lesson, error) {
	var lesson Lesson
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("lessons/%d", id), nil, nil, &lesson)
	return lesson, err
}

func (s *LessonService) Create(ctx context.Context, in LessonInput) (Lesson, error) {
	var lesson Lesson
	err := s.client.do(ctx, http.MethodPost, "lessons", nil, in, &lesson)
	return lesson, err
}

func (s *LessonService) Update(ctx context.Context, id int, in LessonInput) (Lesson, error) {
	var lesson Lesson
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("lessons/%d", id), nil, in, &lesson)
	return lesson, err
}

func (s *LessonService) Delete(ctx context.Context, id int) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("lessons/%d", id), nil, nil, nil)
}

// Complete marks the lesson done for the current user.
func (s *LessonService) Complete(ctx context.Context, id int) error {
	return s.client.do(ctx, http.MethodPost, fmt.Sprintf("lessons/%d/complete", id), nil, nil, nil)
}

func (s *LessonService) Adjacent(ctx context.Context, id int) (Adjacency, error) {
	var adj Adjacency
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("lessons/%d/adjacent", id), nil, nil, &adj)
	return adj, err
}
