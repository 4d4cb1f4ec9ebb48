package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/darasahq/darasa-web/core"
)

type CourseService struct {
	client *Client
}

type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   int       `json:"category_id"`
	Category     string    `json:"category"`
	InstructorID int       `json:"instructor_id"`
	Instructor   string    `json:"instructor"`
	Thumbnail    string    `json:"thumbnail"`
	Published    bool      `json:"published"`
	Enrolled     int       `json:"enrolled"`
	CreatedAt    time.Time `json:"created_at"`
}

// CourseInput is shared by create and update forms.
type CourseInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	CategoryID  int    `json:"category_id" validate:"required"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
}

func (ci *CourseInput) Validate() error {
	ci.Title = core.CleanString(ci.Title)
	ci.Description = core.CleanString(ci.Description)
	return core.Validate.Struct(ci)
}

type CourseFilter struct {
	Search     string
	CategoryID int
	Mine       bool // instructor's own courses
}

func (s *CourseService) List(ctx context.Context, filter CourseFilter) ([]Course, error) {
	query := make(url.Values)
	if filter.Search != "" {
		query.Set("search", core.CleanString(filter.Search))
	}
	if filter.CategoryID != 0 {
		query.Set("category", strconv.Itoa(filter.CategoryID))
	}
	if filter.Mine {
		query.Set("mine", "true")
	}
	courses := []Course{}
	err := s.client.do(ctx, http.MethodGet, "courses", query, nil, &courses)
	return courses, err
}

func (s *CourseService) Get(ctx context.Context, id int) (Course, error) {
	var course Course
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d", id), nil, nil, &course)
	return course, err
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (Course, error) {
	var course Course
	err := s.client.do(ctx, http.MethodPost, "courses", nil, in, &course)
	return course, err
}

func (s *CourseService) Update(ctx context.Context, id int, in CourseInput) (Course, error) {
	var course Course
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d", id), nil, in, &course)
	return course, err
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d", id), nil, nil, nil)
}

func (s *CourseService) Publish(ctx context.Context, id int) (Course, error) {
	var course Course
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d/publish", id), nil, nil, &course)
	return course, err
}
