package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/darasahq/darasa-web/core"
)

type AssignmentService struct {
	client *Client
}

type Assignment struct {
	ID          int        `json:"id"`
	LessonID    int        `json:"lesson_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MaxGrade    float64    `json:"max_grade"`
	DueDate     *time.Time `json:"due_date"`
}

type AssignmentInput struct {
	LessonID    int        `json:"lesson_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	MaxGrade    float64    `json:"max_grade" validate:"gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

func (ai *AssignmentInput) Validate() error {
	ai.Title = core.CleanString(ai.Title)
	return core.Validate.Struct(ai)
}

func (s *AssignmentService) ForLesson(ctx context.Context, lessonID int) ([]Assignment, error) {
	assignments := []Assignment{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("assignments/lesson/%d", lessonID), nil, nil, &assignments)
	return assignments, err
}

func (s *AssignmentService) Get(ctx context.Context, id int) (Assignment, error) {
	var assignment Assignment
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("assignments/%d", id), nil, nil, &assignment)
	return assignment, err
}

func (s *AssignmentService) Create(ctx context.Context, in AssignmentInput) (Assignment, error) {
	var assignment Assignment
	err := s.client.do(ctx, http.MethodPost, "assignments", nil, in, &assignment)
	return assignment, err
}

func (s *AssignmentService) Update(ctx context.Context, id int, in AssignmentInput) (Assignment, error) {
	var assignment Assignment
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("assignments/%d", id), nil, in, &assignment)
	return assignment, err
}

func (s *AssignmentService) Delete(ctx context.Context, id int) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("assignments/%d", id), nil, nil, nil)
}

// Submit uploads the student's work as a multipart request; same contract as the
// JSON calls otherwise.
func (s *AssignmentService) Submit(ctx context.Context, id int, comment, filename string, file io.Reader) (Submission, error) {
	var submission Submission
	fields := map[string]string{"comment": core.CleanString(comment)}
	err := s.client.upload(ctx, http.MethodPost, fmt.Sprintf("assignments/%d/submit", id), fields, "file", filename, file, &submission)
	return submission, err
}
