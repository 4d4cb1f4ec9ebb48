package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/darasahq/darasa-web/core"
)

type SubmissionService struct {
	client *Client
}

type Submission struct {
	ID           int       `json:"id"`
	AssignmentID int       `json:"assignment_id"`
	UserID       int       `json:"user_id"`
	UserName     string    `json:"user_name"`
	FileURL      string    `json:"file_url"`
	Comment      string    `json:"comment"`
	Grade        *float64  `json:"grade"`
	Feedback     string    `json:"feedback"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type GradeInput struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

func (gi *GradeInput) Validate() error {
	gi.Feedback = core.CleanString(gi.Feedback)
	return core.Validate.Struct(gi)
}

// BulkGradeInput grades one submission within a bulk-grading call.
type BulkGradeInput struct {
	SubmissionID int     `json:"submission_id" validate:"required"`
	Grade        float64 `json:"grade" validate:"gte=0"`
	Feedback     string  `json:"feedback"`
}

func (s *SubmissionService) ForAssignment(ctx context.Context, assignmentID int) ([]Submission, error) {
	subs := []Submission{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("submissions/assignment/%d", assignmentID), nil, nil, &subs)
	return subs, err
}

// Mine lists the current user's submissions.
func (s *SubmissionService) Mine(ctx context.Context) ([]Submission, error) {
	subs := []Submission{}
	err := s.client.do(ctx, http.MethodGet, "submissions/me", nil, nil, &subs)
	return subs, err
}

func (s *SubmissionService) Grade(ctx context.Context, id int, in GradeInput) (Submission, error) {
	var sub Submission
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("submissions/%d/grade", id), nil, in, &sub)
	return sub, err
}

// BulkGrade grades several submissions in one call.
func (s *SubmissionService) BulkGrade(ctx context.Context, ins []BulkGradeInput) ([]Submission, error) {
	subs := []Submission{}
	body := map[string]interface{}{"grades": ins}
	err := s.client.do(ctx, http.MethodPut, "submissions/bulk-grade", nil, body, &subs)
	return subs, err
}
