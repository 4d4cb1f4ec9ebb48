package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type EnrollmentService struct {
	client *Client
}

type Enrollment struct {
	ID         int       `json:"id"`
	CourseID   int       `json:"course_id"`
	Course     *Course   `json:"course,omitempty"`
	UserID     int       `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	Progress   float64   `json:"progress"` // 0..100
	EnrolledAt time.Time `json:"enrolled_at"`
}

type CourseProgress struct {
	CourseID         int     `json:"course_id"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	Percent          float64 `json:"percent"`
}

func (s *EnrollmentService) Enroll(ctx context.Context, courseID int) (Enrollment, error) {
	var enrollment Enrollment
	body := map[string]int{"course_id": courseID}
	err := s.client.do(ctx, http.MethodPost, "enrollments", nil, body, &enrollment)
	return enrollment, err
}

// Mine lists the current user's enrollments.
func (s *EnrollmentService) Mine(ctx context.Context) ([]Enrollment, error) {
	enrollments := []Enrollment{}
	err := s.client.do(ctx, http.MethodGet, "enrollments/me", nil, nil, &enrollments)
	return enrollments, err
}

// ForCourse lists a course's enrollments (instructor view).
func (s *EnrollmentService) ForCourse(ctx context.Context, courseID int) ([]Enrollment, error) {
	enrollments := []Enrollment{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("enrollments/course/%d", courseID), nil, nil, &enrollments)
	return enrollments, err
}

func (s *EnrollmentService) Progress(ctx context.Context, courseID int) (CourseProgress, error) {
	var progress CourseProgress
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("enrollments/course/%d/progress", courseID), nil, nil, &progress)
	return progress, err
}
