package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/darasahq/darasa-web/core"
)

type QuizService struct {
	client *Client
}

type Quiz struct {
	ID        int        `json:"id"`
	LessonID  int        `json:"lesson_id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	// Answer is the index of the correct option; only present for instructors.
	Answer *int `json:"answer,omitempty"`
}

type QuizInput struct {
	LessonID  int             `json:"lesson_id" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type QuestionInput struct {
	Prompt  string   `json:"prompt" validate:"required"`
	Options []string `json:"options" validate:"required,min=2"`
	Answer  int      `json:"answer" validate:"gte=0"`
}

func (qi *QuizInput) Validate() error {
	qi.Title = core.CleanString(qi.Title)
	return core.Validate.Struct(qi)
}

// QuizAnswers maps question IDs to the chosen option index.
type QuizAnswers map[int]int

type QuizResult struct {
	SubmissionID int     `json:"submission_id"`
	Score        float64 `json:"score"`
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
}

type QuizSubmission struct {
	ID          int         `json:"id"`
	QuizID      int         `json:"quiz_id"`
	UserID      int         `json:"user_id"`
	UserName    string      `json:"user_name"`
	Answers     QuizAnswers `json:"answers"`
	Score       *float64    `json:"score"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

func (s *QuizService) ForLesson(ctx context.Context, lessonID int) ([]Quiz, error) {
	quizzes := []Quiz{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("quizzes/lesson/%d", lessonID), nil, nil, &quizzes)
	return quizzes, err
}

func (s *QuizService) Get(ctx context.Context, id int) (Quiz, error) {
	var quiz Quiz
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("quizzes/%d", id), nil, nil, &quiz)
	return quiz, err
}

func (s *QuizService) Create(ctx context.Context, in QuizInput) (Quiz, error) {
	var quiz Quiz
	err := s.client.do(ctx, http.MethodPost, "quizzes", nil, in, &quiz)
	return quiz, err
}

// BulkCreate creates several quizzes for a lesson in one call.
func (s *QuizService) BulkCreate(ctx context.Context, lessonID int, ins []QuizInput) ([]Quiz, error) {
	quizzes := []Quiz{}
	body := map[string]interface{}{"lesson_id": lessonID, "quizzes": ins}
	err := s.client.do(ctx, http.MethodPost, "quizzes/bulk", nil, body, &quizzes)
	return quizzes, err
}

func (s *QuizService) Update(ctx context.Context, id int, in QuizInput) (Quiz, error) {
	var quiz Quiz
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("quizzes/%d", id), nil, in, &quiz)
	return quiz, err
}

func (s *QuizService) Delete(ctx context.Context, id int) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("quizzes/%d", id), nil, nil, nil)
}

func (s *QuizService) Submit(ctx context.Context, id int, answers QuizAnswers) (QuizResult, error) {
	var result QuizResult
	body := map[string]interface{}{"answers": answers}
	err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("quizzes/%d/submit", id), nil, body, &result)
	return result, err
}

// Submissions lists a quiz's submissions (instructor view).
func (s *QuizService) Submissions(ctx context.Context, id int) ([]QuizSubmission, error) {
	subs := []QuizSubmission{}
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("quizzes/%d/submissions", id), nil, nil, &subs)
	return subs, err
}

func (s *QuizService) Grade(ctx context.Context, submissionID int, score float64) (QuizSubmission, error) {
	var sub QuizSubmission
	body := map[string]float64{"score": score}
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("quizzes/submissions/%d/grade", submissionID), nil, body, &sub)
	return sub, err
}
