package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type learnPages struct{}

func RegisterLearnPages(e *echo.Echo) {
	pages := learnPages{}
	auth := helpers.RequireAuth()

	e.GET("/courses/:courseID/lessons/:id", pages.lesson, auth)
	e.POST("/lessons/:id/complete", pages.completeLesson, auth)

	e.GET("/quizzes/:id", pages.quiz, auth)
	e.POST("/quizzes/:id/submit", pages.submitQuiz, auth)

	e.GET("/assignments/:id", pages.assignment, auth)
	e.POST("/assignments/:id/submit", pages.submitAssignment, auth)

	e.GET("/courses/:id/certificate", pages.certificate, auth)
}

func (p learnPages) lesson(ctx echo.Context) error {
	courseID, err := intParam(ctx, "courseID")
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	lesson, err := client.Lessons.Get(reqCtx, id)
	if err != nil {
		return err
	}

	// the three side fetches are independent; missing pieces default to empty
	var (
		wg          sync.WaitGroup
		adjacency   backend.Adjacency
		assignments = []backend.Assignment{}
		quizzes     = []backend.Quiz{}
		mu          sync.Mutex
		authErr     error
	)
	keepAuthErr := func(err error) {
		if backend.IsUnauthorized(err) {
			mu.Lock()
			authErr = err
			mu.Unlock()
		}
	}
	wg.Add(3)
	go func() {
		defer wg.Done()
		if adj, err := client.Lessons.Adjacent(reqCtx, id); err == nil {
			adjacency = adj
		} else {
			keepAuthErr(err)
		}
	}()
	go func() {
		defer wg.Done()
		if got, err := client.Assignments.ForLesson(reqCtx, id); err == nil {
			assignments = got
		} else {
			keepAuthErr(err)
		}
	}()
	go func() {
		defer wg.Done()
		if got, err := client.Quizzes.ForLesson(reqCtx, id); err == nil {
			quizzes = got
		} else {
			keepAuthErr(err)
		}
	}()
	wg.Wait()
	if authErr != nil {
		return authErr
	}

	return ctx.Render(http.StatusOK, "lesson", viewData(ctx, echo.Map{
		"CourseID":    courseID,
		"Lesson":      lesson,
		"Adjacency":   adjacency,
		"Assignments": assignments,
		"Quizzes":     quizzes,
	}))
}

func (p learnPages) completeLesson(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Lessons.Complete(ctx.Request().Context(), id); err != nil {
		return err
	}
	courseID := ctx.FormValue("course_id")
	if courseID == "" {
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/courses/%s/lessons/%d", courseID, id))
}

func (p learnPages) quiz(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	quiz, err := helpers.ContextClient(ctx).Quizzes.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "quiz", viewData(ctx, echo.Map{"Quiz": quiz}))
}

func (p learnPages) submitQuiz(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	quiz, err := client.Quizzes.Get(reqCtx, id)
	if err != nil {
		return err
	}

	// answers arrive as one q_<questionID> field per question
	answers := make(backend.QuizAnswers, len(quiz.Questions))
	for _, question := range quiz.Questions {
		choice, err := strconv.Atoi(ctx.FormValue(fmt.Sprintf("q_%d", question.ID)))
		if err != nil {
			continue // unanswered
		}
		answers[question.ID] = choice
	}

	result, err := client.Quizzes.Submit(reqCtx, id, answers)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "quiz", viewData(ctx, echo.Map{
		"Quiz":   quiz,
		"Result": &result,
	}))
}

func (p learnPages) assignment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	assignment, err := client.Assignments.Get(reqCtx, id)
	if err != nil {
		return err
	}
	submissions, err := client.Submissions.Mine(reqCtx)
	if err := bestEffort(ctx, err); err != nil {
		return err
	}
	mine := []backend.Submission{}
	for _, sub := range submissions {
		if sub.AssignmentID == id {
			mine = append(mine, sub)
		}
	}

	return ctx.Render(http.StatusOK, "assignment", viewData(ctx, echo.Map{
		"Assignment":  assignment,
		"Submissions": mine,
	}))
}

func (p learnPages) submitAssignment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	client := helpers.ContextClient(ctx)
	comment := ctx.FormValue("comment")
	if _, err := client.Assignments.Submit(ctx.Request().Context(), id, comment, fileHeader.Filename, file); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/assignments/%d", id))
}

// certificate streams the completion PDF; the backend issues it on first request.
func (p learnPages) certificate(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	if _, err := client.Certificates.Generate(reqCtx, id); err != nil {
		// already-issued is fine; anything auth-related is not
		if backend.IsUnauthorized(err) || backend.IsForbidden(err) {
			return err
		}
	}
	data, contentType, err := client.Certificates.Download(reqCtx, id)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=certificate-%d.pdf", id))
	return ctx.Blob(http.StatusOK, contentType, data)
}
