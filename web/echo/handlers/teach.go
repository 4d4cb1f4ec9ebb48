package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type teachPages struct{}

// RegisterTeachPages mounts the instructor content-management screens.
func RegisterTeachPages(e *echo.Echo) {
	pages := teachPages{}
	g := e.Group("/teach", helpers.RequireRoles(session.RoleInstructor, session.RoleAdmin))

	g.GET("", pages.dashboard)
	g.POST("/courses", pages.createCourse)
	g.GET("/courses/:id", pages.course)
	g.POST("/courses/:id", pages.updateCourse)
	g.POST("/courses/:id/delete", pages.deleteCourse)
	g.POST("/courses/:id/publish", pages.publishCourse)
	g.POST("/courses/:id/modules/reorder", pages.reorderModules)

	g.POST("/modules", pages.createModule)
	g.POST("/modules/:id/delete", pages.deleteModule)

	g.POST("/lessons", pages.createLesson)
	g.POST("/lessons/:id", pages.updateLesson)
	g.POST("/lessons/:id/delete", pages.deleteLesson)

	g.POST("/quizzes", pages.createQuiz)
	g.POST("/lessons/:id/quizzes/bulk", pages.bulkCreateQuizzes)
	g.POST("/quizzes/:id/delete", pages.deleteQuiz)
	g.GET("/quizzes/:id/responses", pages.quizResponses)
	g.POST("/quiz-submissions/:id/grade", pages.gradeQuizSubmission)

	g.POST("/assignments", pages.createAssignment)
	g.POST("/assignments/:id", pages.updateAssignment)
	g.POST("/assignments/:id/delete", pages.deleteAssignment)
	g.GET("/assignments/:id/submissions", pages.assignmentSubmissions)
	g.POST("/assignments/:id/bulk-grade", pages.bulkGrade)
	g.POST("/submissions/:id/grade", pages.gradeSubmission)
}

func courseRedirect(ctx echo.Context) error {
	if courseID := ctx.FormValue("course_id"); courseID != "" {
		return ctx.Redirect(http.StatusSeeOther, "/teach/courses/"+courseID)
	}
	return ctx.Redirect(http.StatusSeeOther, "/teach")
}

func (p teachPages) dashboard(ctx echo.Context) error {
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	courses, err := client.Courses.List(reqCtx, backend.CourseFilter{Mine: true})
	if err != nil {
		return err
	}
	categories, err := client.Categories.List(reqCtx)
	if err := bestEffort(ctx, err); err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "teach", viewData(ctx, echo.Map{
		"Courses":    courses,
		"Categories": categories,
	}))
}

func (p teachPages) createCourse(ctx echo.Context) error {
	input := backend.CourseInput{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Thumbnail:   ctx.FormValue("thumbnail"),
	}
	input.CategoryID, _ = strconv.Atoi(ctx.FormValue("category_id"))
	if err := input.Validate(); err != nil {
		return err
	}
	course, err := helpers.ContextClient(ctx).Courses.Create(ctx.Request().Context(), input)
	if err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/teach/courses/%d", course.ID))
}

// course renders the management view of one course: the full tree plus enrollments.
func (p teachPages) course(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	tree, err := buildCourseTree(reqCtx, client, id)
	if err != nil {
		return err
	}
	enrollments, err := client.Enrollments.ForCourse(reqCtx, id)
	if err := bestEffort(ctx, err); err != nil {
		return err
	}
	categories, err := client.Categories.List(reqCtx)
	if err := bestEffort(ctx, err); err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "teach_course", viewData(ctx, echo.Map{
		"Tree":        tree,
		"Enrollments": enrollments,
		"Categories":  categories,
	}))
}

func (p teachPages) updateCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	input := backend.CourseInput{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Thumbnail:   ctx.FormValue("thumbnail"),
	}
	input.CategoryID, _ = strconv.Atoi(ctx.FormValue("category_id"))
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Courses.Update(ctx.Request().Context(), id, input); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/teach/courses/%d", id))
}

func (p teachPages) deleteCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Courses.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, "/teach")
}

func (p teachPages) publishCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Courses.Publish(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/teach/courses/%d", id))
}

func (p teachPages) reorderModules(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := ctx.Request().ParseForm(); err != nil {
		return err
	}
	var moduleIDs []int
	for _, raw := range ctx.Request().PostForm["module_id"] {
		moduleID, err := strconv.Atoi(raw)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "module_id", Error: "must be a number"})
		}
		moduleIDs = append(moduleIDs, moduleID)
	}
	if err := helpers.ContextClient(ctx).Modules.Reorder(ctx.Request().Context(), id, moduleIDs); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/teach/courses/%d", id))
}

func (p teachPages) createModule(ctx echo.Context) error {
	input := backend.ModuleInput{Title: ctx.FormValue("title")}
	input.CourseID, _ = strconv.Atoi(ctx.FormValue("course_id"))
	input.Position, _ = strconv.Atoi(ctx.FormValue("position"))
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Modules.Create(ctx.Request().Context(), input); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) deleteModule(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Modules.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func lessonInputFromForm(ctx echo.Context) (backend.LessonInput, error) {
	input := backend.LessonInput{
		Title:    ctx.FormValue("title"),
		Content:  ctx.FormValue("content"),
		VideoURL: ctx.FormValue("video_url"),
	}
	input.ModuleID, _ = strconv.Atoi(ctx.FormValue("module_id"))
	input.Duration, _ = strconv.Atoi(ctx.FormValue("duration"))
	input.Position, _ = strconv.Atoi(ctx.FormValue("position"))
	return input, input.Validate()
}

func (p teachPages) createLesson(ctx echo.Context) error {
	input, err := lessonInputFromForm(ctx)
	if err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Lessons.Create(ctx.Request().Context(), input); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) updateLesson(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	input, err := lessonInputFromForm(ctx)
	if err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Lessons.Update(ctx.Request().Context(), id, input); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) deleteLesson(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Lessons.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

// createQuiz accepts the quiz questions as a JSON document built by the form.
func (p teachPages) createQuiz(ctx echo.Context) error {
	input := backend.QuizInput{Title: ctx.FormValue("title")}
	input.LessonID, _ = strconv.Atoi(ctx.FormValue("lesson_id"))
	if raw := ctx.FormValue("questions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Questions); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "questions", Error: "malformed questions document"})
		}
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Quizzes.Create(ctx.Request().Context(), input); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

// bulkCreateQuizzes accepts a JSON array of quizzes for one lesson.
func (p teachPages) bulkCreateQuizzes(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var inputs []backend.QuizInput
	if err := json.Unmarshal([]byte(ctx.FormValue("payload")), &inputs); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "payload", Error: "malformed quizzes document"})
	}
	for i := range inputs {
		inputs[i].LessonID = id
		if err := inputs[i].Validate(); err != nil {
			return err
		}
	}
	if _, err := helpers.ContextClient(ctx).Quizzes.BulkCreate(ctx.Request().Context(), id, inputs); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) deleteQuiz(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Quizzes.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

// quizResponses lists a quiz's submissions. A missing endpoint surfaces as an
// error page; no placeholder data.
func (p teachPages) quizResponses(ctx echo.Context) error {
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
	subs, err := client.Quizzes.Submissions(reqCtx, id)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "quiz_responses", viewData(ctx, echo.Map{
		"Quiz":        quiz,
		"Submissions": subs,
	}))
}

func (p teachPages) gradeQuizSubmission(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	score, err := strconv.ParseFloat(ctx.FormValue("score"), 64)
	if err != nil || score < 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "score", Error: "must be a non-negative number"})
	}
	if _, err := helpers.ContextClient(ctx).Quizzes.Grade(ctx.Request().Context(), id, score); err != nil {
		return err
	}
	if quizID := ctx.FormValue("quiz_id"); quizID != "" {
		return ctx.Redirect(http.StatusSeeOther, "/teach/quizzes/"+quizID+"/responses")
	}
	return ctx.Redirect(http.StatusSeeOther, "/teach")
}

func assignmentInputFromForm(ctx echo.Context) (backend.AssignmentInput, error) {
	input := backend.AssignmentInput{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
	}
	input.LessonID, _ = strconv.Atoi(ctx.FormValue("lesson_id"))
	input.MaxGrade, _ = strconv.ParseFloat(ctx.FormValue("max_grade"), 64)
	if raw := ctx.FormValue("due_date"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return input, core.NewValidationError(nil, core.FieldError{Field: "due_date", Error: "must be YYYY-MM-DD"})
		}
		input.DueDate = &due
	}
	return input, input.Validate()
}

func (p teachPages) createAssignment(ctx echo.Context) error {
	input, err := assignmentInputFromForm(ctx)
	if err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Assignments.Create(ctx.Request().Context(), input); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) updateAssignment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	input, err := assignmentInputFromForm(ctx)
	if err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Assignments.Update(ctx.Request().Context(), id, input); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) deleteAssignment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := helpers.ContextClient(ctx).Assignments.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return courseRedirect(ctx)
}

func (p teachPages) assignmentSubmissions(ctx echo.Context) error {
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
	subs, err := client.Submissions.ForAssignment(reqCtx, id)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "grading", viewData(ctx, echo.Map{
		"Assignment":  assignment,
		"Submissions": subs,
	}))
}

func (p teachPages) gradeSubmission(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	input := backend.GradeInput{Feedback: ctx.FormValue("feedback")}
	input.Grade, err = strconv.ParseFloat(ctx.FormValue("grade"), 64)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "must be a number"})
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := helpers.ContextClient(ctx).Submissions.Grade(ctx.Request().Context(), id, input); err != nil {
		return err
	}
	if assignmentID := ctx.FormValue("assignment_id"); assignmentID != "" {
		return ctx.Redirect(http.StatusSeeOther, "/teach/assignments/"+assignmentID+"/submissions")
	}
	return ctx.Redirect(http.StatusSeeOther, "/teach")
}

// bulkGrade reads parallel submission_id/grade/feedback form arrays.
func (p teachPages) bulkGrade(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := ctx.Request().ParseForm(); err != nil {
		return err
	}
	form := ctx.Request().PostForm

	var inputs []backend.BulkGradeInput
	for i, raw := range form["submission_id"] {
		subID, err := strconv.Atoi(raw)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "submission_id", Error: "must be a number"})
		}
		input := backend.BulkGradeInput{SubmissionID: subID}
		if i < len(form["grade"]) {
			if input.Grade, err = strconv.ParseFloat(form["grade"][i], 64); err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "must be a number"})
			}
		}
		if i < len(form["feedback"]) {
			input.Feedback = form["feedback"][i]
		}
		inputs = append(inputs, input)
	}
	if len(inputs) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "submission_id", Error: "nothing to grade"})
	}
	if _, err := helpers.ContextClient(ctx).Submissions.BulkGrade(ctx.Request().Context(), inputs); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/teach/assignments/%d/submissions", id))
}
