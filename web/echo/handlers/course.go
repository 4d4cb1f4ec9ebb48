package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type coursePages struct{}

func RegisterCoursePages(e *echo.Echo) {
	pages := coursePages{}

	e.GET("/courses/:id", pages.detail)
	e.POST("/courses/:id/enroll", pages.enroll, helpers.RequireAuth())
}

// LessonNode is a lesson plus its attached work, hydrated best-effort.
type LessonNode struct {
	backend.Lesson
	Assignments []backend.Assignment
	Quizzes     []backend.Quiz
}

type ModuleNode struct {
	backend.Module
	Lessons []LessonNode
}

// CourseTree is the course → modules → lessons → work hierarchy a course page renders.
type CourseTree struct {
	Course  backend.Course
	Modules []ModuleNode
}

// buildCourseTree hydrates the tree sequentially down to lessons, then fans out the
// two independent per-lesson fetches concurrently. Sub-fetch failures substitute
// empty collections (best-effort render); only the root fetch and authentication
// failures fail the page.
func buildCourseTree(ctx context.Context, client *backend.Client, courseID int) (CourseTree, error) {
	course, err := client.Courses.Get(ctx, courseID)
	if err != nil {
		return CourseTree{}, err
	}
	tree := CourseTree{Course: course}

	modules, err := client.Modules.ForCourse(ctx, courseID)
	if err != nil {
		if backend.IsUnauthorized(err) {
			return CourseTree{}, err
		}
		modules = nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		authErr error
	)
	keepAuthErr := func(err error) {
		if backend.IsUnauthorized(err) {
			mu.Lock()
			authErr = err
			mu.Unlock()
		}
	}

	tree.Modules = make([]ModuleNode, 0, len(modules))
	for _, module := range modules {
		node := ModuleNode{Module: module}

		lessons, err := client.Lessons.ForModule(ctx, module.ID)
		if err != nil {
			if backend.IsUnauthorized(err) {
				return CourseTree{}, err
			}
			lessons = nil
		}

		node.Lessons = make([]LessonNode, len(lessons))
		for i, lesson := range lessons {
			node.Lessons[i] = LessonNode{
				Lesson:      lesson,
				Assignments: []backend.Assignment{},
				Quizzes:     []backend.Quiz{},
			}

			// assignments and quizzes are independent; no ordering between them
			wg.Add(2)
			go func(ln *LessonNode) {
				defer wg.Done()
				if assignments, err := client.Assignments.ForLesson(ctx, ln.ID); err == nil {
					ln.Assignments = assignments
				} else {
					keepAuthErr(err)
				}
			}(&node.Lessons[i])
			go func(ln *LessonNode) {
				defer wg.Done()
				if quizzes, err := client.Quizzes.ForLesson(ctx, ln.ID); err == nil {
					ln.Quizzes = quizzes
				} else {
					keepAuthErr(err)
				}
			}(&node.Lessons[i])
		}
		tree.Modules = append(tree.Modules, node)
	}
	wg.Wait()

	if authErr != nil {
		return CourseTree{}, authErr
	}
	return tree, nil
}

func (p coursePages) detail(ctx echo.Context) error {
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

	data := echo.Map{"Tree": tree}
	if helpers.ContextSession(ctx).IsStudent() {
		if progress, err := client.Enrollments.Progress(reqCtx, id); err == nil {
			data["Progress"] = progress
		} else if backend.IsUnauthorized(err) {
			return err
		}
	}
	return ctx.Render(http.StatusOK, "course", viewData(ctx, data))
}

func (p coursePages) enroll(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	if _, err := client.Enrollments.Enroll(reqCtx, id); err != nil {
		return err
	}
	// feed the recommendation model; never blocks enrollment
	if err := client.Recommendations.TrackInteraction(reqCtx, id, backend.InteractionEnroll); err != nil {
		ctx.Logger().Warnf("tracking enrollment: %v", err)
	}
	return ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/courses/%d", id))
}
