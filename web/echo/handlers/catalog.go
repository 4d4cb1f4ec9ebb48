package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/web/echo/helpers"
)

type catalogPages struct{}

func RegisterCatalogPages(e *echo.Echo) {
	pages := catalogPages{}

	e.GET("/", pages.home)
	e.GET("/courses", pages.browse)
}

// home renders the dashboard: the catalog plus, when logged in, the student's
// enrollments and the recommendation widget. Every block is best-effort.
func (p catalogPages) home(ctx echo.Context) error {
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()
	sess := helpers.ContextSession(ctx)

	courses, err := client.Courses.List(reqCtx, backend.CourseFilter{})
	if err := bestEffort(ctx, err); err != nil {
		return err
	}

	data := echo.Map{"Courses": courses}

	if sess.Authenticated() {
		enrollments, err := client.Enrollments.Mine(reqCtx)
		if err := bestEffort(ctx, err); err != nil {
			return err
		}
		data["Enrollments"] = enrollments

		// widget failures collapse silently
		if recs, err := client.Recommendations.ForMe(reqCtx, 4); err == nil {
			data["Recommendations"] = recs
		} else if backend.IsUnauthorized(err) {
			return err
		}
	}
	return ctx.Render(http.StatusOK, "home", viewData(ctx, data))
}

func (p catalogPages) browse(ctx echo.Context) error {
	client := helpers.ContextClient(ctx)
	reqCtx := ctx.Request().Context()

	filter := backend.CourseFilter{Search: ctx.QueryParam("search")}
	if categoryID, err := strconv.Atoi(ctx.QueryParam("category")); err == nil {
		filter.CategoryID = categoryID
	}

	courses, err := client.Courses.List(reqCtx, filter)
	if err != nil {
		return err
	}
	categories, err := client.Categories.List(reqCtx)
	if err := bestEffort(ctx, err); err != nil {
		return err
	}

	return ctx.Render(http.StatusOK, "courses", viewData(ctx, echo.Map{
		"Courses":    courses,
		"Categories": categories,
		"Search":     filter.Search,
		"CategoryID": filter.CategoryID,
	}))
}
