package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/darasahq/darasa-web/backend"
	testutil "github.com/darasahq/darasa-web/tests"
)

func Test_web_home(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Student())
		stub.Reply("/courses", []backend.Course{
			{ID: 1, Title: "Intro to Go", Category: "Programming", Instructor: "Imani", Enrolled: 12},
		})
		app := setup(t, stub)

		rec := doReq(app, http.MethodGet, "/", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200", rec.Code)
		}
		wantBody(t, rec, "Intro to Go", "Programming")
		if strings.Contains(rec.Body.String(), "My courses") {
			t.Error("anonymous home should not render enrollments")
		}
	})

	t.Run("catalog outage still renders", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Student())
		stub.Fail("/courses", http.StatusInternalServerError, "catalog unavailable")
		app := setup(t, stub)

		rec := doReq(app, http.MethodGet, "/", nil, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("code = %d, want 200", rec.Code)
		}
	})

	t.Run("authenticated with broken widget", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Student())
		stub.Reply("/courses", []backend.Course{{ID: 1, Title: "Intro to Go"}})
		stub.Reply("/enrollments/me", []backend.Enrollment{
			{ID: 1, CourseID: 1, Course: &backend.Course{ID: 1, Title: "Intro to Go"}, Progress: 40},
		})
		// the widget collapses silently when recommendations are down
		stub.Fail("/recommendations", http.StatusInternalServerError, "model offline")
		app := setup(t, stub)

		cookies := login(t, app)
		rec := doReq(app, http.MethodGet, "/", cookies, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body: %s", rec.Code, rec.Body.String())
		}
		wantBody(t, rec, "My courses")
		if strings.Contains(rec.Body.String(), "Recommended for you") {
			t.Error("broken widget should collapse, not render")
		}
	})

	t.Run("authenticated with recommendations", func(t *testing.T) {
		stub := testutil.NewStubBackend(t)
		stubAuth(stub, testutil.Student())
		stub.Reply("/courses", []backend.Course{{ID: 1, Title: "Intro to Go"}})
		stub.Reply("/enrollments/me", []backend.Enrollment{})
		stub.Reply("/recommendations", []backend.Recommendation{
			{Course: backend.Course{ID: 2, Title: "Advanced Go"}, Reason: "Because you liked Intro to Go", Score: 0.9},
		})
		app := setup(t, stub)

		cookies := login(t, app)
		rec := doReq(app, http.MethodGet, "/", cookies, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200", rec.Code)
		}
		wantBody(t, rec, "Recommended for you", "Advanced Go", "Because you liked Intro to Go")
	})
}

func Test_web_browse(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	stub.Handle("/courses", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "go" || r.URL.Query().Get("category") != "2" {
			t.Errorf("filter not forwarded: %s", r.URL.RawQuery)
		}
		testutil.WriteSuccess(w, []backend.Course{{ID: 1, Title: "Intro to Go"}})
	})
	stub.Reply("/categories", []backend.Category{{ID: 2, Name: "Programming"}})
	app := setup(t, stub)

	rec := doReq(app, http.MethodGet, "/courses?search=go&category=2", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	wantBody(t, rec, "Intro to Go", "Programming")
}

// One failing sub-fetch must not take the whole course page down; the lesson
// renders with that block empty.
func Test_web_courseTree_partialFailure(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	stub.Reply("/courses/1", backend.Course{ID: 1, Title: "Intro to Go"})
	stub.Reply("/modules/course/1", []backend.Module{{ID: 10, CourseID: 1, Title: "Basics"}})
	stub.Reply("/lessons/module/10", []backend.Lesson{
		{ID: 100, ModuleID: 10, Title: "Hello World"},
		{ID: 101, ModuleID: 10, Title: "Syntax"},
	})
	stub.Reply("/assignments/lesson/100", []backend.Assignment{{ID: 1000, LessonID: 100, Title: "Write a program"}})
	stub.Fail("/assignments/lesson/101", http.StatusInternalServerError, "oops")
	stub.Reply("/quizzes/lesson/100", []backend.Quiz{})
	stub.Reply("/quizzes/lesson/101", []backend.Quiz{{ID: 2000, LessonID: 101, Title: "Syntax check"}})
	app := setup(t, stub)

	rec := doReq(app, http.MethodGet, "/courses/1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	wantBody(t, rec, "Intro to Go", "Basics", "Hello World", "Syntax", "Assignment: Write a program", "Quiz: Syntax check")
}

func Test_web_courseTree_authFailurePropagates(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	stub.Reply("/courses/1", backend.Course{ID: 1, Title: "Intro to Go"})
	stub.Reply("/modules/course/1", []backend.Module{{ID: 10, CourseID: 1, Title: "Basics"}})
	stub.Reply("/lessons/module/10", []backend.Lesson{{ID: 100, ModuleID: 10, Title: "Hello World"}})
	stub.Fail("/assignments/lesson/100", http.StatusUnauthorized, "token expired")
	stub.Reply("/quizzes/lesson/100", []backend.Quiz{})
	app := setup(t, stub)

	cookies := login(t, app)
	rec := doReq(app, http.MethodGet, "/courses/1", cookies, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next="+url.QueryEscape("/courses/1") {
		t.Errorf("Location = %q", loc)
	}
}

func Test_web_course_notFound(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	stub.Fail("/courses/9", http.StatusNotFound, "course not found")
	app := setup(t, stub)

	rec := doReq(app, http.MethodGet, "/courses/9", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	wantBody(t, rec, "course not found")
}

func Test_web_enroll(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	enrolled, tracked := false, false
	stub.Handle("/enrollments", func(w http.ResponseWriter, r *http.Request) {
		enrolled = true
		testutil.WriteSuccess(w, backend.Enrollment{ID: 1, CourseID: 1})
	})
	stub.Handle("/recommendations/interactions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EventID  string `json:"event_id"`
			CourseID int    `json:"course_id"`
			Action   string `json:"action"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.EventID == "" || body.CourseID != 1 || body.Action != "enroll" {
			t.Errorf("unexpected interaction payload: %+v", body)
		}
		tracked = true
		testutil.WriteSuccess(w, nil)
	})
	app := setup(t, stub)

	cookies := login(t, app)
	rec := doReq(app, http.MethodPost, "/courses/1/enroll", cookies, url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/courses/1" {
		t.Errorf("Location = %q, want /courses/1", loc)
	}
	if !enrolled || !tracked {
		t.Errorf("enrolled = %v, tracked = %v, want both", enrolled, tracked)
	}
}

func Test_web_quizFlow(t *testing.T) {
	stub := testutil.NewStubBackend(t)
	stubAuth(stub, testutil.Student())
	quiz := backend.Quiz{
		ID: 5, LessonID: 100, Title: "Syntax check",
		Questions: []backend.Question{
			{ID: 1, Prompt: "What declares a variable?", Options: []string{"var", "let"}},
			{ID: 2, Prompt: "What starts a function?", Options: []string{"fn", "func"}},
		},
	}
	stub.Reply("/quizzes/5", quiz)
	stub.Handle("/quizzes/5/submit", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Answers map[string]int `json:"answers"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Answers["1"] != 0 || body.Answers["2"] != 1 {
			t.Errorf("answers = %v", body.Answers)
		}
		testutil.WriteSuccess(w, backend.QuizResult{SubmissionID: 7, Score: 100, Total: 2, Correct: 2})
	})
	app := setup(t, stub)

	cookies := login(t, app)
	rec := doReq(app, http.MethodGet, "/quizzes/5", cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	wantBody(t, rec, "What declares a variable?", `name="q_1"`)

	rec = doReq(app, http.MethodPost, "/quizzes/5/submit", cookies, url.Values{"q_1": {"0"}, "q_2": {"1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	wantBody(t, rec, "Score: 100", "2/2 correct")
}
