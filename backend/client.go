package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa-web/core"
)

// TokenSource yields the bearer token to attach to outgoing requests;
// "" means none (public endpoints proceed without the header).
type TokenSource interface {
	Token() string
}

// envelope is the shape every backend JSON response is expected to use.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  core.Logger
}

// Client funnels every backend call: it attaches the bearer token, unwraps the
// response envelope and maps failures to the Error taxonomy. Requests are never
// retried and share one fixed generous timeout.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger core.Logger

	tokens         TokenSource
	onUnauthorized func()

	Auth            *AuthService
	Users           *UserService
	Courses         *CourseService
	Categories      *CategoryService
	Enrollments     *EnrollmentService
	Modules         *ModuleService
	Lessons         *LessonService
	Quizzes         *QuizService
	Assignments     *AssignmentService
	Submissions     *SubmissionService
	Recommendations *RecommendationService
	Certificates    *CertificateService
}

func NewClient(opts *Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(err, "parsing backend base URL")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: opts.Logger,
	}
	c.bindServices()
	return c, nil
}

func (c *Client) bindServices() {
	c.Auth = &AuthService{client: c}
	c.Users = &UserService{client: c}
	c.Courses = &CourseService{client: c}
	c.Categories = &CategoryService{client: c}
	c.Enrollments = &EnrollmentService{client: c}
	c.Modules = &ModuleService{client: c}
	c.Lessons = &LessonService{client: c}
	c.Quizzes = &QuizService{client: c}
	c.Assignments = &AssignmentService{client: c}
	c.Submissions = &SubmissionService{client: c}
	c.Recommendations = &RecommendationService{client: c}
	c.Certificates = &CertificateService{client: c}
}

// WithSession returns a shallow copy bound to a token source and a session-expired
// callback. The callback fires on any 401; making it idempotent is the caller's
// business (session.Session.Expire already is).
func (c *Client) WithSession(tokens TokenSource, onUnauthorized func()) *Client {
	cp := &Client{
		base:           c.base,
		http:           c.http,
		logger:         c.logger,
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
	cp.bindServices()
	return cp
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

// withToken is WithSession for a bare token; used by the token-validation call.
func (c *Client) withToken(token string) *Client {
	return c.WithSession(staticToken(token), c.onUnauthorized)
}

func (c *Client) resolve(path string, query url.Values) string {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do dispatches a JSON request and unmarshals the envelope's data field into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, c.resolve(path, query), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// upload dispatches a multipart request carrying one file part plus form fields.
func (c *Client) upload(ctx context.Context, method, path string, fields map[string]string, fileField, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errors.Wrap(err, "writing form field")
		}
	}
	part, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		return errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return errors.Wrap(err, "copying file")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}

	req, err := c.newRequest(ctx, method, c.resolve(path, nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

// download fetches a raw (non-enveloped) byte stream, e.g. a certificate PDF.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(path, nil), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Del("Accept")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &Error{Kind: KindNetwork, Message: networkErrMsg}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", c.failure(resp)
	}
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Kind: KindNetwork, Message: networkErrMsg}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// no response reached us; sub-causes are not distinguished
		return &Error{Kind: KindNetwork, Message: networkErrMsg}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.failure(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Kind: KindRequest, StatusCode: resp.StatusCode, Message: genericErrMsg}
	}
	if !env.Success {
		return &Error{Kind: KindRequest, StatusCode: resp.StatusCode, Message: messageOr(env.Message, genericErrMsg)}
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindRequest, StatusCode: resp.StatusCode, Message: genericErrMsg}
	}
	return nil
}

// failure maps a non-2xx response to the Error taxonomy. 401 additionally fires the
// session-expired callback before returning.
func (c *Client) failure(resp *http.Response) error {
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{Kind: KindUnauthorized, StatusCode: resp.StatusCode, Message: messageOr(env.Message, expiredErrMsg)}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, StatusCode: resp.StatusCode, Message: messageOr(env.Message, genericErrMsg)}
	default:
		// validation, business and server errors all surface the backend message
		return &Error{Kind: KindRequest, StatusCode: resp.StatusCode, Message: messageOr(env.Message, genericErrMsg)}
	}
}

func messageOr(msg, fallback string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	return fallback
}
