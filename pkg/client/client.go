// Package client implements an HTTP client for the task tracker REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/sanLimbu/task-tracker/internal/rest"
)

// Error is returned when the server responds with an unexpected status code.
type Error struct {
	StatusCode int
	Response   rest.ErrorResponse
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Response.Error, e.Response.Message)
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(doer *http.Client) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// Client calls the REST API, tokens returned by Register and Login are used by the following calls.
type Client struct {
	server string
	http   *http.Client
	token  string
}

// New instantiates the Client.
func New(server string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(server); err != nil {
		return nil, fmt.Errorf("url.Parse %w", err)
	}

	c := Client{
		server: strings.TrimSuffix(server, "/"),
		http:   http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c, nil
}

// SetToken sets the access token used to authenticate requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// CreateTaskRequest defines the request used for creating tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// UpdateTaskRequest defines the request used for updating tasks, nil fields are not sent.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ListTasksParams defines the filters used for listing tasks.
type ListTasksParams struct {
	Status   string
	Priority string
	Overdue  bool
}

// Health returns the status of the service.
func (c *Client) Health(ctx context.Context) (rest.HealthResponse, error) {
	var res rest.HealthResponse

	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, http.StatusOK, &res); err != nil {
		return rest.HealthResponse{}, err
	}

	return res, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (rest.SessionResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var res rest.SessionResponse

	if err := c.do(ctx, http.MethodPost, "/api/register", nil, body, http.StatusCreated, &res); err != nil {
		return rest.SessionResponse{}, err
	}

	c.token = res.AccessToken

	return res, nil
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, username, password string) (rest.SessionResponse, error) {
	body := map[string]string{"username": username, "password": password}

	var res rest.SessionResponse

	if err := c.do(ctx, http.MethodPost, "/api/login", nil, body, http.StatusOK, &res); err != nil {
		return rest.SessionResponse{}, err
	}

	c.token = res.AccessToken

	return res, nil
}

// Logout revokes the current access token.
func (c *Client) Logout(ctx context.Context) error {
	var res rest.MessageResponse

	if err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, http.StatusOK, &res); err != nil {
		return err
	}

	c.token = ""

	return nil
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (rest.User, error) {
	var res rest.ProfileResponse

	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, http.StatusOK, &res); err != nil {
		return rest.User{}, err
	}

	return res.User, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (rest.Task, error) {
	var res rest.CreateTasksResponse

	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, http.StatusCreated, &res); err != nil {
		return rest.Task{}, err
	}

	return res.Task, nil
}

// ListTasks returns the tasks matching the filters.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) ([]rest.Task, error) {
	query := url.Values{}

	if params.Status != "" {
		query.Set("status", params.Status)
	}

	if params.Priority != "" {
		query.Set("priority", params.Priority)
	}

	if params.Overdue {
		query.Set("overdue", "true")
	}

	var res rest.ListTasksResponse

	if err := c.do(ctx, http.MethodGet, "/api/tasks", query, nil, http.StatusOK, &res); err != nil {
		return nil, err
	}

	return res.Tasks, nil
}

// SearchTasks runs a full text search.
func (c *Client) SearchTasks(ctx context.Context, q string) (rest.SearchTasksResponse, error) {
	var res rest.SearchTasksResponse

	if err := c.do(ctx, http.MethodGet, "/api/tasks/search", url.Values{"q": []string{q}}, nil, http.StatusOK, &res); err != nil {
		return rest.SearchTasksResponse{}, err
	}

	return res, nil
}

// Task returns the task.
func (c *Client) Task(ctx context.Context, id int64) (rest.Task, error) {
	path, err := taskPath(id)
	if err != nil {
		return rest.Task{}, err
	}

	var res rest.ReadTasksResponse

	if err := c.do(ctx, http.MethodGet, path, nil, nil, http.StatusOK, &res); err != nil {
		return rest.Task{}, err
	}

	return res.Task, nil
}

// UpdateTask updates the task.
func (c *Client) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (rest.Task, error) {
	path, err := taskPath(id)
	if err != nil {
		return rest.Task{}, err
	}

	var res rest.UpdateTasksResponse

	if err := c.do(ctx, http.MethodPut, path, nil, req, http.StatusOK, &res); err != nil {
		return rest.Task{}, err
	}

	return res.Task, nil
}

// DeleteTask deletes the task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path, err := taskPath(id)
	if err != nil {
		return err
	}

	var res rest.MessageResponse

	return c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusOK, &res)
}

// Stats returns the statistics of the tasks.
func (c *Client) Stats(ctx context.Context) (rest.TaskStatsResponse, error) {
	var res rest.TaskStatsResponse

	if err := c.do(ctx, http.MethodGet, "/api/tasks/stats", nil, nil, http.StatusOK, &res); err != nil {
		return rest.TaskStatsResponse{}, err
	}

	return res, nil
}

func taskPath(id int64) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("runtime.StyleParamWithLocation %w", err)
	}

	return "/api/tasks/" + param, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, expected int, res interface{}) error {
	target := c.server + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal %w", err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("http.NewRequest %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		cerr := Error{StatusCode: resp.StatusCode}

		if err := json.NewDecoder(resp.Body).Decode(&cerr.Response); err != nil && !errors.Is(err, io.EOF) {
			cerr.Response.Message = resp.Status
		}

		return &cerr
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return fmt.Errorf("json.Decode %w", err)
	}

	return nil
}
