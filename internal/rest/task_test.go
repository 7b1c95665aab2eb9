package rest_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/rest"
)

var now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTask(id int64, title string) internal.Task {
	return internal.Task{
		ID:        id,
		UserID:    7,
		Title:     title,
		Priority:  internal.PriorityMedium,
		Status:    internal.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		svc := &taskServiceStub{
			CreateFunc: func(_ context.Context, params internal.CreateParams) (internal.Task, error) {
				assert.Equal(t, int64(7), params.UserID)
				assert.Equal(t, "X", params.Title)
				assert.Equal(t, internal.PriorityHigh, params.Priority)

				task := newTask(1, params.Title)
				task.Priority = params.Priority

				return task, nil
			},
		}

		w := doRequest(t, newRouter(svc, &userServiceStub{}), request{
			method: http.MethodPost,
			target: "/api/tasks",
			body:   `{"title": "  X  ", "priority": "high"}`,
			token:  validToken,
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var res rest.CreateTasksResponse
		decode(t, w, &res)

		assert.Equal(t, "Task created successfully", res.Message)
		assert.Equal(t, int64(1), res.Task.ID)
		assert.Equal(t, "High", res.Task.Priority)
		assert.Equal(t, "Pending", res.Task.Status)
	})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"invalid priority", `{"title": "X", "priority": "urgent"}`, "priority"},
		{"missing title", `{"description": "no title"}`, "title"},
		{"blank title", `{"title": "   "}`, "title"},
		{"invalid due date", `{"title": "X", "due_date": "tomorrow"}`, "due_date"},
		{"malformed JSON", `{"title": `, ""},
		{"empty body", ``, ""},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &taskServiceStub{
				CreateFunc: func(context.Context, internal.CreateParams) (internal.Task, error) {
					t.Fatal("task must not be created")
					return internal.Task{}, nil
				},
			}

			w := doRequest(t, newRouter(svc, &userServiceStub{}), request{
				method: http.MethodPost,
				target: "/api/tasks",
				body:   tt.body,
				token:  validToken,
			})

			require.Equal(t, http.StatusBadRequest, w.Code)

			var res rest.ErrorResponse
			decode(t, w, &res)

			assert.Equal(t, "Bad request", res.Error)
			assert.NotEmpty(t, res.Message)

			if tt.field != "" {
				assert.Contains(t, res.Details, tt.field)
			}
		})
	}
}

func TestTaskHandler_List(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		svc := &taskServiceStub{
			ByFunc: func(_ context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error) {
				assert.Equal(t, int64(7), userID)
				require.NotNil(t, filter.Status)
				require.NotNil(t, filter.Priority)
				assert.Equal(t, internal.StatusCompleted, *filter.Status)
				assert.Equal(t, internal.PriorityHigh, *filter.Priority)
				assert.False(t, filter.Overdue)

				return []internal.Task{newTask(2, "b"), newTask(1, "a")}, nil
			},
		}

		w := doRequest(t, newRouter(svc, &userServiceStub{}), request{
			method: http.MethodGet,
			target: "/api/tasks?status=completed&priority=high&overdue=false",
			token:  validToken,
		})

		require.Equal(t, http.StatusOK, w.Code)

		var res rest.ListTasksResponse
		decode(t, w, &res)

		assert.Equal(t, 2, res.Count)
		require.Len(t, res.Tasks, 2)
		assert.Equal(t, int64(2), res.Tasks[0].ID)
	})

	t.Run("OK: empty", func(t *testing.T) {
		t.Parallel()

		svc := &taskServiceStub{
			ByFunc: func(context.Context, int64, internal.TaskFilter) ([]internal.Task, error) {
				return []internal.Task{}, nil
			},
		}

		w := doRequest(t, newRouter(svc, &userServiceStub{}), request{method: http.MethodGet, target: "/api/tasks", token: validToken})

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"tasks": [], "count": 0}`, w.Body.String())
	})

	t.Run("ERR: invalid filter", func(t *testing.T) {
		t.Parallel()

		w := doRequest(t, newRouter(&taskServiceStub{}, &userServiceStub{}), request{
			method: http.MethodGet,
			target: "/api/tasks?status=archived",
			token:  validToken,
		})

		require.Equal(t, http.StatusBadRequest, w.Code)

		var res rest.ErrorResponse
		decode(t, w, &res)
		assert.Contains(t, res.Details, "status")
	})

	t.Run("ERR: internal", func(t *testing.T) {
		t.Parallel()

		svc := &taskServiceStub{
			ByFunc: func(context.Context, int64, internal.TaskFilter) ([]internal.Task, error) {
				return nil, errors.New("connection reset by peer")
			},
		}

		w := doRequest(t, newRouter(svc, &userServiceStub{}), request{method: http.MethodGet, target: "/api/tasks", token: validToken})

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var res rest.ErrorResponse
		decode(t, w, &res)
		assert.Equal(t, rest.ErrorResponse{Error: "Internal server error", Message: "Failed to get tasks"}, res)
	})
}

func TestTaskHandler_Task(t *testing.T) {
	t.Parallel()

	svc := &taskServiceStub{
		TaskFunc: func(_ context.Context, userID, id int64) (internal.Task, error) {
			if userID == 7 && id == 3 {
				return newTask(3, "mine"), nil
			}

			return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "Task not found")
		},
	}

	router := newRouter(svc, &userServiceStub{})

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"OK", "/api/tasks/3", http.StatusOK},
		{"not owned", "/api/tasks/4", http.StatusNotFound},
		{"not an integer", "/api/tasks/abc", http.StatusNotFound},
		{"negative", "/api/tasks/-1", http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(t, router, request{method: http.MethodGet, target: tt.target, token: validToken})
			require.Equal(t, tt.status, w.Code)

			if tt.status == http.StatusOK {
				var res rest.ReadTasksResponse
				decode(t, w, &res)
				assert.Equal(t, "mine", res.Task.Title)

				return
			}

			var res rest.ErrorResponse
			decode(t, w, &res)
			assert.Equal(t, rest.ErrorResponse{Error: "Not found", Message: "Task not found"}, res)
		})
	}
}

// findOwnedTask only finds the task 3.
func findOwnedTask(_ context.Context, _, id int64) (internal.Task, error) {
	if id != 3 {
		return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "Task not found")
	}

	return newTask(id, "Test Task"), nil
}

func TestTaskHandler_Update(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		svc := &taskServiceStub{
			TaskFunc: findOwnedTask,
			UpdateFunc: func(_ context.Context, userID, id int64, params internal.UpdateParams) (internal.Task, error) {
				assert.Equal(t, int64(7), userID)
				assert.Equal(t, int64(3), id)
				require.NotNil(t, params.Title)
				require.NotNil(t, params.Status)
				assert.Nil(t, params.Priority)
				assert.True(t, params.DescriptionSet)
				assert.Nil(t, params.Description)
				assert.False(t, params.DueDateSet)

				task := newTask(id, *params.Title)
				task.Status = *params.Status
				task.UpdatedAt = now.Add(time.Minute)

				return task, nil
			},
		}

		w := doRequest(t, newRouter(svc, &userServiceStub{}), request{
			method: http.MethodPut,
			target: "/api/tasks/3",
			body:   `{"title": "Updated Test Task", "status": "Completed", "description": null}`,
			token:  validToken,
		})

		require.Equal(t, http.StatusOK, w.Code)

		var res rest.UpdateTasksResponse
		decode(t, w, &res)

		assert.Equal(t, "Task updated successfully", res.Message)
		assert.Equal(t, "Updated Test Task", res.Task.Title)
		assert.Equal(t, "Completed", res.Task.Status)
		assert.True(t, res.Task.UpdatedAt.After(res.Task.CreatedAt))
	})

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"empty object", "/api/tasks/3", `{}`, http.StatusBadRequest},
		{"empty body", "/api/tasks/3", ``, http.StatusBadRequest},
		{"blank title", "/api/tasks/3", `{"title": ""}`, http.StatusBadRequest},
		{"invalid status", "/api/tasks/3", `{"status": "done"}`, http.StatusBadRequest},
		{"not an integer", "/api/tasks/x", `{"title": "X"}`, http.StatusNotFound},
		{"not owned, invalid body", "/api/tasks/99", `{"status": "done"}`, http.StatusNotFound},
		{"not owned, empty body", "/api/tasks/99", `{}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &taskServiceStub{
				TaskFunc: findOwnedTask,
				UpdateFunc: func(context.Context, int64, int64, internal.UpdateParams) (internal.Task, error) {
					t.Fatal("task must not be updated")
					return internal.Task{}, nil
				},
			}

			w := doRequest(t, newRouter(svc, &userServiceStub{}), request{
				method: http.MethodPut,
				target: tt.target,
				body:   tt.body,
				token:  validToken,
			})

			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("ERR: not found", func(t *testing.T) {
		t.Parallel()

		svc := &taskServiceStub{
			TaskFunc: findOwnedTask,
			UpdateFunc: func(context.Context, int64, int64, internal.UpdateParams) (internal.Task, error) {
				t.Fatal("task must not be updated")
				return internal.Task{}, nil
			},
		}

		w := doRequest(t, newRouter(svc, &userServiceStub{}), request{
			method: http.MethodPut,
			target: "/api/tasks/99",
			body:   `{"status": "pending"}`,
			token:  validToken,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Parallel()

	deleted := map[int64]bool{}

	svc := &taskServiceStub{
		DeleteFunc: func(_ context.Context, _, id int64) error {
			if deleted[id] {
				return internal.NewErrorf(internal.ErrorCodeNotFound, "Task not found")
			}

			deleted[id] = true

			return nil
		},
	}

	router := newRouter(svc, &userServiceStub{})

	w := doRequest(t, router, request{method: http.MethodDelete, target: "/api/tasks/3", token: validToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Task deleted successfully"}`, w.Body.String())

	w = doRequest(t, router, request{method: http.MethodDelete, target: "/api/tasks/3", token: validToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_Stats(t *testing.T) {
	t.Parallel()

	svc := &taskServiceStub{
		StatsFunc: func(_ context.Context, userID int64) (internal.TaskStats, error) {
			assert.Equal(t, int64(7), userID)

			return internal.NewTaskStats([]internal.Task{
				{Status: internal.StatusCompleted, Priority: internal.PriorityHigh},
				{Status: internal.StatusPending, Priority: internal.PriorityLow, DueDate: &now},
				{Status: internal.StatusPending, Priority: internal.PriorityHigh},
			}, now.Add(time.Hour)), nil
		},
	}

	w := doRequest(t, newRouter(svc, &userServiceStub{}), request{method: http.MethodGet, target: "/api/tasks/stats", token: validToken})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_tasks": 3,
		"completed_tasks": 1,
		"pending_tasks": 2,
		"overdue_tasks": 1,
		"completion_rate": 33.33,
		"priority_breakdown": {"low": 1, "medium": 0, "high": 2}
	}`, w.Body.String())
}

func TestTaskHandler_Search(t *testing.T) {
	t.Parallel()

	svc := &taskServiceStub{
		SearchFunc: func(_ context.Context, args internal.SearchParams) (internal.SearchResults, error) {
			if args.Query == "" {
				return internal.SearchResults{}, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "invalid search")
			}

			assert.Equal(t, int64(7), args.UserID)

			return internal.SearchResults{Tasks: []internal.Task{newTask(1, "report")}, Total: 1}, nil
		},
	}

	router := newRouter(svc, &userServiceStub{})

	w := doRequest(t, router, request{method: http.MethodGet, target: "/api/tasks/search?q=report", token: validToken})
	require.Equal(t, http.StatusOK, w.Code)

	var res rest.SearchTasksResponse
	decode(t, w, &res)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(1), res.Total)

	w = doRequest(t, router, request{method: http.MethodGet, target: "/api/tasks/search", token: validToken})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
