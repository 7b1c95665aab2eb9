package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/oapi-codegen/runtime"

	"github.com/sanLimbu/task-tracker/internal"
)

// TaskService ...
type TaskService interface {
	By(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error)
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
	Stats(ctx context.Context, userID int64) (internal.TaskStats, error)
	Task(ctx context.Context, userID, id int64) (internal.Task, error)
	Update(ctx context.Context, userID, id int64, params internal.UpdateParams) (internal.Task, error)
}

// TaskHandler ...
type TaskHandler struct {
	svc TaskService
}

// NewTaskHandler ...
func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router, r must already authenticate requests.
func (t *TaskHandler) Register(r chi.Router) {
	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", t.create)
		r.Get("/", t.tasks)
		r.Get("/stats", t.stats)
		r.Get("/search", t.search)
		r.Get("/{id}", t.task)
		r.Put("/{id}", t.update)
		r.Delete("/{id}", t.delete)
	})
}

// Task is an activity that needs to be completed by its owner.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask converts the domain type to its JSON representation.
func NewTask(task internal.Task) Task {
	return Task{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority.String(),
		Status:      task.Status.String(),
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newTasks(tasks []internal.Task) []Task {
	res := make([]Task, len(tasks))
	for i, task := range tasks {
		res[i] = NewTask(task)
	}

	return res
}

// CreateTasksRequest defines the request used for creating tasks.
type CreateTasksRequest = internal.NewTaskInput

// CreateTasksResponse defines the response returned back after creating tasks.
type CreateTasksResponse struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "No JSON data provided"))
		return
	}
	defer r.Body.Close()

	params, err := req.Params(userIDFromContext(r.Context()))
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to create task", err)
		return
	}

	task, err := t.svc.Create(r.Context(), params)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to create task", err)
		return
	}

	renderResponse(w,
		&CreateTasksResponse{
			Message: "Task created successfully",
			Task:    NewTask(task),
		},
		http.StatusCreated)
}

// ListTasksResponse defines the response returned back after listing tasks.
type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
	Count int    `json:"count"`
}

func (t *TaskHandler) tasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Now is set by the service.
	filter, err := internal.NewTaskFilter(query.Get("status"), query.Get("priority"), query.Get("overdue"), time.Time{})
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to get tasks", err)
		return
	}

	tasks, err := t.svc.By(r.Context(), userIDFromContext(r.Context()), filter)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to get tasks", err)
		return
	}

	renderResponse(w,
		&ListTasksResponse{
			Tasks: newTasks(tasks),
			Count: len(tasks),
		},
		http.StatusOK)
}

// SearchTasksResponse defines the response returned back after searching tasks.
type SearchTasksResponse struct {
	Tasks []Task `json:"tasks"`
	Count int    `json:"count"`
	Total int64  `json:"total"`
}

func (t *TaskHandler) search(w http.ResponseWriter, r *http.Request) {
	res, err := t.svc.Search(r.Context(), internal.SearchParams{
		UserID: userIDFromContext(r.Context()),
		Query:  r.URL.Query().Get("q"),
	})
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to search tasks", err)
		return
	}

	renderResponse(w,
		&SearchTasksResponse{
			Tasks: newTasks(res.Tasks),
			Count: len(res.Tasks),
			Total: res.Total,
		},
		http.StatusOK)
}

// PriorityBreakdown counts tasks per priority.
type PriorityBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// TaskStatsResponse defines the response returned back after aggregating tasks.
type TaskStatsResponse struct {
	TotalTasks        int               `json:"total_tasks"`
	CompletedTasks    int               `json:"completed_tasks"`
	PendingTasks      int               `json:"pending_tasks"`
	OverdueTasks      int               `json:"overdue_tasks"`
	CompletionRate    float64           `json:"completion_rate"`
	PriorityBreakdown PriorityBreakdown `json:"priority_breakdown"`
}

func (t *TaskHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := t.svc.Stats(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to get task statistics", err)
		return
	}

	renderResponse(w,
		&TaskStatsResponse{
			TotalTasks:     stats.Total,
			CompletedTasks: stats.Completed,
			PendingTasks:   stats.Pending,
			OverdueTasks:   stats.Overdue,
			CompletionRate: stats.CompletionRate,
			PriorityBreakdown: PriorityBreakdown{
				Low:    stats.PriorityBreakdown.Low,
				Medium: stats.PriorityBreakdown.Medium,
				High:   stats.PriorityBreakdown.High,
			},
		},
		http.StatusOK)
}

// ReadTasksResponse defines the response returned back after finding one task.
type ReadTasksResponse struct {
	Task Task `json:"task"`
}

func (t *TaskHandler) task(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to get task", err)
		return
	}

	task, err := t.svc.Task(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to get task", err)
		return
	}

	renderResponse(w,
		&ReadTasksResponse{
			Task: NewTask(task),
		},
		http.StatusOK)
}

// UpdateTasksRequest defines the request used for updating a task.
type UpdateTasksRequest = internal.UpdateTaskInput

// UpdateTasksResponse defines the response returned back after updating tasks.
type UpdateTasksResponse struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

func (t *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to update task", err)
		return
	}

	// Tasks not owned by the caller are reported before the body is looked at.
	if _, err := t.svc.Task(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		renderErrorResponse(r.Context(), w, "Failed to update task", err)
		return
	}

	var req UpdateTasksRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Empty() {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "No JSON data provided"))
		return
	}
	defer r.Body.Close()

	params, err := req.Params()
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to update task", err)
		return
	}

	task, err := t.svc.Update(r.Context(), userIDFromContext(r.Context()), id, params)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to update task", err)
		return
	}

	renderResponse(w,
		&UpdateTasksResponse{
			Message: "Task updated successfully",
			Task:    NewTask(task),
		},
		http.StatusOK)
}

// MessageResponse defines a response containing only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to delete task", err)
		return
	}

	if err := t.svc.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		renderErrorResponse(r.Context(), w, "Failed to delete task", err)
		return
	}

	renderResponse(w, &MessageResponse{Message: "Task deleted successfully"}, http.StatusOK)
}

// taskID binds the "id" path parameter, values that are not integers can't identify any task.
func taskID(r *http.Request) (int64, error) {
	var id int64

	if err := runtime.BindStyledParameterWithLocation("simple", false, "id", runtime.ParamLocationPath, chi.URLParam(r, "id"), &id); err != nil {
		return 0, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "Task not found")
	}

	if id <= 0 {
		return 0, internal.NewErrorf(internal.ErrorCodeNotFound, "Task not found")
	}

	return id, nil
}
