package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/postgresql/db"
)

// Task represents the repository used for interacting with Task records.
type Task struct {
	conn Conn
	q    *db.Queries
}

// NewTask instantiates the Task repository.
func NewTask(conn Conn) *Task {
	return &Task{
		conn: conn,
		q:    db.New(conn),
	}
}

// Create inserts a new task record, it always starts as pending.
func (t *Task) Create(ctx context.Context, params internal.CreateParams, now time.Time) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	row, err := t.q.InsertTask(ctx, db.InsertTaskParams{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: newText(params.Description),
		DueDate:     newNullTimestamp(params.DueDate),
		Priority:    newPriority(params.Priority),
		CreatedAt:   newTimestamp(now),
	})
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "insert task")
	}

	return convertTask(row)
}

// Find returns the requested task owned by userID.
func (t *Task) Find(ctx context.Context, userID, id int64) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	row, err := t.q.SelectTask(ctx, db.SelectTaskParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "Task not found")
		}

		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select task")
	}

	return convertTask(row)
}

// Update applies params to the task owned by userID. The row is locked while the new values are computed,
// any failure rolls back the transaction.
func (t *Task) Update(ctx context.Context, userID, id int64, params internal.UpdateParams, now time.Time) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Update").End()

	tx, err := t.conn.Begin(ctx)
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "begin")
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	q := t.q.WithTx(tx)

	row, err := q.SelectTaskForUpdate(ctx, db.SelectTaskForUpdateParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "Task not found")
		}

		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select task for update")
	}

	task, err := convertTask(row)
	if err != nil {
		return internal.Task{}, err
	}

	params.Apply(&task)

	updatedAt := now
	if updatedAt.Before(task.CreatedAt) {
		updatedAt = task.CreatedAt
	}

	row, err = q.UpdateTask(ctx, db.UpdateTaskParams{
		Title:       task.Title,
		Description: newText(task.Description),
		DueDate:     newNullTimestamp(task.DueDate),
		Priority:    newPriority(task.Priority),
		Status:      newStatus(task.Status),
		UpdatedAt:   newTimestamp(updatedAt),
		ID:          id,
		UserID:      userID,
	})
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "update task")
	}

	if err := tx.Commit(ctx); err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "commit")
	}

	return convertTask(row)
}

// Delete removes the task owned by userID.
func (t *Task) Delete(ctx context.Context, userID, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	count, err := t.q.DeleteTask(ctx, db.DeleteTaskParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "delete task")
	}

	if count == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "Task not found")
	}

	return nil
}

// List returns the tasks owned by userID matching filter, newest first.
func (t *Task) List(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.List").End()

	rows, err := t.q.ListTasks(ctx, db.ListTasksParams{
		UserID:   userID,
		Status:   newNullStatus(filter.Status),
		Priority: newNullPriority(filter.Priority),
		Overdue:  filter.Overdue,
		Now:      newTimestamp(filter.Now),
	})
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "list tasks")
	}

	res := make([]internal.Task, 0, len(rows))

	for _, row := range rows {
		task, err := convertTask(row)
		if err != nil {
			return nil, err
		}

		res = append(res, task)
	}

	return res, nil
}
