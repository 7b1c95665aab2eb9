package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-tracker/internal"
)

const otelName = "github.com/sanLimbu/task-tracker/internal/service"

// TaskRepository defines the datastore handling persisting Task records, every operation is scoped to an owner.
type TaskRepository interface {
	Create(ctx context.Context, params internal.CreateParams, now time.Time) (internal.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	Find(ctx context.Context, userID, id int64) (internal.Task, error)
	List(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error)
	Update(ctx context.Context, userID, id int64, params internal.UpdateParams, now time.Time) (internal.Task, error)
}

// TaskSearchRepository defines the datastore handling searching Task records.
type TaskSearchRepository interface {
	Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
}

// TaskMessageBrokerRepository defines the messaging broker notifying changes on Task records.
type TaskMessageBrokerRepository interface {
	Created(ctx context.Context, task internal.Task) error
	Deleted(ctx context.Context, userID, id int64) error
	Updated(ctx context.Context, task internal.Task) error
}

// Task defines the application service in charge of interacting with Tasks.
type Task struct {
	logger    *zap.Logger
	repo      TaskRepository
	search    TaskSearchRepository
	msgBroker TaskMessageBrokerRepository
	now       func() time.Time
}

// NewTask ...
func NewTask(logger *zap.Logger, repo TaskRepository, search TaskSearchRepository, msgBroker TaskMessageBrokerRepository) *Task {
	return &Task{
		logger:    logger,
		repo:      repo,
		search:    search,
		msgBroker: msgBroker,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// By returns the Tasks owned by userID matching filter, most recently created first.
//
// filter.Now is replaced with the service clock.
func (t *Task) By(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.By")
	defer span.End()

	filter.Now = t.now()

	res, err := t.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("repo list: %w", err)
	}

	return res, nil
}

// Stats aggregates all the Tasks owned by userID.
func (t *Task) Stats(ctx context.Context, userID int64) (internal.TaskStats, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Stats")
	defer span.End()

	now := t.now()

	tasks, err := t.repo.List(ctx, userID, internal.TaskFilter{Now: now})
	if err != nil {
		return internal.TaskStats{}, fmt.Errorf("repo list: %w", err)
	}

	return internal.NewTaskStats(tasks, now), nil
}

// Search finds the Tasks owned by args.UserID matching the text query.
func (t *Task) Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Search")
	defer span.End()

	args = args.Normalize()

	if args.Size == 0 {
		args.Size = internal.DefaultSearchSize
	}

	if err := args.Validate(); err != nil {
		return internal.SearchResults{}, fmt.Errorf("validate: %w", err)
	}

	res, err := t.search.Search(ctx, args)
	if err != nil {
		return internal.SearchResults{}, fmt.Errorf("search: %w", err)
	}

	return res, nil
}

// Create stores a new record.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Create")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.Task{}, fmt.Errorf("validate: %w", err)
	}

	task, err := t.repo.Create(ctx, params, t.now())
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo create: %w", err)
	}

	if err := t.msgBroker.Created(ctx, task); err != nil {
		t.logger.Warn("Couldn't publish created event", zap.Int64("id", task.ID), zap.Error(err))
	}

	return task, nil
}

// Delete removes an existing Task from the datastore.
func (t *Task) Delete(ctx context.Context, userID, id int64) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Delete")
	defer span.End()

	if err := t.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("repo delete: %w", err)
	}

	if err := t.msgBroker.Deleted(ctx, userID, id); err != nil {
		t.logger.Warn("Couldn't publish deleted event", zap.Int64("id", id), zap.Error(err))
	}

	return nil
}

// Task gets an existing Task from the datastore.
func (t *Task) Task(ctx context.Context, userID, id int64) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Task")
	defer span.End()

	task, err := t.repo.Find(ctx, userID, id)
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo find: %w", err)
	}

	return task, nil
}

// Update applies params to an existing Task in the datastore, updated_at always advances.
func (t *Task) Update(ctx context.Context, userID, id int64, params internal.UpdateParams) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Update")
	defer span.End()

	task, err := t.repo.Update(ctx, userID, id, params, t.now())
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo update: %w", err)
	}

	if err := t.msgBroker.Updated(ctx, task); err != nil {
		t.logger.Warn("Couldn't publish updated event", zap.Int64("id", task.ID), zap.Error(err))
	}

	return task, nil
}
