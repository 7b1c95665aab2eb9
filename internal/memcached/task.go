package memcached

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-tracker/internal"
)

// Task is a cache-aside decorator of TaskStore, only single task reads are cached.
//
// Values are only added when the key is absent, Update and Delete write a tombstone instead of removing the key
// so a Find that read the row before the mutation can't cache it afterwards.
type Task struct {
	client     Client
	orig       TaskStore
	expiration time.Duration
	tombstone  time.Duration
	logger     *zap.Logger
}

// TaskStore defines the datastore being decorated.
type TaskStore interface {
	Create(ctx context.Context, params internal.CreateParams, now time.Time) (internal.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	Find(ctx context.Context, userID, id int64) (internal.Task, error)
	List(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error)
	Update(ctx context.Context, userID, id int64, params internal.UpdateParams, now time.Time) (internal.Task, error)
}

// NewTask instantiates the decorator, values expire after 15 minutes and tombstones after 30 seconds.
func NewTask(client Client, orig TaskStore, logger *zap.Logger) *Task {
	return &Task{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		tombstone:  30 * time.Second,
		logger:     logger,
	}
}

// Create stores a new task and caches it.
func (t *Task) Create(ctx context.Context, params internal.CreateParams, now time.Time) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	task, err := t.orig.Create(ctx, params, now)
	if err != nil {
		return internal.Task{}, fmt.Errorf("orig.Create: %w", err)
	}

	t.add(ctx, task)

	return task, nil
}

// Delete removes the task and invalidates its cached value.
func (t *Task) Delete(ctx context.Context, userID, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	if err := t.orig.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("orig.Delete: %w", err)
	}

	t.invalidate(ctx, userID, id)

	return nil
}

// Find returns the cached task, on misses the value is read from the store and then cached.
func (t *Task) Find(ctx context.Context, userID, id int64) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	var res internal.Task

	if err := getValue(ctx, t.client, taskKey(userID, id), &res); err == nil {
		return res, nil
	}

	res, err := t.orig.Find(ctx, userID, id)
	if err != nil {
		return internal.Task{}, fmt.Errorf("orig.Find: %w", err)
	}

	t.add(ctx, res)

	return res, nil
}

// List is not cached, results depend on the current time.
func (t *Task) List(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error) {
	res, err := t.orig.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("orig.List: %w", err)
	}

	return res, nil
}

// Update updates the task and invalidates its cached value.
func (t *Task) Update(ctx context.Context, userID, id int64, params internal.UpdateParams, now time.Time) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Update").End()

	task, err := t.orig.Update(ctx, userID, id, params, now)
	if err != nil {
		return internal.Task{}, fmt.Errorf("orig.Update: %w", err)
	}

	t.invalidate(ctx, userID, id)

	return task, nil
}

func (t *Task) add(ctx context.Context, task internal.Task) {
	err := addValue(ctx, t.client, taskKey(task.UserID, task.ID), &task, t.expiration)
	if err != nil && !errors.Is(err, memcache.ErrNotStored) {
		t.logger.Warn("Couldn't cache task", zap.Int64("id", task.ID), zap.Error(err))
	}
}

func (t *Task) invalidate(ctx context.Context, userID, id int64) {
	if err := setTombstone(ctx, t.client, taskKey(userID, id), t.tombstone); err != nil {
		t.logger.Warn("Couldn't invalidate task", zap.Int64("id", id), zap.Error(err))
	}
}

func taskKey(userID, id int64) string {
	return fmt.Sprintf("task:%d:%d", userID, id)
}
