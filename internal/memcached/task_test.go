package memcached_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/memcached"
)

type clientStub struct {
	mu    sync.Mutex
	items map[string]*memcache.Item
}

func newClientStub() *clientStub {
	return &clientStub{items: map[string]*memcache.Item{}}
}

func (c *clientStub) Add(item *memcache.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[item.Key]; ok {
		return memcache.ErrNotStored
	}

	c.items[item.Key] = item

	return nil
}

func (c *clientStub) Get(key string) (*memcache.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}

	return item, nil
}

func (c *clientStub) Set(item *memcache.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[item.Key] = item

	return nil
}

type storeStub struct {
	CreateFunc func(ctx context.Context, params internal.CreateParams, now time.Time) (internal.Task, error)
	DeleteFunc func(ctx context.Context, userID, id int64) error
	FindFunc   func(ctx context.Context, userID, id int64) (internal.Task, error)
	ListFunc   func(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error)
	UpdateFunc func(ctx context.Context, userID, id int64, params internal.UpdateParams, now time.Time) (internal.Task, error)
}

func (s *storeStub) Create(ctx context.Context, params internal.CreateParams, now time.Time) (internal.Task, error) {
	return s.CreateFunc(ctx, params, now)
}

func (s *storeStub) Delete(ctx context.Context, userID, id int64) error {
	return s.DeleteFunc(ctx, userID, id)
}

func (s *storeStub) Find(ctx context.Context, userID, id int64) (internal.Task, error) {
	return s.FindFunc(ctx, userID, id)
}

func (s *storeStub) List(ctx context.Context, userID int64, filter internal.TaskFilter) ([]internal.Task, error) {
	return s.ListFunc(ctx, userID, filter)
}

func (s *storeStub) Update(ctx context.Context, userID, id int64, params internal.UpdateParams, now time.Time) (internal.Task, error) {
	return s.UpdateFunc(ctx, userID, id, params, now)
}

func newTask() internal.Task {
	description := "notes"
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	return internal.Task{
		ID:          1,
		UserID:      7,
		Title:       "Title",
		Description: &description,
		Priority:    internal.PriorityHigh,
		Status:      internal.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestTask_Find(t *testing.T) {
	t.Parallel()

	expected := newTask()
	calls := 0

	store := &storeStub{
		FindFunc: func(_ context.Context, userID, id int64) (internal.Task, error) {
			calls++

			if userID != expected.UserID || id != expected.ID {
				return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
			}

			return expected, nil
		},
	}

	cache := memcached.NewTask(newClientStub(), store, zap.NewNop())

	actual, err := cache.Find(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	actual, err = cache.Find(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	assert.Equal(t, 1, calls)

	_, err = cache.Find(context.Background(), 8, 1)
	require.Error(t, err)

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
	assert.Equal(t, 2, calls)
}

func TestTask_Update(t *testing.T) {
	t.Parallel()

	original := newTask()
	updated := original
	updated.Status = internal.StatusCompleted

	current := original
	finds := 0

	store := &storeStub{
		CreateFunc: func(_ context.Context, _ internal.CreateParams, _ time.Time) (internal.Task, error) {
			return original, nil
		},
		UpdateFunc: func(_ context.Context, _, _ int64, _ internal.UpdateParams, _ time.Time) (internal.Task, error) {
			current = updated
			return updated, nil
		},
		FindFunc: func(_ context.Context, _, _ int64) (internal.Task, error) {
			finds++
			return current, nil
		},
	}

	cache := memcached.NewTask(newClientStub(), store, zap.NewNop())

	_, err := cache.Create(context.Background(), internal.CreateParams{}, time.Now())
	require.NoError(t, err)

	actual, err := cache.Find(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, internal.StatusPending, actual.Status)
	assert.Equal(t, 0, finds)

	_, err = cache.Update(context.Background(), 7, 1, internal.UpdateParams{}, time.Now())
	require.NoError(t, err)

	actual, err = cache.Find(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, internal.StatusCompleted, actual.Status)
	assert.Equal(t, 1, finds)
}

func TestTask_Update_Error(t *testing.T) {
	t.Parallel()

	client := newClientStub()

	store := &storeStub{
		CreateFunc: func(_ context.Context, _ internal.CreateParams, _ time.Time) (internal.Task, error) {
			return newTask(), nil
		},
		UpdateFunc: func(_ context.Context, _, _ int64, _ internal.UpdateParams, _ time.Time) (internal.Task, error) {
			return internal.Task{}, errors.New("deadlock detected")
		},
	}

	cache := memcached.NewTask(client, store, zap.NewNop())

	_, err := cache.Create(context.Background(), internal.CreateParams{}, time.Now())
	require.NoError(t, err)

	_, err = cache.Update(context.Background(), 7, 1, internal.UpdateParams{}, time.Now())
	require.Error(t, err)

	// The cached value is still valid.
	actual, err := cache.Find(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, newTask(), actual)
}

func TestTask_Delete(t *testing.T) {
	t.Parallel()

	task := newTask()
	deleted := false

	store := &storeStub{
		CreateFunc: func(_ context.Context, _ internal.CreateParams, _ time.Time) (internal.Task, error) {
			return task, nil
		},
		DeleteFunc: func(_ context.Context, _, _ int64) error {
			deleted = true
			return nil
		},
		FindFunc: func(_ context.Context, _, _ int64) (internal.Task, error) {
			if deleted {
				return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
			}

			return task, nil
		},
	}

	cache := memcached.NewTask(newClientStub(), store, zap.NewNop())

	_, err := cache.Create(context.Background(), internal.CreateParams{}, time.Now())
	require.NoError(t, err)

	require.NoError(t, cache.Delete(context.Background(), 7, 1))

	_, err = cache.Find(context.Background(), 7, 1)
	assert.Error(t, err)
}

func TestTask_Delete_Error(t *testing.T) {
	t.Parallel()

	store := &storeStub{
		DeleteFunc: func(_ context.Context, _, _ int64) error {
			return internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
		},
	}

	err := memcached.NewTask(newClientStub(), store, zap.NewNop()).Delete(context.Background(), 7, 1)
	require.Error(t, err)

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
}

func TestTask_Find_ConcurrentMutation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cache *memcached.Task) error
		verify func(t *testing.T, task internal.Task, err error)
	}{
		{
			"delete",
			func(cache *memcached.Task) error {
				return cache.Delete(context.Background(), 7, 1)
			},
			func(t *testing.T, _ internal.Task, err error) {
				var ierr *internal.Error
				require.ErrorAs(t, err, &ierr)
				assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
			},
		},
		{
			"update",
			func(cache *memcached.Task) error {
				_, err := cache.Update(context.Background(), 7, 1, internal.UpdateParams{}, time.Now())
				return err
			},
			func(t *testing.T, task internal.Task, err error) {
				require.NoError(t, err)
				assert.Equal(t, internal.StatusCompleted, task.Status)
			},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				mu      sync.Mutex
				current = newTask()
				exists  = true
			)

			read := make(chan struct{})
			resume := make(chan struct{})
			blocked := true

			store := &storeStub{
				FindFunc: func(_ context.Context, _, _ int64) (internal.Task, error) {
					mu.Lock()
					task, ok, block := current, exists, blocked
					blocked = false
					mu.Unlock()

					// The first read stalls after loading the row, the mutation commits meanwhile.
					if block {
						close(read)
						<-resume
					}

					if !ok {
						return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "Task not found")
					}

					return task, nil
				},
				DeleteFunc: func(_ context.Context, _, _ int64) error {
					mu.Lock()
					defer mu.Unlock()

					exists = false

					return nil
				},
				UpdateFunc: func(_ context.Context, _, _ int64, _ internal.UpdateParams, _ time.Time) (internal.Task, error) {
					mu.Lock()
					defer mu.Unlock()

					current.Status = internal.StatusCompleted

					return current, nil
				},
			}

			cache := memcached.NewTask(newClientStub(), store, zap.NewNop())

			done := make(chan error)

			go func() {
				_, err := cache.Find(context.Background(), 7, 1)
				done <- err
			}()

			<-read
			require.NoError(t, tt.mutate(cache))
			close(resume)
			require.NoError(t, <-done)

			task, err := cache.Find(context.Background(), 7, 1)
			tt.verify(t, task, err)
		})
	}
}
