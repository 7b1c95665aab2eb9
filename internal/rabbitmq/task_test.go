package rabbitmq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/rabbitmq"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type channelStub struct {
	published []published
	err       error
}

func (c *channelStub) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}

	c.published = append(c.published, published{exchange, key, msg})

	return nil
}

func TestTask_Publish(t *testing.T) {
	t.Parallel()

	ch := &channelStub{}
	publisher := rabbitmq.NewTask(ch)

	description := "notes"
	task := internal.Task{ID: 3, UserID: 7, Title: "Title", Description: &description, Priority: internal.PriorityHigh, Status: internal.StatusCompleted}

	require.NoError(t, publisher.Created(context.Background(), task))
	require.NoError(t, publisher.Updated(context.Background(), task))
	require.NoError(t, publisher.Deleted(context.Background(), 7, 3))

	require.Len(t, ch.published, 3)

	assert.Equal(t, internal.TaskEventCreated, ch.published[0].key)
	assert.Equal(t, internal.TaskEventUpdated, ch.published[1].key)
	assert.Equal(t, internal.TaskEventDeleted, ch.published[2].key)

	for _, p := range ch.published {
		assert.Equal(t, rabbitmq.ExchangeName, p.exchange)
		assert.NotEmpty(t, p.msg.MessageId)
	}

	actual, err := rabbitmq.DecodeTask(ch.published[0].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, task, actual)

	deleted, err := rabbitmq.DecodeTask(ch.published[2].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, internal.Task{ID: 3, UserID: 7}, deleted)
}

func TestTask_Publish_Error(t *testing.T) {
	t.Parallel()

	err := rabbitmq.NewTask(&channelStub{err: errors.New("channel closed")}).Created(context.Background(), internal.Task{ID: 1})
	require.Error(t, err)

	_, err = rabbitmq.DecodeTask([]byte("not gob"))
	assert.Error(t, err)
}
