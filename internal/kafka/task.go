package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"

	"github.com/sanLimbu/task-tracker/internal"
)

const otelName = "github.com/sanLimbu/task-tracker/internal/kafka"

// Producer defines the Kafka operation used for publishing messages, *kafka.Producer implements it.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

// Task represents the repository used for publishing Task records.
type Task struct {
	producer  Producer
	topicName string
}

// Event is the message published to the topic, the indexer consumes it.
type Event struct {
	ID         string
	Type       string
	OccurredAt time.Time
	Value      internal.Task
}

// NewTask instantiates the Task repository.
func NewTask(producer Producer, topicName string) *Task {
	return &Task{
		topicName: topicName,
		producer:  producer,
	}
}

// Created publishes a message indicating a task was created.
func (t *Task) Created(ctx context.Context, task internal.Task) error {
	return t.publish(ctx, "Task.Created", internal.TaskEventCreated, task)
}

// Deleted publishes a message indicating a task was deleted.
func (t *Task) Deleted(ctx context.Context, userID, id int64) error {
	return t.publish(ctx, "Task.Deleted", internal.TaskEventDeleted, internal.Task{ID: id, UserID: userID})
}

// Updated publishes a message indicating a task was updated.
func (t *Task) Updated(ctx context.Context, task internal.Task) error {
	return t.publish(ctx, "Task.Updated", internal.TaskEventUpdated, task)
}

func (t *Task) publish(ctx context.Context, spanName, msgType string, task internal.Task) error {
	_, span := otel.Tracer(otelName).Start(ctx, spanName)
	defer span.End()

	span.SetAttributes(
		attribute.KeyValue{
			Key:   semconv.MessagingSystemKey,
			Value: attribute.StringValue("kafka"),
		},
		attribute.KeyValue{
			Key:   semconv.MessagingDestinationKey,
			Value: attribute.StringValue(t.topicName),
		},
	)

	var b bytes.Buffer

	evt := Event{
		ID:         uuid.NewString(),
		Type:       msgType,
		OccurredAt: time.Now().UTC(),
		Value:      task,
	}

	if err := json.NewEncoder(&b).Encode(evt); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Encode")
	}

	if err := t.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &t.topicName,
			Partition: kafka.PartitionAny,
		},
		// Same key for all the events of a task so they are consumed in order.
		Key:   []byte(strconv.FormatInt(task.ID, 10)),
		Value: b.Bytes(),
	}, nil); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "producer.Produce")
	}

	return nil
}
