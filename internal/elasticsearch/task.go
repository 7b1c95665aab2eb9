package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	esv7 "github.com/elastic/go-elasticsearch/v7"
	esv7api "github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/mercari/go-circuitbreaker"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-tracker/internal"
)

const otelName = "github.com/sanLimbu/task-tracker/internal/elasticsearch"

// Task represents the repository used for interacting with Task records.
type Task struct {
	client *esv7.Client
	index  string
	cb     *circuitbreaker.CircuitBreaker
}

type indexedTask struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Priority    internal.Priority `json:"priority"`
	Status      internal.Status   `json:"status"`
	DueDate     *int64            `json:"due_date,omitempty"`
	CreatedAt   int64             `json:"created_at"`
	UpdatedAt   int64             `json:"updated_at"`
}

// NewTask instantiates the Task repository. Searches go through a circuit breaker that opens after 5
// consecutive failures.
func NewTask(client *esv7.Client) *Task {
	return &Task{
		client: client,
		index:  "tasks",
		cb: circuitbreaker.New(
			circuitbreaker.WithOpenTimeout(10*time.Second),
			circuitbreaker.WithTripFunc(circuitbreaker.NewTripFuncConsecutiveFailures(5)),
		),
	}
}

// Index creates or updates a task in an index.
func (t *Task) Index(ctx context.Context, task internal.Task) error {
	defer newOTELSpan(ctx, "Task.Index").End()

	body := indexedTask{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.UnixNano(),
		UpdatedAt:   task.UpdatedAt.UnixNano(),
	}

	if task.DueDate != nil {
		due := task.DueDate.UnixNano()
		body.DueDate = &due
	}

	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewEncoder.Encode")
	}

	req := esv7api.IndexRequest{
		Index:      t.index,
		Body:       &buf,
		DocumentID: documentID(task.ID),
		Refresh:    "true",
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "IndexRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return internal.NewErrorf(internal.ErrorCodeUnknown, "IndexRequest.Do %d", resp.StatusCode)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Delete removes a task from the index, tasks that were never indexed are ignored.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	req := esv7api.DeleteRequest{
		Index:      t.index,
		DocumentID: documentID(id),
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "DeleteRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != http.StatusNotFound {
		return internal.NewErrorf(internal.ErrorCodeUnknown, "DeleteRequest.Do %d", resp.StatusCode)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Search returns the tasks owned by args.UserID whose title or description match the query.
func (t *Task) Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	defer newOTELSpan(ctx, "Task.Search").End()

	res, err := t.cb.Do(ctx, func() (interface{}, error) {
		return t.search(ctx, args)
	})
	if err != nil {
		return internal.SearchResults{}, err
	}

	return res.(internal.SearchResults), nil
}

func (t *Task) search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  args.Query,
							"fields": []string{"title^2", "description"},
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{
							"user_id": args.UserID,
						},
					},
				},
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"id": "desc"},
		},
		"size": args.Size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewEncoder.Encode")
	}

	req := esv7api.SearchRequest{
		Index: []string{t.index},
		Body:  &buf,
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "SearchRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return internal.SearchResults{}, internal.NewErrorf(internal.ErrorCodeUnknown, "SearchRequest.Do %d", resp.StatusCode)
	}

	var hits struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source indexedTask `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewDecoder.Decode")
	}

	res := make([]internal.Task, 0, len(hits.Hits.Hits))

	for _, hit := range hits.Hits.Hits {
		task := internal.Task{
			ID:          hit.Source.ID,
			UserID:      hit.Source.UserID,
			Title:       hit.Source.Title,
			Description: hit.Source.Description,
			Priority:    hit.Source.Priority,
			Status:      hit.Source.Status,
			CreatedAt:   time.Unix(0, hit.Source.CreatedAt).UTC(),
			UpdatedAt:   time.Unix(0, hit.Source.UpdatedAt).UTC(),
		}

		if hit.Source.DueDate != nil {
			due := time.Unix(0, *hit.Source.DueDate).UTC()
			task.DueDate = &due
		}

		res = append(res, task)
	}

	return internal.SearchResults{
		Tasks: res,
		Total: hits.Hits.Total.Value,
	}, nil
}

func documentID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemElasticsearch)

	return span
}
