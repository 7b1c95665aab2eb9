package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sanLimbu/task-tracker/internal/rest"
	"github.com/sanLimbu/task-tracker/pkg/client"
)

// Runs the full lifecycle of a task against a running rest-server.
func main() {
	var server, jaegerEndpoint string
	var pretty bool

	flag.StringVar(&server, "server", "http://0.0.0.0:9234", "REST Server Address")
	flag.StringVar(&jaegerEndpoint, "jaeger", "http://localhost:14268/api/traces", "Jaeger Collector Endpoint")
	flag.BoolVar(&pretty, "pretty", false, "Print the collected traces")
	flag.Parse()

	tp := initTracer(jaegerEndpoint, pretty)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = tp.Shutdown(ctx)
	}()

	httpClient := http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	c, err := client.New(server, client.WithHTTPClient(&httpClient))
	if err != nil {
		log.Fatalf("Couldn't instantiate client: %s", err)
	}

	if err := smoke(context.Background(), c); err != nil {
		log.Fatalf("Smoke test failed: %s", err)
	}

	fmt.Println("All good")
}

func smoke(ctx context.Context, c *client.Client) error {
	health, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("c.Health %w", err)
	}

	fmt.Printf("Health: %s (version %s)\n", health.Status, health.Version)

	username := "user-" + uuid.NewString()[:8]

	if _, err := c.Register(ctx, username, username+"@example.com", "password123"); err != nil {
		return fmt.Errorf("c.Register %w", err)
	}

	session, err := c.Login(ctx, username, "password123")
	if err != nil {
		return fmt.Errorf("c.Login %w", err)
	}

	fmt.Printf("Logged in as %s (ID %d)\n", session.User.Username, session.User.ID)

	newPtrStr := func(s string) *string {
		return &s
	}

	created, err := c.CreateTask(ctx, client.CreateTaskRequest{
		Title:       "Write report",
		Description: newPtrStr("Quarterly numbers"),
		DueDate:     newPtrStr(time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02T15:04:05")),
		Priority:    newPtrStr("High"),
	})
	if err != nil {
		return fmt.Errorf("c.CreateTask %w", err)
	}

	printTask("New Task", created)

	tasks, err := c.ListTasks(ctx, client.ListTasksParams{Priority: "High"})
	if err != nil {
		return fmt.Errorf("c.ListTasks %w", err)
	}

	fmt.Printf("High priority tasks: %d\n", len(tasks))

	updated, err := c.UpdateTask(ctx, created.ID, client.UpdateTaskRequest{
		Status: newPtrStr("Completed"),
	})
	if err != nil {
		return fmt.Errorf("c.UpdateTask %w", err)
	}

	printTask("Updated Task", updated)

	read, err := c.Task(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("c.Task %w", err)
	}

	printTask("Read Task", read)

	stats, err := c.Stats(ctx)
	if err != nil {
		return fmt.Errorf("c.Stats %w", err)
	}

	fmt.Printf("Stats\n\tTotal: %d\n\tCompleted: %d\n\tCompletion Rate: %.2f\n",
		stats.TotalTasks, stats.CompletedTasks, stats.CompletionRate)

	if err := c.DeleteTask(ctx, created.ID); err != nil {
		return fmt.Errorf("c.DeleteTask %w", err)
	}

	if _, err := c.Task(ctx, created.ID); err == nil {
		return fmt.Errorf("task %d still exists", created.ID)
	}

	if err := c.Logout(ctx); err != nil {
		return fmt.Errorf("c.Logout %w", err)
	}

	return nil
}

func printTask(header string, task rest.Task) {
	fmt.Printf("%s\n\tID: %d\n", header, task.ID)
	fmt.Printf("\tTitle: %s\n", task.Title)
	fmt.Printf("\tPriority: %s\n", task.Priority)
	fmt.Printf("\tStatus: %s\n", task.Status)

	if task.DueDate != nil {
		fmt.Printf("\tDue: %s\n", task.DueDate)
	}
}

func initTracer(jaegerEndpoint string, pretty bool) *sdktrace.TracerProvider {
	jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		log.Fatalf("Couldn't initialize jaeger exporter: %s", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(jaegerExporter),
	}

	if pretty {
		stdoutExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Fatalf("Couldn't initialize stdout exporter: %s", err)
		}

		opts = append(opts, sdktrace.WithBatcher(stdoutExporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp
}
