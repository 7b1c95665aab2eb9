package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/postgresql/db"
)

//go:generate sqlc generate -f ../../sqlc.yaml

const otelName = "github.com/sanLimbu/task-tracker/internal/postgresql"

// Conn defines the PostgreSQL connection used by the repositories, *pgxpool.Pool implements it.
type Conn interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

func convertPriority(p db.Priority) (internal.Priority, error) {
	switch p {
	case db.PriorityLow:
		return internal.PriorityLow, nil
	case db.PriorityMedium:
		return internal.PriorityMedium, nil
	case db.PriorityHigh:
		return internal.PriorityHigh, nil
	}

	return internal.Priority(0), fmt.Errorf("unknown priority value: %s", p)
}

func newPriority(p internal.Priority) db.Priority {
	switch p {
	case internal.PriorityLow:
		return db.PriorityLow
	case internal.PriorityMedium:
		return db.PriorityMedium
	case internal.PriorityHigh:
		return db.PriorityHigh
	}

	return "invalid"
}

func newNullPriority(p *internal.Priority) db.NullPriority {
	if p == nil {
		return db.NullPriority{}
	}

	return db.NullPriority{Priority: newPriority(*p), Valid: true}
}

func convertStatus(s db.Status) (internal.Status, error) {
	switch s {
	case db.StatusPending:
		return internal.StatusPending, nil
	case db.StatusCompleted:
		return internal.StatusCompleted, nil
	}

	return internal.Status(0), fmt.Errorf("unknown status value: %s", s)
}

func newStatus(s internal.Status) db.Status {
	switch s {
	case internal.StatusPending:
		return db.StatusPending
	case internal.StatusCompleted:
		return db.StatusCompleted
	}

	return "invalid"
}

func newNullStatus(s *internal.Status) db.NullStatus {
	if s == nil {
		return db.NullStatus{}
	}

	return db.NullStatus{Status: newStatus(*s), Valid: true}
}

// newTimestamp creates a pgtype.Timestamp, columns are stored in UTC.
func newTimestamp(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{
		Time:  t.UTC(),
		Valid: !t.IsZero(),
	}
}

func newNullTimestamp(t *time.Time) pgtype.Timestamp {
	if t == nil {
		return pgtype.Timestamp{}
	}

	return newTimestamp(*t)
}

func newText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}

	return pgtype.Text{String: *s, Valid: true}
}

func convertTask(t db.Task) (internal.Task, error) {
	priority, err := convertPriority(t.Priority)
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "convert priority")
	}

	status, err := convertStatus(t.Status)
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "convert status")
	}

	res := internal.Task{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Priority:  priority,
		Status:    status,
		CreatedAt: t.CreatedAt.Time.UTC(),
		UpdatedAt: t.UpdatedAt.Time.UTC(),
	}

	if t.Description.Valid {
		description := t.Description.String
		res.Description = &description
	}

	if t.DueDate.Valid {
		due := t.DueDate.Time.UTC()
		res.DueDate = &due
	}

	return res, nil
}

func convertUser(u db.User) internal.User {
	return internal.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.Time.UTC(),
	}
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemPostgreSQL)

	return span
}
