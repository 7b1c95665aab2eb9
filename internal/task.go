package internal

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Priority indicates how important a Task is.
type Priority int8

const (
	// The zero value is intentionally not a valid priority.
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// Validate ...
func (p Priority) Validate() error {
	if _, ok := priorityNames[p]; !ok {
		return NewErrorf(ErrorCodeInvalidArgument, "unknown priority value")
	}

	return nil
}

// String returns the display name of the priority, "Low", "Medium" or "High".
func (p Priority) String() string {
	return priorityNames[p]
}

// ParsePriority converts a raw value to Priority, matching is case insensitive.
func ParsePriority(s string) (Priority, error) {
	name := titleCase(s)
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}

	return Priority(0), NewErrorf(ErrorCodeInvalidArgument, "unknown priority value: %q", s)
}

// Status indicates whether a Task is done.
type Status int8

const (
	// The zero value is intentionally not a valid status.
	StatusPending Status = iota + 1
	StatusCompleted
)

var statusNames = map[Status]string{
	StatusPending:   "Pending",
	StatusCompleted: "Completed",
}

// Validate ...
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return NewErrorf(ErrorCodeInvalidArgument, "unknown status value")
	}

	return nil
}

// String returns the display name of the status, "Pending" or "Completed".
func (s Status) String() string {
	return statusNames[s]
}

// ParseStatus converts a raw value to Status, matching is case insensitive.
func ParseStatus(s string) (Status, error) {
	name := titleCase(s)
	for st, n := range statusNames {
		if n == name {
			return st, nil
		}
	}

	return Status(0), NewErrorf(ErrorCodeInvalidArgument, "unknown status value: %q", s)
}

// Task is an activity that needs to be completed by its owner.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue indicates the task is still pending and its due date passed before now.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Status != StatusPending || t.DueDate == nil {
		return false
	}

	return t.DueDate.Before(now)
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.ToLower(s))
}
