package internal

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TaskFilter defines the optional filters used when listing tasks, all of them must match.
type TaskFilter struct {
	Status   *Status
	Priority *Priority
	// Overdue selects pending tasks with a due date before Now.
	Overdue bool
	Now     time.Time
}

// NewTaskFilter converts raw query values to a TaskFilter, empty values are not applied.
//
// overdue is only applied when its value is "true", any other value, including "false", is the same
// as not filtering by it.
func NewTaskFilter(status, priority, overdue string, now time.Time) (TaskFilter, error) {
	res := TaskFilter{
		Overdue: strings.EqualFold(overdue, "true"),
		Now:     now,
	}

	verrs := validation.Errors{}

	if status != "" {
		s, err := ParseStatus(status)
		if err != nil {
			verrs["status"] = ErrInvalidStatus
		} else {
			res.Status = &s
		}
	}

	if priority != "" {
		p, err := ParsePriority(priority)
		if err != nil {
			verrs["priority"] = ErrInvalidPriority
		} else {
			res.Priority = &p
		}
	}

	if err := verrs.Filter(); err != nil {
		return TaskFilter{}, WrapErrorf(err, ErrorCodeInvalidArgument, "invalid filter")
	}

	return res, nil
}

// Match indicates whether task passes all the filters.
func (f TaskFilter) Match(task Task) bool {
	if f.Status != nil && task.Status != *f.Status {
		return false
	}

	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}

	if f.Overdue && !task.IsOverdue(f.Now) {
		return false
	}

	return true
}
