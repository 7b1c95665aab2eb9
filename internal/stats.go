package internal

import (
	"math"
	"time"
)

// TaskStats summarizes all the tasks owned by a user.
type TaskStats struct {
	Total             int
	Completed         int
	Pending           int
	Overdue           int
	CompletionRate    float64
	PriorityBreakdown PriorityBreakdown
}

// PriorityBreakdown counts tasks per priority.
type PriorityBreakdown struct {
	Low    int
	Medium int
	High   int
}

// NewTaskStats aggregates tasks, now is used for determining overdue tasks.
func NewTaskStats(tasks []Task, now time.Time) TaskStats {
	var res TaskStats

	for _, task := range tasks {
		res.Total++

		switch task.Status {
		case StatusCompleted:
			res.Completed++
		case StatusPending:
			res.Pending++
		}

		if task.IsOverdue(now) {
			res.Overdue++
		}

		switch task.Priority {
		case PriorityLow:
			res.PriorityBreakdown.Low++
		case PriorityMedium:
			res.PriorityBreakdown.Medium++
		case PriorityHigh:
			res.PriorityBreakdown.High++
		}
	}

	res.CompletionRate = CompletionRate(res.Completed, res.Total)

	return res
}

// CompletionRate returns the percentage of completed tasks rounded to 2 decimals, 0 when there are no tasks.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}

	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
