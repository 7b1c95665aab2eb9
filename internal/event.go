package internal

// Types of the events published after a task is mutated, they are also used as routing keys.
const (
	TaskEventCreated = "tasks.event.created"
	TaskEventUpdated = "tasks.event.updated"
	TaskEventDeleted = "tasks.event.deleted"
)
