package internal_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/task-tracker/internal"
)

func newPtrStr(s string) *string {
	return &s
}

// validationCode returns the code of the validation error reported for field.
func validationCode(t *testing.T, err error, field string) string {
	t.Helper()

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %T", err)

	var verr validation.Error
	require.True(t, errors.As(verrs[field], &verr), "no validation error for %q", field)

	return verr.Code()
}

func TestNewTaskInput_Params(t *testing.T) {
	t.Parallel()

	params, err := internal.NewTaskInput{
		Title:       newPtrStr("  Write report "),
		Description: newPtrStr("   "),
		DueDate:     newPtrStr("2030-01-02"),
		Priority:    newPtrStr("high"),
	}.Params(7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), params.UserID)
	assert.Equal(t, "Write report", params.Title)
	assert.Nil(t, params.Description)
	require.NotNil(t, params.DueDate)
	assert.True(t, time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC).Equal(*params.DueDate))
	assert.Equal(t, internal.PriorityHigh, params.Priority)
	assert.NoError(t, params.Validate())
}

func TestNewTaskInput_Params_Defaults(t *testing.T) {
	t.Parallel()

	params, err := internal.NewTaskInput{
		Title:       newPtrStr("X"),
		Description: newPtrStr(" notes "),
		DueDate:     newPtrStr(""),
		Priority:    newPtrStr(""),
	}.Params(1)
	require.NoError(t, err)

	assert.Equal(t, internal.PriorityMedium, params.Priority)
	assert.Nil(t, params.DueDate)
	require.NotNil(t, params.Description)
	assert.Equal(t, "notes", *params.Description)
}

func TestNewTaskInput_Params_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    internal.NewTaskInput
		field    string
		wantCode string
	}{
		{
			"missing title",
			internal.NewTaskInput{},
			"title",
			"validation_missing_field",
		},
		{
			"blank title",
			internal.NewTaskInput{Title: newPtrStr("   ")},
			"title",
			"validation_missing_field",
		},
		{
			"invalid priority",
			internal.NewTaskInput{Title: newPtrStr("X"), Priority: newPtrStr("urgent")},
			"priority",
			"validation_invalid_priority",
		},
		{
			"invalid due date",
			internal.NewTaskInput{Title: newPtrStr("X"), DueDate: newPtrStr("next week")},
			"due_date",
			"validation_invalid_due_date",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.input.Params(1)
			require.Error(t, err)

			var ierr *internal.Error
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
			assert.Equal(t, tt.wantCode, validationCode(t, err, tt.field))
		})
	}
}

func TestUpdateTaskInput_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var input internal.UpdateTaskInput

	err := json.Unmarshal([]byte(`{"description": null, "due_date": "", "status": "completed"}`), &input)
	require.NoError(t, err)

	assert.False(t, input.Title.Set)
	assert.True(t, input.Description.Set)
	assert.False(t, input.Description.Valid)
	assert.True(t, input.DueDate.Set)
	assert.True(t, input.DueDate.Valid)
	assert.Equal(t, internal.NewOptionalString("completed"), input.Status)
	assert.False(t, input.Empty())

	var empty internal.UpdateTaskInput

	require.NoError(t, json.Unmarshal([]byte(`{"unknown": 1}`), &empty))
	assert.True(t, empty.Empty())
}

func TestUpdateTaskInput_Params(t *testing.T) {
	t.Parallel()

	var input internal.UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"description": null, "due_date": "2031-05-06 10:00:00", "status": "completed", "priority": ""}`), &input))

	params, err := input.Params()
	require.NoError(t, err)

	assert.Nil(t, params.Title)
	assert.Nil(t, params.Priority)
	require.NotNil(t, params.Status)
	assert.Equal(t, internal.StatusCompleted, *params.Status)
	assert.True(t, params.DescriptionSet)
	assert.Nil(t, params.Description)
	assert.True(t, params.DueDateSet)
	require.NotNil(t, params.DueDate)

	description := "keep me"
	task := internal.Task{
		Title:       "Title",
		Description: &description,
		Priority:    internal.PriorityLow,
		Status:      internal.StatusPending,
	}

	params.Apply(&task)

	assert.Equal(t, "Title", task.Title)
	assert.Nil(t, task.Description)
	assert.Equal(t, internal.PriorityLow, task.Priority)
	assert.Equal(t, internal.StatusCompleted, task.Status)
	assert.True(t, time.Date(2031, 5, 6, 10, 0, 0, 0, time.UTC).Equal(*task.DueDate))
}

func TestUpdateTaskInput_Params_OnlyStatus(t *testing.T) {
	t.Parallel()

	params, err := internal.UpdateTaskInput{Status: internal.NewOptionalString("Completed")}.Params()
	require.NoError(t, err)

	description := "notes"
	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	task := internal.Task{
		Title:       "Title",
		Description: &description,
		DueDate:     &due,
		Priority:    internal.PriorityHigh,
		Status:      internal.StatusPending,
	}

	params.Apply(&task)

	assert.Equal(t, "Title", task.Title)
	assert.Equal(t, &description, task.Description)
	assert.Equal(t, &due, task.DueDate)
	assert.Equal(t, internal.PriorityHigh, task.Priority)
	assert.Equal(t, internal.StatusCompleted, task.Status)
}

func TestUpdateTaskInput_Params_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		field    string
		wantCode string
	}{
		{"empty title", `{"title": ""}`, "title", "validation_missing_field"},
		{"null title", `{"title": null}`, "title", "validation_missing_field"},
		{"invalid status", `{"status": "done"}`, "status", "validation_invalid_status"},
		{"invalid priority", `{"priority": "urgent"}`, "priority", "validation_invalid_priority"},
		{"invalid due date", `{"due_date": "soon"}`, "due_date", "validation_invalid_due_date"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var input internal.UpdateTaskInput
			require.NoError(t, json.Unmarshal([]byte(tt.input), &input))

			_, err := input.Params()
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, validationCode(t, err, tt.field))
		})
	}
}
