package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const titleMaxLength = 200

// Validation errors reported per field when a task payload is rejected.
var (
	ErrMissingField    = validation.NewError("validation_missing_field", "is required")
	ErrTitleTooLong    = validation.NewError("validation_title_too_long", "must be at most 200 characters")
	ErrInvalidDueDate  = validation.NewError("validation_invalid_due_date", "must use ISO format (YYYY-MM-DDTHH:MM:SS)")
	ErrInvalidPriority = validation.NewError("validation_invalid_priority", "must be Low, Medium, or High")
	ErrInvalidStatus   = validation.NewError("validation_invalid_status", "must be Pending or Completed")
)

// OptionalString is a string value that tells apart a missing field from an explicit null.
type OptionalString struct {
	// Set is true when the field was present.
	Set bool
	// Valid is true when the field was present and not null.
	Valid bool
	Value string
}

// NewOptionalString returns a present, non null, value.
func NewOptionalString(s string) OptionalString {
	return OptionalString{Set: true, Valid: true, Value: s}
}

// UnmarshalJSON implements json.Unmarshaler, it's only called when the field is present.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Valid = false
	o.Value = ""

	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}

	o.Valid = true

	return nil
}

// NewTaskInput is the raw, untrusted, payload used for creating tasks.
type NewTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
}

// Validate indicates whether the input can be converted to CreateParams.
func (in NewTaskInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.By(validateTitle)),
		validation.Field(&in.DueDate, validation.By(validateDueDate)),
		validation.Field(&in.Priority, validation.By(validatePriority)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid task")
	}

	return nil
}

// Params validates and normalizes the input.
func (in NewTaskInput) Params(userID int64) (CreateParams, error) {
	if err := in.Validate(); err != nil {
		return CreateParams{}, err
	}

	res := CreateParams{
		UserID:      userID,
		Title:       strings.TrimSpace(*in.Title),
		Description: normalizeText(in.Description),
		Priority:    PriorityMedium,
	}

	if in.DueDate != nil && *in.DueDate != "" {
		due, _ := ParseDueDate(*in.DueDate) // Already validated
		res.DueDate = &due
	}

	if in.Priority != nil && *in.Priority != "" {
		res.Priority, _ = ParsePriority(*in.Priority) // Already validated
	}

	return res, nil
}

// CreateParams defines the arguments used for creating Task records.
type CreateParams struct {
	UserID      int64
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    Priority
}

// Validate indicates whether the fields are valid or not.
func (c CreateParams) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.Title, validation.Required.ErrorObject(ErrMissingField), validation.RuneLength(1, titleMaxLength)),
		validation.Field(&c.Priority),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid task")
	}

	return nil
}

// UpdateTaskInput is the raw, untrusted, payload used for updating tasks. Every field is optional.
type UpdateTaskInput struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	DueDate     OptionalString `json:"due_date"`
	Priority    OptionalString `json:"priority"`
	Status      OptionalString `json:"status"`
}

// Empty indicates none of the fields were present.
func (in UpdateTaskInput) Empty() bool {
	return !in.Title.Set && !in.Description.Set && !in.DueDate.Set && !in.Priority.Set && !in.Status.Set
}

// Validate indicates whether the input can be converted to UpdateParams.
func (in UpdateTaskInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.When(in.Title.Set, validation.By(validateTitle))),
		validation.Field(&in.DueDate, validation.By(validateDueDate)),
		validation.Field(&in.Priority, validation.By(validatePriority)),
		validation.Field(&in.Status, validation.By(validateStatus)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid task")
	}

	return nil
}

// Params validates and normalizes the input.
//
// A null or empty description and due date clear the stored value, a null or empty priority and
// status leave the stored value unchanged.
func (in UpdateTaskInput) Params() (UpdateParams, error) {
	if err := in.Validate(); err != nil {
		return UpdateParams{}, err
	}

	var res UpdateParams

	if in.Title.Set {
		title := strings.TrimSpace(in.Title.Value)
		res.Title = &title
	}

	if in.Description.Set {
		res.DescriptionSet = true
		if in.Description.Valid {
			res.Description = normalizeText(&in.Description.Value)
		}
	}

	if in.DueDate.Set {
		res.DueDateSet = true
		if in.DueDate.Valid && in.DueDate.Value != "" {
			due, _ := ParseDueDate(in.DueDate.Value) // Already validated
			res.DueDate = &due
		}
	}

	if in.Priority.Valid && in.Priority.Value != "" {
		priority, _ := ParsePriority(in.Priority.Value) // Already validated
		res.Priority = &priority
	}

	if in.Status.Valid && in.Status.Value != "" {
		status, _ := ParseStatus(in.Status.Value) // Already validated
		res.Status = &status
	}

	return res, nil
}

// UpdateParams defines the arguments used for updating Task records, nil values are left unchanged.
type UpdateParams struct {
	Title    *string
	Priority *Priority
	Status   *Status

	// DescriptionSet indicates Description must be applied, a nil Description clears it.
	DescriptionSet bool
	Description    *string

	// DueDateSet indicates DueDate must be applied, a nil DueDate clears it.
	DueDateSet bool
	DueDate    *time.Time
}

// Apply copies the fields to update into task.
func (p UpdateParams) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}

	if p.Priority != nil {
		task.Priority = *p.Priority
	}

	if p.Status != nil {
		task.Status = *p.Status
	}

	if p.DescriptionSet {
		task.Description = p.Description
	}

	if p.DueDateSet {
		task.DueDate = p.DueDate
	}
}

func validateTitle(value interface{}) error {
	s, ok := stringValue(value)
	if !ok {
		return ErrMissingField
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return ErrMissingField
	}

	if utf8.RuneCountInString(s) > titleMaxLength {
		return ErrTitleTooLong
	}

	return nil
}

func validateDueDate(value interface{}) error {
	s, ok := stringValue(value)
	if !ok || s == "" {
		return nil
	}

	if _, err := ParseDueDate(s); err != nil {
		return ErrInvalidDueDate
	}

	return nil
}

func validatePriority(value interface{}) error {
	s, ok := stringValue(value)
	if !ok || s == "" {
		return nil
	}

	if _, err := ParsePriority(s); err != nil {
		return ErrInvalidPriority
	}

	return nil
}

func validateStatus(value interface{}) error {
	s, ok := stringValue(value)
	if !ok || s == "" {
		return nil
	}

	if _, err := ParseStatus(s); err != nil {
		return ErrInvalidStatus
	}

	return nil
}

// stringValue returns the value of a present and non null field.
func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case OptionalString:
		return v.Value, v.Set && v.Valid
	case string:
		return v, true
	}

	return "", false
}

// normalizeText trims s, empty values are converted to nil.
func normalizeText(s *string) *string {
	if s == nil {
		return nil
	}

	res := strings.TrimSpace(*s)
	if res == "" {
		return nil
	}

	return &res
}
