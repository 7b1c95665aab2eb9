package internal

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultSearchSize is the maximum number of tasks returned by a search.
const DefaultSearchSize = 50

// SearchParams defines the arguments used for searching tasks by text.
type SearchParams struct {
	UserID int64
	Query  string `json:"q"`
	Size   int
}

// Normalize trims the query.
func (a SearchParams) Normalize() SearchParams {
	a.Query = strings.TrimSpace(a.Query)

	return a
}

// Validate indicates whether the fields are valid or not, blank queries are invalid.
func (a SearchParams) Validate() error {
	a = a.Normalize()

	if err := validation.ValidateStruct(&a,
		validation.Field(&a.UserID, validation.Required),
		validation.Field(&a.Query, validation.Required.ErrorObject(ErrMissingField)),
		validation.Field(&a.Size, validation.Min(1), validation.Max(DefaultSearchSize)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid search")
	}

	return nil
}

// SearchResults defines the collection of tasks that were found.
type SearchResults struct {
	Tasks []Task
	Total int64
}
