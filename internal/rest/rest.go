package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-tracker/internal"
)

// ErrorResponse represents a response containing an error message.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// renderErrorResponse maps the error code to an HTTP status, msg is only used for internal errors.
func renderErrorResponse(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	resp := ErrorResponse{Error: "Internal server error", Message: msg}
	status := http.StatusInternalServerError

	var ierr *internal.Error
	if errors.As(err, &ierr) {
		switch ierr.Code() {
		case internal.ErrorCodeNotFound:
			status = http.StatusNotFound
			resp.Error = "Not found"
			resp.Message = ierr.Message()
		case internal.ErrorCodeInvalidArgument:
			status = http.StatusBadRequest
			resp.Error = "Bad request"
			resp.Message = ierr.Message()

			var verrs validation.Errors
			if errors.As(ierr, &verrs) {
				resp.Message = verrs.Error()
				resp.Details = make(map[string]string, len(verrs))

				for field, verr := range verrs {
					resp.Details[field] = verr.Error()
				}
			}
		case internal.ErrorCodeUnauthenticated:
			status = http.StatusUnauthorized
			resp.Error = "Unauthorized"
			resp.Message = ierr.Message()
		case internal.ErrorCodeConflict:
			status = http.StatusConflict
			resp.Error = "Conflict"
			resp.Message = ierr.Message()
		}
	}

	if err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
	}

	renderResponse(w, resp, status)
}

func renderResponse(w http.ResponseWriter, res interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		// XXX Do something with the error ;)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	_, _ = w.Write(content)
}
