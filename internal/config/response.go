package config

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
)

// retryAfter is advertised when the failure came from a provider that is expected to recover.
const retryAfter = "30"

type errorBody struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Retryable bool              `json:"retryable,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.WithError(err).Error("Failed to encode response")
	}
}

// Error writes err using the status of its taxonomy kind. Unclassified errors are hidden behind a
// generic message.
func Error(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	body := errorBody{Error: err.Error(), Code: apperr.Code(err)}
	if status == http.StatusInternalServerError {
		body.Error = "internal server error"
	}
	if apperr.Retryable(err) {
		body.Retryable = true
		w.Header().Set("Retry-After", retryAfter)
	}

	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		body.Fields = map[string]string{fe.Field: fe.Message}
	}

	JSON(w, status, body)
}
