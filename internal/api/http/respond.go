package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courses/internal/progress"
	"github.com/mind-engage/mindengage-courses/internal/quiz"
)

const maxBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into dst and runs its validate tags. An empty body
// is accepted only when optional is set.
func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(dst)
	if err != nil && !(optional && errors.Is(err, io.EOF)) {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// fail maps service errors onto status codes. Unexpected errors are logged and
// reported without detail.
func fail(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		malformed *quiz.MalformedRecordError
		invalid   *quiz.ValidationError
		missing   *progress.MissingFieldError
		badField  *progress.InvalidFieldError
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid quiz", "problems": invalid.Problems})
	case errors.As(err, &malformed), errors.As(err, &missing), errors.As(err, &badField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, quiz.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
