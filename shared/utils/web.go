package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/campusdesk/campusdesk/shared/logger"
)

// WriteErrorAndStatusCode writes err with its status code. Anything without
// one is a 500, and store errors never leak their driver message.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		http.Error(w, e.Error(), e.StatusCode)
		return
	}
	logger.Log.Error("request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
