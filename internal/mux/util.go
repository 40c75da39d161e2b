package mux

import (
	"encoding/json"
	"errors"
	"net/http"
	"piratepoker-server/pkg/engine"

	"github.com/sirupsen/logrus"
)

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" && ct != "text/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	Kind       string `json:"kind,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// statusCode maps an engine error kind onto an HTTP status
func statusCode(kind engine.Kind) int {
	switch kind {
	case engine.KindUnauthenticated:
		return http.StatusUnauthorized
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case engine.KindForbidden:
		return http.StatusForbidden
	case engine.KindInvalidArgument:
		return http.StatusBadRequest
	case engine.KindResourceExhausted:
		return http.StatusUnprocessableEntity
	case engine.KindConflict:
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// writeEngineError writes the error with a status code for its kind
// Messages of unclassified errors are not exposed
func writeEngineError(w http.ResponseWriter, err error) {
	kind := engine.KindOf(err)
	code := statusCode(kind)
	if code >= http.StatusInternalServerError {
		writeJSONError(w, code, err)
		return
	}

	msg := err.Error()
	var e *engine.Error
	if errors.As(err, &e) {
		msg = e.Message
	}

	writeJSON(w, code, errorResponse{
		Message:    msg,
		Kind:       kind.String(),
		StatusCode: code,
	})
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
