package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
)

const maxBodySize = 1024 * 1024

// Response represents a standardized API response
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Kind      string      `json:"kind,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	writeResponse(w, code, Response{
		Success:   code >= 200 && code < 300,
		Data:      payload,
		RequestID: middleware.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := "Internal server error"
	kind := errors.KindInternal

	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		msg = appErr.Message
		kind = appErr.Kind
	}

	entry := middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
		"error":  err,
		"status": code,
		"kind":   kind,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Warn("Request error")
	}

	writeResponse(w, code, Response{
		Success:   false,
		Error:     msg,
		Kind:      string(kind),
		RequestID: middleware.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

func writeResponse(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

func respondAttachment(w http.ResponseWriter, filename, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(text)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

func isJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// decodeBody fills v from a JSON body, or from form fields through
// fromForm otherwise.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, fromForm func(r *http.Request)) error {
	const op = "api.decodeBody"

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return errors.InvalidInput(op, err, "Invalid JSON format")
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.InvalidInput(op, err, "Failed to parse form data")
	}
	fromForm(r)
	return nil
}
