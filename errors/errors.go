package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers and the API can react to it without
// inspecting messages.
type Kind string

const (
	KindInvalidURL            Kind = "invalid_url"
	KindCaptionsUnavailable   Kind = "captions_unavailable"
	KindCaptionsTransport     Kind = "captions_transport"
	KindAudioExtractionFailed Kind = "audio_extraction_failed"
	KindEmptyTranscription    Kind = "empty_transcription"
	KindTranscriptUnavailable Kind = "transcript_unavailable"
	KindTranscriptTooShort    Kind = "transcript_too_short"
	KindNoSummarizableContent Kind = "no_summarizable_content"
	KindInvalidInput          Kind = "invalid_input"
	KindTimeout               Kind = "timeout"
	KindInternal              Kind = "internal"
)

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// E builds an AppError with an explicit kind and status code.
func E(op string, err error, message string, kind Kind, code int) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidURL(op string, err error, message string) *AppError {
	return E(op, err, message, KindInvalidURL, http.StatusBadRequest)
}

func CaptionsUnavailable(op string, err error, message string) *AppError {
	return E(op, err, message, KindCaptionsUnavailable, http.StatusNotFound)
}

// CaptionsTransport reports a caption request that failed in transit rather
// than because the video has no captions.
func CaptionsTransport(op string, err error, message string) *AppError {
	return E(op, err, message, KindCaptionsTransport, http.StatusBadGateway)
}

func AudioExtractionFailed(op string, err error, message string) *AppError {
	return E(op, err, message, KindAudioExtractionFailed, http.StatusBadGateway)
}

func EmptyTranscription(op string, err error, message string) *AppError {
	return E(op, err, message, KindEmptyTranscription, http.StatusUnprocessableEntity)
}

func TranscriptUnavailable(op string, err error, message string) *AppError {
	return E(op, err, message, KindTranscriptUnavailable, http.StatusUnprocessableEntity)
}

func TranscriptTooShort(op string, err error, message string) *AppError {
	return E(op, err, message, KindTranscriptTooShort, http.StatusUnprocessableEntity)
}

func NoSummarizableContent(op string, err error, message string) *AppError {
	return E(op, err, message, KindNoSummarizableContent, http.StatusUnprocessableEntity)
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(op, err, message, KindInvalidInput, http.StatusBadRequest)
}

func Timeout(op string, err error, message string) *AppError {
	return E(op, err, message, KindTimeout, http.StatusGatewayTimeout)
}

func Internal(op string, err error, message string) *AppError {
	return E(op, err, message, KindInternal, http.StatusInternalServerError)
}

// KindOf returns the kind of the outermost AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether any AppError in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Kind == kind {
			return true
		}
		err = appErr.Err
	}
	return false
}

func IsCaptionsUnavailable(err error) bool { return Is(err, KindCaptionsUnavailable) }
func IsCaptionsTransport(err error) bool   { return Is(err, KindCaptionsTransport) }
func IsInvalidURL(err error) bool          { return Is(err, KindInvalidURL) }

// As is re-exported so callers importing this package do not also need the
// standard library errors package.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
