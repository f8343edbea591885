// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with JSON error rendering so
// handlers report failures in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs an unexpected failure and writes a 500 envelope with
// the generic user message. The caught error's text becomes the debug-only
// details field.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if userMsg == "" {
		userMsg = "An error occurred"
	}
	details := ""
	if err != nil {
		details = err.Error()
	}
	Render(w, http.StatusInternalServerError, userMsg, details)
}

// LogBadRequest logs a malformed-input failure and writes a 400 envelope.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Warn(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	RenderValidation(w, userMsg)
}

// LogNotFound logs a lookup miss and writes a 404 envelope.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, userMsg string) {
	e.log.Warn(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	RenderNotFound(w, userMsg)
}
