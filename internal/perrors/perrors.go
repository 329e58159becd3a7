package perrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeInvalidRequest  ErrCode = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeInternalServer          = ErrCode{"internal_server_error", http.StatusInternalServerError}
	ErrCodeNotFound                = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeUnauthorized            = ErrCode{"unauthorized", http.StatusUnauthorized}
	ErrCodeForbidden               = ErrCode{"forbidden", http.StatusForbidden}
	ErrCodeMethodNotAllowed        = ErrCode{"method_not_allowed", http.StatusMethodNotAllowed}
	ErrCodeTooManyRequests         = ErrCode{"too_many_requests", http.StatusTooManyRequests}
)

// FieldErrors maps a request field to the messages explaining why it was rejected.
type FieldErrors map[string][]string

// Add appends msg to the messages recorded for field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err is the error type every controller writes. Message is what the client sees;
// Err, Args and Stacktrace only reach the server log.
type Err struct {
	Message    string
	Err        string
	Code       ErrCode
	Fields     FieldErrors
	Stacktrace []string
	Args       []map[string]interface{}
}

func (e Err) Error() string {
	if e.Err != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e Err) HttpStatus() int {
	return e.Code.Status
}

// Body returns the client-facing JSON body: the field map for validation
// failures, otherwise {"error": message}.
func (e Err) Body() any {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return map[string]string{"error": e.Message}
}

func (e Err) Print(ctx context.Context) {
	args := []any{slog.String("code", e.Code.Code), slog.Any("error", e.Err)}
	if len(e.Fields) > 0 {
		args = append(args, slog.Any("fields", e.Fields))
	}
	if len(e.Args) > 0 {
		for k, v := range e.Args[0] {
			args = append(args, slog.Any(k, v))
		}
	}
	if e.Code.Status >= http.StatusInternalServerError {
		args = append(args, slog.Any("stacktrace", e.Stacktrace))
		slog.ErrorContext(ctx, e.Message, args...)
		return
	}
	slog.WarnContext(ctx, e.Message, args...)
}

func New(code ErrCode, msg string, err error, args ...map[string]interface{}) error {
	pc := make([]uintptr, 20)
	count := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:count])

	var stacktrace []string
	for frame, hasMore := frames.Next(); hasMore; frame, hasMore = frames.Next() {
		stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
	}

	errString := ""
	if err != nil {
		errString = err.Error()
	}

	return Err{
		Code:       code,
		Message:    msg,
		Err:        errString,
		Stacktrace: stacktrace,
		Args:       args,
	}
}

func NewErrInvalidRequest(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInvalidRequest, msg, err, args...)
}

// NewErrValidation builds a 400 whose body is the field-keyed message map.
func NewErrValidation(fields FieldErrors) error {
	return Err{
		Code:    ErrCodeInvalidRequest,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// NewErrFieldValidation is NewErrValidation for a single field.
func NewErrFieldValidation(field, msg string) error {
	return NewErrValidation(FieldErrors{field: {msg}})
}

func NewErrInternalServerError(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInternalServer, msg, err, args...)
}

func NewErrNotFound(msg string, err error) error {
	return New(ErrCodeNotFound, msg, err)
}

func NewErrUnauthorized(msg string) error {
	return Err{Code: ErrCodeUnauthorized, Message: msg}
}

func NewErrForbidden() error {
	return Err{Code: ErrCodeForbidden, Message: "You do not have permission to perform this action."}
}

// AsFieldErrors reports whether err carries field-level validation messages.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var perr Err
	if errors.As(err, &perr) && len(perr.Fields) > 0 {
		return perr.Fields, true
	}
	return nil, false
}
