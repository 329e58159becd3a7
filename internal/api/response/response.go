package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/curaious/civicpulse/internal/perrors"
)

// Response carries either the resource written as the body, or an error
// rendered through perrors.Err.Body.
type Response[T any] struct {
	ctx     context.Context
	err     *perrors.Err
	Message string
	Data    T
	Status  int
}

func NewResponse[T any](ctx context.Context, msg string, data T) *Response[T] {
	return &Response[T]{
		ctx:     ctx,
		Message: msg,
		Data:    data,
		Status:  http.StatusOK,
	}
}

// WithError sets the error for the response. Errors that are not perrors.Err
// become a 500 carrying only Message.
func (r *Response[T]) WithError(err error) *Response[T] {
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError(r.Message, err).(perrors.Err)
	}

	perr.Print(r.ctx)
	r.Status = perr.HttpStatus()
	r.err = &perr

	return r
}

// WithStatus will set the HTTP response status code.
//
// This is not a preferred way of setting status code.
//   - Try to use perrors.Err embedded with a status code whenever possible.
//   - Default is http.StatusOK and it need not be set explicitly.
func (r *Response[T]) WithStatus(code int) *Response[T] {
	r.Status = code

	return r
}

// Write will set the `content-type` to `application/json` and write the response to the fasthttp context.
func (r *Response[T]) Write(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(r.Status)
	if r.Status == http.StatusNoContent {
		return
	}

	var payload any = r.Data
	if r.err != nil {
		payload = r.err.Body()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(r.ctx, "Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetBody(body)
}
