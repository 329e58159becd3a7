package controllers

import (
	"context"
	"fmt"
	"strconv"

	json "github.com/bytedance/sonic"
	"github.com/curaious/civicpulse/internal/api/response"
	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/policy"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/valyala/fasthttp"
)

const (
	// UserKey holds the authenticated *user.User set by the auth middleware.
	UserKey = "user"
	// TraceCtxKey holds the request's span context set by the tracing middleware.
	TraceCtxKey = "traceCtx"
)

const notAuthenticatedMessage = "Authentication credentials were not provided."

// bodyAPI keeps numbers landing in untyped fields as json.Number, so large ids stay exact.
var bodyAPI = json.Config{UseNumber: true}.Froze()

// requestContext returns the context carrying the request span, falling back
// to Background when no middleware ran.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue(TraceCtxKey).(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

// parseBody decodes the JSON body into target. An empty body leaves target
// untouched so required-field checks report per field.
func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return nil
	}

	if err := bodyAPI.Unmarshal(body, target); err != nil {
		return perrors.NewErrInvalidRequest(fmt.Sprintf("JSON parse error - %s", err.Error()), err)
	}
	return nil
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func writeCreated(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).WithStatus(fasthttp.StatusCreated).Write(ctx)
}

func writeNoContent(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string) {
	response.NewResponse[any](stdCtx, message, nil).WithStatus(fasthttp.StatusNoContent).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

// pathParamInt64 reads a numeric id. Anything else is reported as not found,
// the same answer a URL pattern restricted to digits would give.
func pathParamInt64(ctx *fasthttp.RequestCtx, key string) (int64, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return 0, perrors.NewErrNotFound("Not found.", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return 0, perrors.NewErrNotFound("Not found.", fmt.Errorf("invalid %s %q", key, val))
	}

	return id, nil
}

func optionalStringQuery(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// caller returns the authenticated user, or nil for anonymous requests.
func caller(ctx *fasthttp.RequestCtx) *user.User {
	u, _ := ctx.UserValue(UserKey).(*user.User)
	return u
}

// authorize writes 401 or 403 for a denied decision and reports whether the
// handler may continue.
func authorize(ctx *fasthttp.RequestCtx, stdCtx context.Context, decision policy.Decision) bool {
	switch decision {
	case policy.Allow:
		return true
	case policy.Unauthenticated:
		writeError(ctx, stdCtx, notAuthenticatedMessage, perrors.NewErrUnauthorized(notAuthenticatedMessage))
	default:
		writeError(ctx, stdCtx, "Forbidden", perrors.NewErrForbidden())
	}
	return false
}
