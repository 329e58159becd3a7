package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/curaious/civicpulse/internal/api/authenticator"
	"github.com/curaious/civicpulse/internal/api/controllers"
	"github.com/curaious/civicpulse/internal/api/response"
	"github.com/curaious/civicpulse/internal/api/throttle"
	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/curaious/civicpulse/internal/telemetry"
	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const requestIDHeader = "X-Request-ID"

// Dependencies is everything the HTTP surface needs besides configuration.
type Dependencies struct {
	Services       *services.Services
	Auth           *authenticator.Authenticator
	Limiter        throttle.Limiter
	AllowedHeaders string
}

// NewHandler builds the routed handler wrapped in the request middlewares.
func NewHandler(deps Dependencies) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	controllers.RegisterAuthRoutes(r, deps.Services, deps.Auth)
	controllers.RegisterProjectRoutes(r, deps.Services)
	controllers.RegisterCommentRoutes(r, deps.Services)
	controllers.RegisterReportRoutes(r, deps.Services)
	controllers.RegisterAnalyticsRoutes(r, deps.Services, withThrottle(deps.Limiter))

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeMiddlewareError(ctx, perrors.NewErrNotFound("Not found.", nil))
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		msg := "Method \"" + string(ctx.Method()) + "\" not allowed."
		writeMiddlewareError(ctx, perrors.Err{Code: perrors.ErrCodeMethodNotAllowed, Message: msg})
	}

	return withMiddlewares(r.Handler, deps)
}

func withMiddlewares(next fasthttp.RequestHandler, deps Dependencies) fasthttp.RequestHandler {
	tracer := otel.Tracer(telemetry.TracerName)
	propagator := otel.GetTextMapPropagator()

	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx, deps.AllowedHeaders)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		requestID := string(ctx.Request.Header.Peek(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, requestID)

		start := time.Now()
		method := string(ctx.Method())
		requestURI := string(ctx.RequestURI())

		traceCtx := propagator.Extract(context.Background(), headerCarrier{&ctx.Request.Header})
		traceCtx, span := tracer.Start(traceCtx, method+" "+string(ctx.Path()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.path", string(ctx.Path())),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()
		ctx.SetUserValue(controllers.TraceCtxKey, traceCtx)

		slog.InfoContext(traceCtx, "Started processing", slog.String("method", method), slog.String("request_uri", requestURI), slog.String("request_id", requestID))

		if authenticate(ctx, traceCtx, deps) {
			next(ctx)
		}

		status := ctx.Response.StatusCode()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= fasthttp.StatusInternalServerError {
			span.SetStatus(codes.Error, fasthttp.StatusMessage(status))
		}

		slog.InfoContext(traceCtx, "Finished processing", slog.String("method", method), slog.String("request_uri", requestURI), slog.Int("status", status), slog.Duration("duration", time.Since(start)))
	}
}

// authenticate resolves an optional bearer token to a user. Requests without
// a token continue anonymously; a bad token stops the request with 401.
func authenticate(ctx *fasthttp.RequestCtx, stdCtx context.Context, deps Dependencies) bool {
	header := string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
	if header == "" {
		return true
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		writeMiddlewareError(ctx, perrors.NewErrUnauthorized("Authentication credentials were not provided."))
		return false
	}

	claims, err := deps.Auth.VerifyAccessToken(strings.TrimSpace(token))
	if err != nil {
		slog.WarnContext(stdCtx, "Rejected access token", slog.Any("error", err))
		writeMiddlewareError(ctx, perrors.NewErrUnauthorized("Given token not valid for any token type"))
		return false
	}

	u, err := deps.Services.User.GetByID(stdCtx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeMiddlewareError(ctx, perrors.NewErrUnauthorized("User not found"))
			return false
		}
		writeMiddlewareError(ctx, perrors.NewErrInternalServerError("Failed to load user", err))
		return false
	}

	ctx.SetUserValue(controllers.UserKey, u)
	return true
}

// withThrottle limits anonymous tracking per client IP. Limiter failures let the request through.
func withThrottle(limiter throttle.Limiter) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if limiter == nil {
			return next
		}

		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, ok := ctx.UserValue(controllers.TraceCtxKey).(context.Context)
			if !ok {
				stdCtx = context.Background()
			}

			allowed, err := limiter.Allow(stdCtx, ctx.RemoteIP().String())
			if err != nil {
				slog.ErrorContext(stdCtx, "Rate limiter unavailable", slog.Any("error", err))
				allowed = true
			}
			if !allowed {
				writeMiddlewareError(ctx, perrors.Err{Code: perrors.ErrCodeTooManyRequests, Message: "Request was throttled."})
				return
			}

			next(ctx)
		}
	}
}

func writeMiddlewareError(ctx *fasthttp.RequestCtx, err error) {
	stdCtx, ok := ctx.UserValue(controllers.TraceCtxKey).(context.Context)
	if !ok {
		stdCtx = context.Background()
	}
	response.NewResponse[any](stdCtx, "Request rejected", nil).WithError(err).Write(ctx)
}

func applyCORS(ctx *fasthttp.RequestCtx, allowedHeaders string) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", allowedHeaders)
	headers.Set("Access-Control-Allow-Credentials", "true")
}

// headerCarrier adapts fasthttp request headers for trace context extraction.
type headerCarrier struct {
	h *fasthttp.RequestHeader
}

var _ propagation.TextMapCarrier = headerCarrier{}

func (c headerCarrier) Get(key string) string {
	return string(c.h.Peek(key))
}

func (c headerCarrier) Set(key, value string) {
	c.h.Set(key, value)
}

func (c headerCarrier) Keys() []string {
	keys := []string{}
	c.h.VisitAll(func(k, _ []byte) {
		keys = append(keys, string(k))
	})
	return keys
}
