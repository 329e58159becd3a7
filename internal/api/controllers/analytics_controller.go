package controllers

import (
	"errors"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/analytics"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

type OKResponse struct {
	OK bool `json:"ok"`
}

// RegisterAnalyticsRoutes wires the anonymous tracking endpoints behind track,
// which applies the per-client throttle, and the public pulse snapshot.
func RegisterAnalyticsRoutes(r *router.Router, svc *services.Services, track func(fasthttp.RequestHandler) fasthttp.RequestHandler) {
	// Record a search
	r.POST("/api/analytics/search/", track(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body analytics.TrackSearchRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		query := ""
		if body.Query != nil {
			query = *body.Query
		}

		if err := svc.Analytics.TrackSearch(stdCtx, query); err != nil {
			writeError(ctx, stdCtx, "Failed to record search", err)
			return
		}

		writeCreated(ctx, stdCtx, "Search recorded", &OKResponse{OK: true})
	}))

	// Record a project view
	r.POST("/api/analytics/project-view/", track(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body analytics.TrackProjectViewRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		if err := svc.Analytics.TrackProjectView(stdCtx, body.ProjectID); err != nil {
			switch {
			case errors.Is(err, analytics.ErrProjectIDRequired), errors.Is(err, analytics.ErrInvalidProjectID):
				writeError(ctx, stdCtx, err.Error(), perrors.NewErrInvalidRequest(err.Error(), err))
			case errors.Is(err, analytics.ErrProjectNotFound):
				writeError(ctx, stdCtx, err.Error(), perrors.NewErrNotFound(err.Error(), err))
			default:
				writeError(ctx, stdCtx, "Failed to record project view", err)
			}
			return
		}

		writeCreated(ctx, stdCtx, "Project view recorded", &OKResponse{OK: true})
	}))

	// Aggregate snapshot
	r.GET("/api/pulse/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		pulse, err := svc.Analytics.Pulse(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute pulse", err)
			return
		}

		writeOK(ctx, stdCtx, "Pulse computed", pulse)
	})
}
