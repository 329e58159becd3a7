package controllers

import (
	"errors"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/policy"
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/report"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterReportRoutes(r *router.Router, svc *services.Services) {
	// List a project's reports
	r.GET("/api/projects/{id}/reports/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", err)
			return
		}

		reports, err := svc.Report.ListForProject(stdCtx, projectID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list reports", err)
			return
		}

		writeOK(ctx, stdCtx, "Reports retrieved successfully", reports)
	})

	// File a report against a project
	r.POST("/api/projects/{id}/reports/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		author := caller(ctx)
		if !authorize(ctx, stdCtx, policy.AuthenticatedOrReadOnly(author, string(ctx.Method()))) {
			return
		}

		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", err)
			return
		}

		var body report.CreateReportRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Report.Create(stdCtx, projectID, author, &body)
		if err != nil {
			if errors.Is(err, report.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found.", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to create report", err)
			return
		}

		writeCreated(ctx, stdCtx, "Report created successfully", created)
	})

	// List every report, officials only
	r.GET("/api/reports/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if !authorize(ctx, stdCtx, policy.OfficialsOnly(caller(ctx))) {
			return
		}

		reports, err := svc.Report.ListAll(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list reports", err)
			return
		}

		writeOK(ctx, stdCtx, "Reports retrieved successfully", reports)
	})

	// Move a report through its workflow, officials only
	updateStatus := func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if !authorize(ctx, stdCtx, policy.OfficialsOnly(caller(ctx))) {
			return
		}

		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", err)
			return
		}

		var body report.UpdateStatusRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		updated, err := svc.Report.UpdateStatus(stdCtx, id, &body)
		if err != nil {
			if errors.Is(err, report.ErrReportNotFound) {
				writeError(ctx, stdCtx, "Report not found", perrors.NewErrNotFound("Not found.", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to update report", err)
			return
		}

		writeOK(ctx, stdCtx, "Report updated successfully", updated)
	}
	r.PUT("/api/reports/{id}/", updateStatus)
	r.PATCH("/api/reports/{id}/", updateStatus)
}
