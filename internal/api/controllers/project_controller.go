package controllers

import (
	"context"
	"errors"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/policy"
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterProjectRoutes(r *router.Router, svc *services.Services) {
	// List projects
	r.GET("/api/projects/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		filter := project.ListFilter{
			Status: project.Status(optionalStringQuery(ctx, "status")),
			County: optionalStringQuery(ctx, "county"),
			Search: optionalStringQuery(ctx, "search"),
		}

		projects, err := svc.Project.List(stdCtx, filter)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list projects", err)
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Create project
	r.POST("/api/projects/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if !authorize(ctx, stdCtx, policy.ProjectWrite(caller(ctx), string(ctx.Method()))) {
			return
		}

		var body project.ProjectInput
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Project.Create(stdCtx, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create project", err)
			return
		}

		writeCreated(ctx, stdCtx, "Project created successfully", created)
	})

	// Map markers
	r.GET("/api/projects/map/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		markers, err := svc.Project.MapMarkers(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list map markers", err)
			return
		}

		writeOK(ctx, stdCtx, "Map markers retrieved successfully", markers)
	})

	// Get project
	r.GET("/api/projects/{id}/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", err)
			return
		}

		p, err := svc.Project.GetByID(stdCtx, id)
		if err != nil {
			writeProjectError(ctx, stdCtx, "Failed to get project", err)
			return
		}

		writeOK(ctx, stdCtx, "Project retrieved successfully", p)
	})

	// Update project, PUT replaces and PATCH merges
	update := func(partial bool) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx := requestContext(ctx)
			if !authorize(ctx, stdCtx, policy.ProjectWrite(caller(ctx), string(ctx.Method()))) {
				return
			}

			id, err := pathParamInt64(ctx, "id")
			if err != nil {
				writeError(ctx, stdCtx, "Invalid ID format", err)
				return
			}

			var body project.ProjectInput
			if err := parseBody(ctx, &body); err != nil {
				writeError(ctx, stdCtx, "Invalid request body", err)
				return
			}

			updated, err := svc.Project.Update(stdCtx, id, &body, partial)
			if err != nil {
				writeProjectError(ctx, stdCtx, "Failed to update project", err)
				return
			}

			writeOK(ctx, stdCtx, "Project updated successfully", updated)
		}
	}
	r.PUT("/api/projects/{id}/", update(false))
	r.PATCH("/api/projects/{id}/", update(true))

	// Delete project
	r.DELETE("/api/projects/{id}/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if !authorize(ctx, stdCtx, policy.ProjectWrite(caller(ctx), string(ctx.Method()))) {
			return
		}

		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", err)
			return
		}

		if err := svc.Project.Delete(stdCtx, id); err != nil {
			writeProjectError(ctx, stdCtx, "Failed to delete project", err)
			return
		}

		writeNoContent(ctx, stdCtx, "Project deleted successfully")
	})
}

func writeProjectError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	if errors.Is(err, project.ErrProjectNotFound) {
		writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Not found.", err))
		return
	}
	writeError(ctx, stdCtx, message, err)
}
