package controllers

import (
	"errors"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/policy"
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/comment"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterCommentRoutes(r *router.Router, svc *services.Services) {
	// List a project's comments
	r.GET("/api/projects/{id}/comments/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", err)
			return
		}

		comments, err := svc.Comment.ListForProject(stdCtx, projectID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list comments", err)
			return
		}

		writeOK(ctx, stdCtx, "Comments retrieved successfully", comments)
	})

	// Comment on a project
	r.POST("/api/projects/{id}/comments/", func(ctx *fasthttp.RequestCtx) {
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

		var body comment.CreateCommentRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Comment.Create(stdCtx, projectID, author, &body)
		if err != nil {
			if errors.Is(err, comment.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found.", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to create comment", err)
			return
		}

		writeCreated(ctx, stdCtx, "Comment created successfully", created)
	})
}
