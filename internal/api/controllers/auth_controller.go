package controllers

import (
	"errors"

	"github.com/curaious/civicpulse/internal/api/authenticator"
	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/policy"
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type RefreshRequest struct {
	Refresh *string `json:"refresh"`
}

type RegisterResponse struct {
	User    *user.User `json:"user"`
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator) {
	// Register a citizen account and sign it in
	r.POST("/api/auth/register/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req user.RegisterRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.User.Register(stdCtx, &req)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to register user", err)
			return
		}

		pair, err := auth.IssuePair(created.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", err)
			return
		}

		writeCreated(ctx, stdCtx, "User registered successfully", &RegisterResponse{
			User:    created,
			Access:  pair.Access,
			Refresh: pair.Refresh,
		})
	})

	// Login with username/password
	r.POST("/api/auth/token/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		fields := perrors.FieldErrors{}
		if req.Username == nil || *req.Username == "" {
			fields.Add("username", "This field is required.")
		}
		if req.Password == nil || *req.Password == "" {
			fields.Add("password", "This field is required.")
		}
		if len(fields) > 0 {
			writeError(ctx, stdCtx, "Username and password are required", perrors.NewErrValidation(fields))
			return
		}

		u, err := svc.User.Authenticate(stdCtx, *req.Username, *req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				writeError(ctx, stdCtx, "Invalid credentials", perrors.NewErrUnauthorized("No active account found with the given credentials"))
				return
			}
			writeError(ctx, stdCtx, "Failed to authenticate", err)
			return
		}

		pair, err := auth.IssuePair(u.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", err)
			return
		}

		writeOK(ctx, stdCtx, "Login successful", pair)
	})

	// Exchange a refresh token for a new access token
	r.POST("/api/auth/token/refresh/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req RefreshRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		if req.Refresh == nil || *req.Refresh == "" {
			writeError(ctx, stdCtx, "Refresh token is required", perrors.NewErrFieldValidation("refresh", "This field is required."))
			return
		}

		access, err := auth.Refresh(*req.Refresh)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid refresh token", perrors.NewErrUnauthorized("Token is invalid or expired"))
			return
		}

		writeOK(ctx, stdCtx, "Token refreshed", &RefreshResponse{Access: access})
	})

	// Get current user
	r.GET("/api/auth/me/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		u := caller(ctx)
		if !authorize(ctx, stdCtx, policy.Authenticated(u)) {
			return
		}

		writeOK(ctx, stdCtx, "success", u)
	})
}
