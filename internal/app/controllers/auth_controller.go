// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/services"
	"github.com/yigit/lecturehub/internal/middleware"
	"github.com/yigit/lecturehub/internal/pkg/auth"
)

// CookieSettings describes the session cookie written on login
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthController handles lecturer session endpoints
type AuthController struct {
	authService services.AuthService
	sessions    *auth.SessionService
	cookie      CookieSettings
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, sessions *auth.SessionService, cookie CookieSettings, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
		logger:      logger,
	}
}

// Login verifies credentials and sets the session cookie.
// POST /api/lecturer/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Debug().Msg("Invalid login request payload")
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	auth.SetSessionCookie(ctx.Writer, c.cookie.Name, result.Token, c.sessions.TTL(), c.cookie.Secure)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result.Lecturer, "Login successful"))
}

// Signup creates another lecturer account. Requires an existing session.
// POST /api/lecturer/signup
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	createdBy, _ := middleware.LecturerIDFromContext(ctx)
	c.logger.Info().Int64("lecturerID", lecturer.ID).Int64("createdBy", createdBy).Msg("Lecturer signed up")

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lecturer,
		"Lecturer account created successfully. Courses will be auto-assigned when you upload materials."))
}

// Logout clears the session cookie. It succeeds with or without a session.
// POST /api/lecturer/logout
func (c *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(c.cookie.Name); err == nil {
		if identity, ok := c.sessions.Identify(token); ok {
			c.logger.Info().Int64("lecturerID", identity.LecturerID).Msg("Lecturer logged out")
		}
	}

	auth.ClearSessionCookie(ctx.Writer, c.cookie.Name, c.cookie.Secure)
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logged out successfully"))
}

// Me returns the session's lecturer with their courses.
// GET /api/auth/me
func (c *AuthController) Me(ctx *gin.Context) {
	lecturerID, ok := middleware.LecturerIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	lecturer, err := c.authService.Me(ctx.Request.Context(), lecturerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lecturer, ""))
}
