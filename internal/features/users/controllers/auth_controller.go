package users_controllers

import (
	"log/slog"
	"net/http"

	"pocketprc/internal/config"
	users_dto "pocketprc/internal/features/users/dto"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"
	"pocketprc/internal/util/api_errors"
	env_utils "pocketprc/internal/util/env"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const RefreshTokenCookie = "refreshToken"

type AuthController struct {
	userService  *users_services.UserService
	loginLimiter *rate.Limiter
	logger       *slog.Logger
}

func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")

	auth.POST("/register", c.Register)
	auth.POST("/login", c.Login)
	auth.POST("/refresh", c.Refresh)
	auth.POST("/logout", c.Logout)
	auth.POST("/forgot-password", c.ForgotPassword)
	auth.POST("/reset-password", c.ResetPassword)
}

func (c *AuthController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")

	auth.POST("/accept-invite", c.AcceptInvite)
	auth.GET("/me", c.GetCurrentUser)
	auth.PUT("/me", c.UpdateCurrentUser)
}

func (c *AuthController) SetLoginLimiter(limiter *rate.Limiter) {
	c.loginLimiter = limiter
}

// Register
// @Summary Register a new account
// @Description Creates an agent account. With an invite token the account joins the inviting team.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.RegisterRequestDTO true "Registration data"
// @Success 201 {object} users_dto.SignInResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var request users_dto.RegisterRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name, valid email and a password of at least 6 characters are required"})
		return
	}

	response, err := c.userService.Register(&request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	c.setRefreshCookie(ctx, response.RefreshToken)
	ctx.JSON(http.StatusCreated, response)
}

// Login
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.LoginRequestDTO true "Credentials"
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	if !c.loginLimiter.Allow() {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
		return
	}

	var request users_dto.LoginRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	response, err := c.userService.Login(&request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	c.setRefreshCookie(ctx, response.RefreshToken)
	ctx.JSON(http.StatusOK, response)
}

// Refresh
// @Summary Rotate the session
// @Description Reads the refresh cookie, rotates it and returns a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	refreshToken, _ := ctx.Cookie(RefreshTokenCookie)

	response, err := c.userService.Refresh(refreshToken)
	if err != nil {
		c.clearRefreshCookie(ctx)
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	c.setRefreshCookie(ctx, response.RefreshToken)
	ctx.JSON(http.StatusOK, response)
}

// Logout
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} users_dto.MessageResponseDTO
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.clearRefreshCookie(ctx)
	ctx.JSON(http.StatusOK, users_dto.MessageResponseDTO{Message: "Logged out"})
}

// ForgotPassword
// @Summary Request a password reset email
// @Description Always answers with the same message whether or not the account exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.ForgotPasswordRequestDTO true "Email"
// @Success 200 {object} users_dto.MessageResponseDTO
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var request users_dto.ForgotPasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	response, err := c.userService.ForgotPassword(&request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ResetPassword
// @Summary Reset password with a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.ResetPasswordRequestDTO true "Token and new password"
// @Success 200 {object} users_dto.MessageResponseDTO
// @Failure 400 {object} map[string]string
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var request users_dto.ResetPasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Token and a password of at least 6 characters are required"})
		return
	}

	if err := c.userService.ResetPassword(&request); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, users_dto.MessageResponseDTO{Message: "Password has been reset"})
}

// AcceptInvite
// @Summary Accept a team invite with an existing account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users_dto.AcceptInviteRequestDTO true "Invite token"
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/accept-invite [post]
func (c *AuthController) AcceptInvite(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.AcceptInviteRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invite token is required"})
		return
	}

	profile, err := c.userService.AcceptInvite(user, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// GetCurrentUser
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (c *AuthController) GetCurrentUser(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, c.userService.GetCurrentUserProfile(user))
}

// UpdateCurrentUser
// @Summary Update current user profile
// @Description Changing the password requires the current password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users_dto.UpdateProfileRequestDTO true "Profile fields"
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/me [put]
func (c *AuthController) UpdateCurrentUser(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.UpdateProfileRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := c.userService.UpdateProfile(user, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (c *AuthController) setRefreshCookie(ctx *gin.Context, refreshToken string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		RefreshTokenCookie,
		refreshToken,
		int(users_services.RefreshTokenTTL.Seconds()),
		"/",
		"",
		config.GetEnv().EnvMode == env_utils.EnvModeProduction,
		true,
	)
}

func (c *AuthController) clearRefreshCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		RefreshTokenCookie,
		"",
		-1,
		"/",
		"",
		config.GetEnv().EnvMode == env_utils.EnvModeProduction,
		true,
	)
}
