package users_controllers

import (
	users_dto "pocketprc/internal/features/users/dto"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type ActivityLogWriterStub struct{}

func (s *ActivityLogWriterStub) WriteActivity(string, *uuid.UUID, *uuid.UUID, map[string]any) {}

// InviteRedeemerStub knows no invites at all.
type InviteRedeemerStub struct{}

func (s *InviteRedeemerStub) RedeemInvite(*gorm.DB, string, string, uuid.UUID) (*users_dto.InviteGrant, error) {
	return nil, nil
}

func createUserTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api")

	GetAuthController().RegisterRoutes(api)
	GetAuthController().SetLoginLimiter(rate.NewLimiter(rate.Limit(1000), 1000))

	protected := api.Group("").Use(users_middleware.AuthMiddleware(users_services.GetUserService()))
	GetAuthController().RegisterProtectedRoutes(protected.(*gin.RouterGroup))
	GetManagementController().RegisterRoutes(protected.(*gin.RouterGroup))

	users_services.GetUserService().SetActivityLogWriter(&ActivityLogWriterStub{})
	users_services.GetUserService().SetInviteRedeemer(&InviteRedeemerStub{})
	users_services.GetManagementService().SetActivityLogWriter(&ActivityLogWriterStub{})

	return router
}
