package checklists_testing

import (
	"pocketprc/internal/features/activity_logs"
	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_services "pocketprc/internal/features/checklists/services"
	teams_services "pocketprc/internal/features/teams/services"
	users_dto "pocketprc/internal/features/users/dto"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"
	users_testing "pocketprc/internal/features/users/testing"

	"github.com/gin-gonic/gin"
)

type ControllerInterface interface {
	RegisterRoutes(router *gin.RouterGroup)
}

func CreateTestRouter(controllers ...ControllerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api")
	protected := api.Group("").Use(users_middleware.AuthMiddleware(users_services.GetUserService()))

	for _, controller := range controllers {
		if routerGroup, ok := protected.(*gin.RouterGroup); ok {
			controller.RegisterRoutes(routerGroup)
		}
	}

	activity_logs.SetupDependencies()
	teams_services.SetupDependencies()
	checklists_services.SetupDependencies()

	return router
}

func CreateTestChecklist(owner *users_dto.SignInResponseDTO, propertyAddress string) *checklists_dto.ChecklistDTO {
	checklist, err := checklists_services.GetChecklistService().CreateChecklist(
		users_testing.GetTestUser(owner.UserID),
		&checklists_dto.CreateChecklistRequestDTO{PropertyAddress: propertyAddress},
	)
	if err != nil {
		panic(err)
	}

	return checklist
}
