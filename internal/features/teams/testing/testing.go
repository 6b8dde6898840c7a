package teams_testing

import (
	"fmt"
	"time"

	"pocketprc/internal/features/activity_logs"
	teams_models "pocketprc/internal/features/teams/models"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	teams_services "pocketprc/internal/features/teams/services"
	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"
	users_testing "pocketprc/internal/features/users/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TestTeam is a team with an owner already attached.
type TestTeam struct {
	Team  *teams_models.Team
	Owner *users_dto.SignInResponseDTO
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

	return router
}

func CreateTestTeam(name string) *TestTeam {
	now := time.Now().UTC()
	team := &teams_models.Team{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("%s %s", name, uuid.New().String()[:8]),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := (&teams_repositories.TeamRepository{}).CreateTeam(nil, team); err != nil {
		panic(err)
	}

	owner := users_testing.CreateTestUserInTeam(users_enums.UserRoleOwner, team.ID)

	return &TestTeam{Team: team, Owner: owner}
}

func AddTestMember(team *TestTeam, role users_enums.UserRole) *users_dto.SignInResponseDTO {
	return users_testing.CreateTestUserInTeam(role, team.Team.ID)
}
