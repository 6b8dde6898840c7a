package admin

import (
	"context"
	"fmt"

	"pocketprc/internal/features/activity_logs"
	checklists_services "pocketprc/internal/features/checklists/services"
	system_metrics "pocketprc/internal/features/system/metrics"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	teams_services "pocketprc/internal/features/teams/services"
	users_repositories "pocketprc/internal/features/users/repositories"
)

const recentActivityLimit = 20

type AdminService struct {
	teamService        *teams_services.TeamService
	teamRepository     *teams_repositories.TeamRepository
	userRepository     *users_repositories.UserRepository
	checklistService   *checklists_services.ChecklistService
	activityLogService *activity_logs.ActivityLogService
	hostMetricsService *system_metrics.HostMetricsService
}

func (s *AdminService) GetTeams() (*TeamsResponseDTO, error) {
	teams, err := s.teamService.GetAllTeamsWithCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return &TeamsResponseDTO{Teams: teams}, nil
}

func (s *AdminService) GetStats(ctx context.Context) (*StatsResponseDTO, error) {
	activeUsers, err := s.userRepository.CountActiveUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalTeams, err := s.teamRepository.CountTeams()
	if err != nil {
		return nil, fmt.Errorf("failed to count teams: %w", err)
	}

	totalChecklists, err := s.checklistService.CountChecklists()
	if err != nil {
		return nil, fmt.Errorf("failed to count checklists: %w", err)
	}

	byStatus, err := s.checklistService.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count checklists by status: %w", err)
	}

	recent, err := s.activityLogService.GetRecentActivity(recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	return &StatsResponseDTO{
		ActiveUsers:        activeUsers,
		TotalTeams:         totalTeams,
		TotalChecklists:    totalChecklists,
		ChecklistsByStatus: byStatus,
		RecentActivity:     recent,
		System:             s.hostMetricsService.Collect(ctx),
	}, nil
}
