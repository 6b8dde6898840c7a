package admin

import (
	"pocketprc/internal/features/activity_logs"
	checklists_enums "pocketprc/internal/features/checklists/enums"
	system_metrics "pocketprc/internal/features/system/metrics"
	teams_dto "pocketprc/internal/features/teams/dto"
)

type TeamsResponseDTO struct {
	Teams []*teams_dto.TeamResponseDTO `json:"teams"`
}

type StatsResponseDTO struct {
	ActiveUsers        int64                                      `json:"activeUsers"`
	TotalTeams         int64                                      `json:"totalTeams"`
	TotalChecklists    int64                                      `json:"totalChecklists"`
	ChecklistsByStatus map[checklists_enums.ChecklistStatus]int64 `json:"checklistsByStatus"`
	RecentActivity     []*activity_logs.ActivityLogDTO            `json:"recentActivity"`
	System             *system_metrics.HostMetrics                `json:"system"`
}
