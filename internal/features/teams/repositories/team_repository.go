package teams_repositories

import (
	"errors"
	"time"

	teams_dto "pocketprc/internal/features/teams/dto"
	teams_models "pocketprc/internal/features/teams/models"
	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository struct{}

const selectTeamWithCounts = `
	SELECT
		t.id,
		t.name,
		t.brokerage_name,
		t.created_by,
		t.created_at,
		t.updated_at,
		(SELECT COUNT(*) FROM users u WHERE u.team_id = t.id AND u.is_active = TRUE) AS member_count,
		(SELECT COUNT(*) FROM checklists c WHERE c.team_id = t.id) AS checklist_count
	FROM teams t`

func (r *TeamRepository) CreateTeam(tx *gorm.DB, team *teams_models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}

	return storage.GetDbOr(tx).Create(team).Error
}

// GetTeamByID returns nil, nil when the team does not exist.
func (r *TeamRepository) GetTeamByID(teamID uuid.UUID) (*teams_models.Team, error) {
	var team teams_models.Team

	if err := storage.GetDb().Where("id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &team, nil
}

func (r *TeamRepository) GetTeamWithCounts(teamID uuid.UUID) (*teams_dto.TeamResponseDTO, error) {
	var teams []*teams_dto.TeamResponseDTO

	err := storage.GetDb().Raw(selectTeamWithCounts+` WHERE t.id = ?`, teamID).Scan(&teams).Error
	if err != nil {
		return nil, err
	}

	if len(teams) == 0 {
		return nil, nil
	}

	return teams[0], nil
}

func (r *TeamRepository) GetAllTeamsWithCounts() ([]*teams_dto.TeamResponseDTO, error) {
	teams := make([]*teams_dto.TeamResponseDTO, 0)

	err := storage.GetDb().Raw(selectTeamWithCounts + ` ORDER BY t.created_at DESC`).Scan(&teams).Error

	return teams, err
}

func (r *TeamRepository) UpdateTeam(teamID uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()

	return storage.GetDb().Model(&teams_models.Team{}).
		Where("id = ?", teamID).
		Updates(fields).Error
}

func (r *TeamRepository) DeleteTeam(tx *gorm.DB, teamID uuid.UUID) error {
	return storage.GetDbOr(tx).Where("id = ?", teamID).Delete(&teams_models.Team{}).Error
}

func (r *TeamRepository) CountTeams() (int64, error) {
	var count int64

	err := storage.GetDb().Model(&teams_models.Team{}).Count(&count).Error

	return count, err
}
