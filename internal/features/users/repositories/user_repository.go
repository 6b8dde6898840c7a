package users_repositories

import (
	"errors"
	"time"

	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct{}

func (r *UserRepository) CreateUser(tx *gorm.DB, user *users_models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	return storage.GetDbOr(tx).Create(user).Error
}

// GetUserByEmail returns nil, nil when no user matches.
func (r *UserRepository) GetUserByEmail(email string) (*users_models.User, error) {
	var user users_models.User

	if err := storage.GetDb().Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	var user users_models.User

	if err := storage.GetDb().Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByIDForUpdate(tx *gorm.DB, userID uuid.UUID) (*users_models.User, error) {
	var user users_models.User

	if err := tx.Raw(`SELECT * FROM users WHERE id = ? FOR UPDATE`, userID).Scan(&user).Error; err != nil {
		return nil, err
	}

	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &user, nil
}

func (r *UserRepository) GetTeamMembers(teamID uuid.UUID) ([]*users_models.User, error) {
	var users []*users_models.User

	err := storage.GetDb().
		Where("team_id = ?", teamID).
		Order("name ASC").
		Find(&users).Error

	return users, err
}

func (r *UserRepository) CountSuperAdmins() (int64, error) {
	var count int64

	err := storage.GetDb().Model(&users_models.User{}).
		Where("role = ?", users_enums.UserRoleSuperAdmin).
		Count(&count).Error

	return count, err
}

func (r *UserRepository) CountActiveUsers() (int64, error) {
	var count int64

	err := storage.GetDb().Model(&users_models.User{}).
		Where("is_active = ?", true).
		Count(&count).Error

	return count, err
}

func (r *UserRepository) UpdateUserPassword(tx *gorm.DB, userID uuid.UUID, hashedPassword string) error {
	now := time.Now().UTC().Truncate(time.Microsecond)

	return storage.GetDbOr(tx).Model(&users_models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"hashed_password":        hashedPassword,
			"password_creation_time": now,
			"updated_at":             now,
		}).Error
}

func (r *UserRepository) UpdateUserFields(tx *gorm.DB, userID uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()

	return storage.GetDbOr(tx).Model(&users_models.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}

func (r *UserRepository) UpdateUserTeamAndRole(
	tx *gorm.DB,
	userID uuid.UUID,
	teamID *uuid.UUID,
	role users_enums.UserRole,
) error {
	return storage.GetDbOr(tx).Model(&users_models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"team_id":    teamID,
			"role":       role,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ResetTeamMembers detaches every member of a team and demotes them to agent.
func (r *UserRepository) ResetTeamMembers(tx *gorm.DB, teamID uuid.UUID) error {
	return storage.GetDbOr(tx).Model(&users_models.User{}).
		Where("team_id = ?", teamID).
		Updates(map[string]any{
			"team_id":    nil,
			"role":       users_enums.UserRoleAgent,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *UserRepository) GetUsersWithTeams(limit, offset int) ([]*users_dto.AdminUserDTO, int64, error) {
	users := make([]*users_dto.AdminUserDTO, 0)
	var total int64

	if err := storage.GetDb().Model(&users_models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := storage.GetDb().Raw(`
		SELECT u.id, u.name, u.email, u.role, u.team_id, u.is_active, u.created_at, t.name AS team_name
		FROM users u
		LEFT JOIN teams t ON u.team_id = t.id
		ORDER BY u.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset).Scan(&users).Error

	return users, total, err
}

func (r *UserRepository) RenameUserEmailForTests(oldEmail, newEmail string) error {
	return storage.GetDb().Model(&users_models.User{}).
		Where("email = ?", oldEmail).
		Update("email", newEmail).Error
}

func (r *UserRepository) TeamExists(teamID uuid.UUID) (bool, error) {
	var exists bool

	err := storage.GetDb().Raw(`SELECT EXISTS (SELECT 1 FROM teams WHERE id = ?)`, teamID).Scan(&exists).Error

	return exists, err
}
