package branding

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"pocketprc/internal/features/activity_logs"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"
	cache_utils "pocketprc/internal/util/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const globalCacheKey = "global"

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

	errAccessDenied = api_errors.Forbidden("Access denied")
	errTeamNotFound = api_errors.NotFound("Team not found")
)

type BrandingService struct {
	brandingRepository *BrandingRepository
	activityLogService *activity_logs.ActivityLogService
	brandingCache      *cache_utils.CacheUtil[cachedBranding]
	singleflight       singleflight.Group
	logger             *slog.Logger
}

// GetBranding resolves the theme for a team: its own row, then the global
// row, then the built-in defaults.
func (s *BrandingService) GetBranding(teamID *uuid.UUID) (*Branding, error) {
	if teamID != nil {
		branding, err := s.loadCached(teamCacheKey(*teamID), func() (*Branding, error) {
			return s.brandingRepository.GetTeamBranding(nil, *teamID, false)
		})
		if err != nil {
			return nil, err
		}

		if branding != nil {
			return branding, nil
		}
	}

	return s.GetGlobalBranding()
}

func (s *BrandingService) GetGlobalBranding() (*Branding, error) {
	branding, err := s.loadCached(globalCacheKey, func() (*Branding, error) {
		return s.brandingRepository.GetGlobalBranding(nil, false)
	})
	if err != nil {
		return nil, err
	}

	if branding == nil {
		return DefaultBranding(), nil
	}

	return branding, nil
}

func (s *BrandingService) UpdateTeamBranding(
	user *users_models.User,
	teamID uuid.UUID,
	request *UpdateBrandingRequestDTO,
) (*Branding, error) {
	if !user.CanManageTeam(teamID) {
		return nil, errAccessDenied
	}

	if err := validateRequest(request); err != nil {
		return nil, err
	}

	var saved *Branding
	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		exists, err := s.brandingRepository.LockTeam(tx, teamID)
		if err != nil {
			return fmt.Errorf("failed to lock team: %w", err)
		}
		if !exists {
			return errTeamNotFound
		}

		branding, err := s.brandingRepository.GetTeamBranding(tx, teamID, true)
		if err != nil {
			return fmt.Errorf("failed to get team branding: %w", err)
		}

		isNew := branding == nil
		if isNew {
			branding = DefaultBranding()
			branding.TeamID = &teamID
		}

		saved, err = s.save(tx, user, branding, request, isNew)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.brandingCache.Invalidate(teamCacheKey(teamID))

	return saved, nil
}

func (s *BrandingService) UpdateGlobalBranding(
	user *users_models.User,
	request *UpdateBrandingRequestDTO,
) (*Branding, error) {
	if !user.IsSuperAdmin() {
		return nil, errAccessDenied
	}

	if err := validateRequest(request); err != nil {
		return nil, err
	}

	var saved *Branding
	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		branding, err := s.brandingRepository.GetGlobalBranding(tx, true)
		if err != nil {
			return fmt.Errorf("failed to get global branding: %w", err)
		}

		isNew := branding == nil
		if isNew {
			branding = DefaultBranding()
		}

		saved, err = s.save(tx, user, branding, request, isNew)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.brandingCache.Invalidate(globalCacheKey)

	return saved, nil
}

// OnBeforeTeamDeletion drops the team's branding together with the team.
func (s *BrandingService) OnBeforeTeamDeletion(tx *gorm.DB, teamID uuid.UUID) error {
	if err := s.brandingRepository.DeleteTeamBranding(tx, teamID); err != nil {
		return fmt.Errorf("failed to delete team branding: %w", err)
	}

	return nil
}

// OnTeamDeleted evicts the cached branding once the deletion is committed.
func (s *BrandingService) OnTeamDeleted(teamID uuid.UUID) {
	s.brandingCache.Invalidate(teamCacheKey(teamID))
}

func (s *BrandingService) save(
	tx *gorm.DB,
	user *users_models.User,
	branding *Branding,
	request *UpdateBrandingRequestDTO,
	isNew bool,
) (*Branding, error) {
	applyRequest(branding, request)
	branding.UpdatedBy = &user.ID
	branding.UpdatedAt = time.Now().UTC()

	var err error
	if isNew {
		err = s.brandingRepository.CreateBranding(tx, branding)
	} else {
		err = s.brandingRepository.SaveBranding(tx, branding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save branding: %w", err)
	}

	scope := "global"
	if branding.TeamID != nil {
		scope = "team"
	}

	err = s.activityLogService.WriteInTx(tx, &activity_logs.ActivityLogEntry{
		UserID:  &user.ID,
		TeamID:  branding.TeamID,
		Action:  activity_logs.ActionBrandingSaved,
		Details: map[string]any{"scope": scope},
	})
	if err != nil {
		return nil, err
	}

	return branding, nil
}

func (s *BrandingService) loadCached(key string, load func() (*Branding, error)) (*Branding, error) {
	if cached := s.brandingCache.Get(key); cached != nil {
		if !cached.Exists {
			return nil, nil
		}

		return cached.Branding, nil
	}

	result, err, _ := s.singleflight.Do(key, func() (any, error) {
		return load()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load branding: %w", err)
	}

	branding, _ := result.(*Branding)
	s.brandingCache.Set(key, &cachedBranding{Exists: branding != nil, Branding: branding})

	if branding == nil {
		return nil, nil
	}

	// singleflight shares the pointer between callers
	copied := *branding
	return &copied, nil
}

func validateRequest(request *UpdateBrandingRequestDTO) error {
	colors := []struct {
		name  string
		value *string
	}{
		{"primaryColor", request.PrimaryColor},
		{"primaryHoverColor", request.PrimaryHoverColor},
		{"secondaryColor", request.SecondaryColor},
	}

	for _, color := range colors {
		if color.value == nil || strings.TrimSpace(*color.value) == "" {
			continue
		}

		if !hexColorPattern.MatchString(strings.TrimSpace(*color.value)) {
			return api_errors.Validation(fmt.Sprintf("%s must be a hex color like #b91c1c", color.name))
		}
	}

	if request.AppName != nil && len(strings.TrimSpace(*request.AppName)) > 255 {
		return api_errors.Validation("appName is too long")
	}

	if request.BrokerageName != nil && len(strings.TrimSpace(*request.BrokerageName)) > 255 {
		return api_errors.Validation("brokerageName is too long")
	}

	return nil
}

func applyRequest(branding *Branding, request *UpdateBrandingRequestDTO) {
	setIfPresent(&branding.AppName, request.AppName)
	setIfPresent(&branding.PrimaryColor, request.PrimaryColor)
	setIfPresent(&branding.PrimaryHoverColor, request.PrimaryHoverColor)
	setIfPresent(&branding.SecondaryColor, request.SecondaryColor)
	setIfPresent(&branding.BrokerageName, request.BrokerageName)

	if request.LogoURL != nil {
		logoURL := strings.TrimSpace(*request.LogoURL)
		if logoURL == "" {
			branding.LogoURL = nil
		} else {
			branding.LogoURL = &logoURL
		}
	}
}

func setIfPresent(target *string, value *string) {
	if value == nil {
		return
	}

	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		*target = trimmed
	}
}

func teamCacheKey(teamID uuid.UUID) string {
	return "team:" + teamID.String()
}
