package branding

import (
	"sync"

	"pocketprc/internal/cache"
	"pocketprc/internal/features/activity_logs"
	teams_services "pocketprc/internal/features/teams/services"
	cache_utils "pocketprc/internal/util/cache"
	"pocketprc/internal/util/logger"

	"golang.org/x/sync/singleflight"
)

var brandingService = &BrandingService{
	brandingRepository: &BrandingRepository{},
	activityLogService: activity_logs.GetActivityLogService(),
	brandingCache:      cache_utils.NewCacheUtil[cachedBranding](cache.GetCache(), "branding:"),
	singleflight:       singleflight.Group{},
	logger:             logger.GetLogger(),
}

var brandingController = &BrandingController{
	brandingService: brandingService,
	logger:          logger.GetLogger(),
}

var setupOnce sync.Once

func GetBrandingService() *BrandingService {
	return brandingService
}

func GetBrandingController() *BrandingController {
	return brandingController
}

func SetupDependencies() {
	setupOnce.Do(func() {
		teams_services.GetTeamService().AddTeamDeletionListener(brandingService)
		teams_services.GetTeamService().AddTeamDeletedListener(brandingService)
	})
}
