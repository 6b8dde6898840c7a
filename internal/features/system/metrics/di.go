package system_metrics

import (
	"pocketprc/internal/config"
	"pocketprc/internal/util/logger"
)

var hostMetricsService = &HostMetricsService{
	diskPath: config.GetEnv().BackendRootPath,
	logger:   logger.GetLogger(),
}

func GetHostMetricsService() *HostMetricsService {
	return hostMetricsService
}
