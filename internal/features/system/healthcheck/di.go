package system_healthcheck

import (
	"pocketprc/internal/downdetect"
	"pocketprc/internal/util/logger"
)

var healthcheckController = &HealthcheckController{
	downdetectService: downdetect.GetDowndetectService(),
	logger:            logger.GetLogger(),
}

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
