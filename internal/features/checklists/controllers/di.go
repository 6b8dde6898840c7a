package checklists_controllers

import (
	checklists_services "pocketprc/internal/features/checklists/services"
	"pocketprc/internal/util/logger"
)

var checklistController = &ChecklistController{
	checklistService: checklists_services.GetChecklistService(),
	logger:           logger.GetLogger(),
}

func GetChecklistController() *ChecklistController {
	return checklistController
}
