package leads

import (
	"pocketprc/internal/config"
	"pocketprc/internal/features/activity_logs"
	checklists_services "pocketprc/internal/features/checklists/services"
	"pocketprc/internal/features/mail"
	"pocketprc/internal/util/logger"
)

var leadService = &LeadService{
	checklistService: checklists_services.GetChecklistService(),
	mailQueue:        mail.GetMailService(),
	recipients: map[string]string{
		activity_logs.ActionLeadMainland: config.GetEnv().LeadMainlandEmail,
		activity_logs.ActionRateRequest:  config.GetEnv().LeadAnnieMacEmail,
	},
	logger: logger.GetLogger(),
}

var leadController = &LeadController{
	leadService: leadService,
	logger:      logger.GetLogger(),
}

func GetLeadService() *LeadService {
	return leadService
}

func GetLeadController() *LeadController {
	return leadController
}
