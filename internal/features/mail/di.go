package mail

import (
	"pocketprc/internal/config"
	cache_utils "pocketprc/internal/util/cache"
	"pocketprc/internal/util/logger"
)

const outboxQueueKey = "pocketprc:mail:outbox"

var queueService = cache_utils.NewValkeyQueueService()

var mailService = &MailService{
	queueService,
	outboxQueueKey,
	logger.GetLogger(),
}

var mailWorkerService = NewMailWorkerService(
	queueService,
	outboxQueueKey,
	newSender(),
	logger.GetLogger(),
)

func newSender() Sender {
	env := config.GetEnv()
	if env.ResendApiKey == "" {
		return &LogSender{logger.GetLogger()}
	}

	return NewResendSender(env.ResendApiKey, env.MailFrom)
}

func GetMailService() *MailService {
	return mailService
}

func GetMailWorkerService() *MailWorkerService {
	return mailWorkerService
}
