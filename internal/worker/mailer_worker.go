package worker

import (
	"github.com/spec-kit/exam-service/internal/service"
)

// StartMailerWorker registers mail dispatch handlers.
func StartMailerWorker(mailerService *service.MailerService) {
	if mailerService == nil {
		return
	}
	mailerService.RegisterHandlers()
}
