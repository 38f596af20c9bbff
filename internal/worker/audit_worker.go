package worker

import (
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/service"
)

// StartAuditWorker registers audit handlers on the event bus.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
