package worker

import (
	"github.com/dirkit/user-directory/internal/events"
	"github.com/dirkit/user-directory/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartDirectoryCacheWorker keeps cached directory results in step with account changes.
func StartDirectoryCacheWorker(directoryService *service.DirectoryService, dispatcher events.Dispatcher) {
	if directoryService == nil {
		return
	}
	directoryService.RegisterHandlers(dispatcher)
}
