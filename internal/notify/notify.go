package notify

import (
	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// NotifyModule pushes new submissions to admins with the panel open
type NotifyModule struct {
	Hub     *Hub
	handler *Handler
}

// NewNotifyModule creates the hub and subscribes it to submission events
func NewNotifyModule(bus eventbus.EventBusInterface, log logger.Logger) *NotifyModule {
	hub := NewHub(log)
	hub.Attach(bus, eventbus.EventTypeSubmissionCreated)
	return &NotifyModule{Hub: hub, handler: NewHandler(hub, log)}
}

// RegisterRoutes mounts the websocket on the admin router
func (m *NotifyModule) RegisterRoutes(admin fiber.Router, requireAdmin fiber.Handler) {
	m.handler.RegisterRoutes(admin, requireAdmin)
}

// Stop performs cleanup when the module is shut down
func (m *NotifyModule) Stop() error {
	return nil
}
