package notify

import (
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const adminLocalKey = "notify_admin"

// Handler upgrades admin connections and hands them to the hub
type Handler struct {
	hub *Hub
	log logger.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{hub: hub, log: log.WithComponent("notify")}
}

// RegisterRoutes mounts /ws; requireAdmin accepts the token as a query parameter
func (h *Handler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	router.Get("/ws", requireAdmin, upgradeOnly, websocket.New(h.serve))
}

func upgradeOnly(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	admin, _ := utils.AdminFromContext(c.UserContext())
	c.Locals(adminLocalKey, admin.Email)
	return c.Next()
}

func (h *Handler) serve(conn *websocket.Conn) {
	admin, _ := conn.Locals(adminLocalKey).(string)
	if err := conn.WriteJSON(Message{Type: "connected", Data: fiber.Map{"admin": admin}}); err != nil {
		return
	}

	id := h.hub.Add(admin, conn)
	defer h.hub.Remove(id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("admin websocket %s closed: %v", id, err)
			}
			return
		}
	}
}
