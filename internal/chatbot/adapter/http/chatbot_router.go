package http

import (
	"agency-cms/internal/chatbot/config"
	"agency-cms/internal/chatbot/usecase"
	"agency-cms/internal/shared/httpx"

	"github.com/gofiber/fiber/v2"
)

// ChatbotHTTPHandler serves the site chat widget
type ChatbotHTTPHandler struct {
	usecase *usecase.ChatbotUsecase
	cfg     *config.Config
	devMode bool
}

// NewChatbotHTTPHandler creates a new chatbot handler
func NewChatbotHTTPHandler(uc *usecase.ChatbotUsecase, cfg *config.Config, devMode bool) *ChatbotHTTPHandler {
	return &ChatbotHTTPHandler{usecase: uc, cfg: cfg, devMode: devMode}
}

// RegisterRoutes mounts /chatbot/message and /chatbot/status
func (h *ChatbotHTTPHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/chatbot")
	group.Post("/message", httpx.RateLimiter(h.cfg.RateLimitMax, h.cfg.RateLimitWindow, "Too many messages, please slow down"), h.Message)
	group.Get("/status", h.Status)
}

// Message answers one visitor message
func (h *ChatbotHTTPHandler) Message(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	reply, err := h.usecase.Reply(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"response": reply})
}

// Status reports whether the widget should be shown
func (h *ChatbotHTTPHandler) Status(c *fiber.Ctx) error {
	st := h.usecase.Status()
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"configured": st.Configured, "model": st.Model})
}
