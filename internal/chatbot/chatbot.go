package chatbot

import (
	chatbothttp "agency-cms/internal/chatbot/adapter/http"
	"agency-cms/internal/chatbot/adapter/llm"
	"agency-cms/internal/chatbot/config"
	"agency-cms/internal/chatbot/domain/repository"
	"agency-cms/internal/chatbot/usecase"
	"agency-cms/internal/content"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
)

// ChatbotModule wires the site assistant
type ChatbotModule struct {
	Usecase *usecase.ChatbotUsecase
	handler *chatbothttp.ChatbotHTTPHandler
}

// NewChatbotModule creates the module. Without an API key the routes answer "not configured".
func NewChatbotModule(cfg *config.Config, cm *content.ContentModule, m *metrics.Metrics, log logger.Logger, devMode bool) *ChatbotModule {
	var completer repository.Completer
	if cfg.Configured() {
		completer = llm.NewGroqCompleter(cfg)
	} else {
		log.Warn("GROQ_API_KEY not set, chatbot disabled")
	}

	builder := usecase.NewContextBuilder(cfg, log, contentSources(cm)...)
	uc := usecase.NewChatbotUsecase(completer, builder, cfg, m, log)
	return &ChatbotModule{
		Usecase: uc,
		handler: chatbothttp.NewChatbotHTTPHandler(uc, cfg, devMode),
	}
}

// RegisterRoutes mounts the public chatbot routes
func (m *ChatbotModule) RegisterRoutes(api fiber.Router) {
	m.handler.RegisterRoutes(api)
}

// Stop performs cleanup when the module is shut down
func (m *ChatbotModule) Stop() error {
	return nil
}
