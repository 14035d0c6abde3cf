package handlers

import (
	"github.com/avachat/chatbot-service/internal/catalog"
	"github.com/avachat/chatbot-service/internal/chatbot"
)

type Handler struct {
	ChatbotSvc *chatbot.Service
	CatalogSvc *catalog.Service
}

func NewHandler(chatbotSvc *chatbot.Service, catalogSvc *catalog.Service) *Handler {
	return &Handler{
		ChatbotSvc: chatbotSvc,
		CatalogSvc: catalogSvc,
	}
}
