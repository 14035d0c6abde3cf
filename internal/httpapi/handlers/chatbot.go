package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avachat/chatbot-service/internal/chatbot"
)

type submitReq struct {
	Message             string                       `json:"message"`
	KnowledgeBaseID     string                       `json:"knowledgeBaseId"`
	TextPromptTemplate  string                       `json:"textPromptTemplate"`
	TextInferenceConfig *chatbot.TextInferenceConfig `json:"textInferenceConfig"`
	ModelArn            string                       `json:"modelArn"`
}

// SubmitChatbotRequest accepts a generation request and returns the id to
// poll with. The actual generation happens in the worker.
func (h *Handler) SubmitChatbotRequest(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.ChatbotSvc.Submit(c.Request.Context(), chatbot.RequestPayload{
		Message:             req.Message,
		KnowledgeBaseID:     req.KnowledgeBaseID,
		TextPromptTemplate:  req.TextPromptTemplate,
		TextInferenceConfig: req.TextInferenceConfig,
		ModelArn:            req.ModelArn,
	})
	if err != nil {
		if errors.Is(err, chatbot.ErrMissingKnowledgeBase) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[SubmitChatbotRequest] submit failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatbot_request_id": id})
}

// GetChatbotRequest polls a request by id. Reading a finished record deletes
// it, so the result comes back once; later polls see an empty response.
func (h *Handler) GetChatbotRequest(c *gin.Context) {
	id := c.Query("url")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	rec, err := h.ChatbotSvc.Poll(c.Request.Context(), id)
	if err != nil {
		log.Printf("[GetChatbotRequest] poll failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.Status(http.StatusOK)
		return
	}

	c.JSON(http.StatusOK, rec)
}
