package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avachat/chatbot-service/internal/httpapi/handlers"
	"github.com/avachat/chatbot-service/internal/httpapi/middleware"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	// upstream gateway terminates auth; this surface stays wide open
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPut},
		AllowHeaders:    []string{"*"},
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.POST("/chatbot", h.SubmitChatbotRequest)
	r.GET("/chatbot", h.GetChatbotRequest)
	r.GET("/knowledge-bases", h.ListKnowledgeBases)
	r.GET("/models", h.ListModels)

	return r
}
