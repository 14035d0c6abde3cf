package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListKnowledgeBases(c *gin.Context) {
	kbs, err := h.CatalogSvc.KnowledgeBases(c.Request.Context())
	if err != nil {
		log.Printf("[ListKnowledgeBases] failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"knowledgeBases": kbs})
}

func (h *Handler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.CatalogSvc.Models())
}
