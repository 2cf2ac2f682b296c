package deckrouter

import "github.com/gin-gonic/gin"

// Register mounts the deck generation routes onto the API base group.
func Register(apiBase *gin.RouterGroup, h *Handler) {
	decksGroup := apiBase.Group("/decks")
	{
		// POST /api/v0/decks
		// Generate a vocabulary deck from an uploaded PDF
		decksGroup.POST("", h.generateDeck)
	}
}
