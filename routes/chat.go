package routes

import (
	"net/http"

	"knowledge-chatbot-backend/middleware"
	"knowledge-chatbot-backend/models"
	"knowledge-chatbot-backend/services"
	"knowledge-chatbot-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(router *gin.Engine, chat *services.ChatService, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/chat")
	group.Use(authMiddleware.RequireAuth())

	group.POST("/send", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		answer, err := chat.Send(c.Request.Context(), middleware.GetUserID(c), req.Message)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, answer)
	})

	group.GET("/history", func(c *gin.Context) {
		messages, err := chat.History(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load history", nil)
			return
		}
		if messages == nil {
			messages = []models.ChatMessage{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	})

	group.DELETE("/history", func(c *gin.Context) {
		if err := chat.ClearHistory(c.Request.Context(), middleware.GetUserID(c)); err != nil {
			utils.RespondWithInternalError(c, "Failed to clear history", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
	})
}
