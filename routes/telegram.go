package routes

import (
	"net/http"

	"knowledge-chatbot-backend/internal/logger"
	"knowledge-chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

func SetupTelegramRoutes(router *gin.Engine, telegram *services.TelegramService) {
	// The Bot API retries non-200 responses, so the webhook always returns
	// 200 once the payload has been parsed; failures are logged instead.
	router.POST("/telegram/webhook", func(c *gin.Context) {
		var update services.TelegramUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		if err := telegram.HandleUpdate(c.Request.Context(), update); err != nil {
			logger.Error("Telegram webhook handling failed", "update_id", update.UpdateID, "error", err)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}
