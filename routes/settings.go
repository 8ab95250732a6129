package routes

import (
	"net/http"

	"knowledge-chatbot-backend/internal/storage"
	"knowledge-chatbot-backend/middleware"
	"knowledge-chatbot-backend/models"
	"knowledge-chatbot-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupSettingsRoutes(router *gin.Engine, settings *storage.SettingsStore, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/settings")
	group.Use(authMiddleware.RequireAuth())

	// Secrets are always returned masked.
	group.GET("", func(c *gin.Context) {
		s, err := settings.Get(c.Request.Context())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load settings", nil)
			return
		}
		c.JSON(http.StatusOK, s.Redacted())
	})

	group.PUT("", func(c *gin.Context) {
		var req models.UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		s, err := settings.Update(c.Request.Context(), &req)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update settings", nil)
			return
		}
		c.JSON(http.StatusOK, s.Redacted())
	})
}
