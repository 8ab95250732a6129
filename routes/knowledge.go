package routes

import (
	"context"
	"io"
	"net/http"

	"knowledge-chatbot-backend/internal/config"
	"knowledge-chatbot-backend/middleware"
	"knowledge-chatbot-backend/models"
	"knowledge-chatbot-backend/services"
	"knowledge-chatbot-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupKnowledgeRoutes(router *gin.Engine, cfg *config.Config, knowledge *services.KnowledgeService, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/knowledge")
	group.Use(authMiddleware.RequireAuth())

	group.GET("", func(c *gin.Context) {
		docs, err := knowledge.List(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		if docs == nil {
			docs = []models.Document{}
		}
		c.JSON(http.StatusOK, gin.H{"documents": docs})
	})

	group.POST("/text", func(c *gin.Context) {
		var req models.IngestTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		doc, err := knowledge.IngestText(c.Request.Context(), middleware.GetUserID(c), req.Text, req.Title)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	group.POST("/upload", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "A file is required", nil)
			return
		}
		if fileHeader.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the maximum allowed size", nil)
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}

		userID := middleware.GetUserID(c)
		doc, err := knowledge.CreateFromUpload(c.Request.Context(), userID, fileHeader.Filename, data)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		// Ingestion runs to completion even if the client disconnects, so the
		// persisted status always reflects a finished attempt.
		doc, err = knowledge.IngestFile(context.WithoutCancel(c.Request.Context()), userID, doc.ID.Hex())
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	// Retry indexing for pending or failed documents.
	group.POST("/:id/index", func(c *gin.Context) {
		doc, err := knowledge.IngestFile(context.WithoutCancel(c.Request.Context()), middleware.GetUserID(c), c.Param("id"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		if err := knowledge.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
	})
}
