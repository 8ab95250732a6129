package routes

import (
	"errors"
	"net/http"
	"time"

	"knowledge-chatbot-backend/internal/config"
	"knowledge-chatbot-backend/internal/storage"
	"knowledge-chatbot-backend/models"
	"knowledge-chatbot-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, users *storage.UserStore) {
	auth := router.Group("/auth")

	auth.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		user := &models.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		if err := users.Create(c.Request.Context(), user); err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				utils.RespondWithError(c, http.StatusConflict, "email_exists", "Email is already registered", nil)
				return
			}
			utils.RespondWithInternalError(c, "Failed to create user", nil)
			return
		}

		token, err := issueToken(cfg, user.ID.Hex())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate token", nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"token": token,
			"user":  gin.H{"id": user.ID.Hex(), "email": user.Email},
		})
	})

	auth.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), req.Email)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid email or password")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			utils.RespondWithUnauthorized(c, "Invalid email or password")
			return
		}

		token, err := issueToken(cfg, user.ID.Hex())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate token", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  gin.H{"id": user.ID.Hex(), "email": user.Email},
		})
	})
}

func issueToken(cfg *config.Config, userID string) (string, error) {
	duration, err := time.ParseDuration(cfg.JWTExpiresIn)
	if err != nil {
		duration = 24 * time.Hour
	}
	return utils.GenerateJWT(userID, cfg.JWTSecret, duration)
}
