package handlers

import (
	"database/sql"
	"net/http"

	"pokedex/internal/config"
	"pokedex/internal/email"
	"pokedex/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.AddDBContext(db))
	r.Use(addConfigContext(cfg))
	r.Use(addEmailServiceContext(emailService))

	r.GET("/", handleIndex)
	r.GET("/pokemon", handleListPokemon)
	r.GET("/init", handleInit)
	r.POST("/signup", middleware.AuthRateLimit(cfg), handleSignup)
	r.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)

	protected := r.Group("/")
	protected.Use(middleware.AuthRequired(db, cfg))
	{
		protected.POST("/mypokemon", handleCapturePokemon)
		protected.GET("/mypokemon", handleListMyPokemon)
		protected.GET("/mypokemon/:id", handleGetMyPokemon)
		protected.PUT("/mypokemon/:id", handleRenameMyPokemon)
		protected.DELETE("/mypokemon/:id", handleReleaseMyPokemon)
	}
}

func handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Poke API v1.0"})
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email_service", emailService)
		c.Next()
	}
}
