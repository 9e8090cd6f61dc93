package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"pokedex/internal/auth"
	"pokedex/internal/config"
	"pokedex/internal/database"
	emailService "pokedex/internal/email"
	"pokedex/internal/logger"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	if !emailRegex.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	user, err := database.CreateUser(db, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already taken"})
			return
		}
		logger.Error("Failed to create user", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	emailSvc, _ := c.Get("email_service")
	if service, ok := emailSvc.(*emailService.Service); ok && service.IsEnabled() {
		go func() {
			if err := service.SendWelcomeEmail(user); err != nil {
				logger.Warn("Failed to send welcome email",
					"email", user.Email,
					"user_id", user.ID,
					"error", err)
			}
		}()
	}

	logger.Info("User registered", "username", user.Username, "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "account created for " + user.Username})
}

func handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	// Unknown username and wrong password produce the same response.
	user, err := database.AuthenticateUser(db, req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad username/password given"})
		return
	}

	token, err := auth.IssueToken(cfg.JWTSecret, user.Username, cfg.TokenDuration)
	if err != nil {
		logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	cookieMaxAge := int(cfg.TokenDuration.Seconds())
	c.SetCookie("access_token", token, cookieMaxAge, "/", "", !cfg.IsDevelopment(), true)
	c.JSON(http.StatusOK, gin.H{
		"message":      "login successful",
		"access_token": token,
	})
}
