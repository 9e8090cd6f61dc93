package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pokedex/internal/database"
	"pokedex/internal/logger"
	"pokedex/internal/models"

	"github.com/gin-gonic/gin"
)

type captureRequest struct {
	PokemonID int    `json:"pokemon_id"`
	Name      string `json:"name"`
}

type renameRequest struct {
	Name string `json:"name"`
}

func handleCapturePokemon(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.PokemonID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pokemon_id is required"})
		return
	}

	captured, err := database.CapturePokemon(db, userID, req.PokemonID, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pokemon id"})
			return
		}
		logger.Error("Failed to capture pokemon", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to capture pokemon"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "pokemon captured",
		"id":      captured.ID,
		"name":    captured.Name,
	})
}

func handleListMyPokemon(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	views, err := database.GetUserPokemon(db, userID)
	if err != nil {
		logger.Error("Failed to list collection", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	if views == nil {
		views = []models.UserPokemonView{}
	}
	c.JSON(http.StatusOK, views)
}

func handleGetMyPokemon(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	view, err := database.GetUserPokemonByID(db, userID, id)
	if err != nil {
		if errors.Is(err, database.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "pokemon not found in your collection"})
			return
		}
		logger.Error("Failed to get owned pokemon", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pokemon"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func handleRenameMyPokemon(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := database.RenameUserPokemon(db, userID, id, req.Name); err != nil {
		if errors.Is(err, database.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "pokemon not found in your collection"})
			return
		}
		logger.Error("Failed to rename pokemon", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename pokemon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "pokemon renamed",
		"id":      id,
		"name":    req.Name,
	})
}

func handleReleaseMyPokemon(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := database.ReleaseUserPokemon(db, userID, id); err != nil {
		if errors.Is(err, database.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "pokemon not found in your collection"})
			return
		}
		logger.Error("Failed to release pokemon", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to release pokemon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "pokemon released"})
}
