package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"pokedex/internal/config"
	"pokedex/internal/database"
	"pokedex/internal/logger"
	"pokedex/internal/models"

	"github.com/gin-gonic/gin"
)

func handleListPokemon(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	entries, err := database.ListPokemon(db)
	if err != nil {
		logger.Error("Failed to list catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	if entries == nil {
		entries = []models.Pokemon{}
	}
	c.JSON(http.StatusOK, entries)
}

// handleInit reloads the whole catalog from the configured CSV file.
// The reload is destructive and atomic: a malformed row fails the import
// before anything is written.
func handleInit(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	file, err := os.Open(cfg.CatalogPath)
	if err != nil {
		logger.Error("Failed to open catalog file", "path", cfg.CatalogPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog source not available"})
		return
	}
	defer file.Close()

	entries, err := parseCatalogCSV(file)
	if err != nil {
		logger.Error("Failed to parse catalog file", "path", cfg.CatalogPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse catalog source"})
		return
	}

	if err := database.ReplaceCatalog(db, entries); err != nil {
		logger.Error("Failed to reload catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload catalog"})
		return
	}

	logger.Info("Catalog reloaded", "entries", len(entries))
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("database initialized with %d pokemon", len(entries))})
}

// parseCatalogCSV reads catalog rows from a header-indexed CSV stream.
// name, the six battle stats and type1 are required; height, weight and
// type2 may be empty. Any unparseable row aborts the whole import.
func parseCatalogCSV(r io.Reader) ([]models.Pokemon, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for _, required := range []string{"name", "attack", "defense", "hp", "sp_attack", "sp_defense", "speed", "type1"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("catalog header missing column %q", required)
		}
	}

	var entries []models.Pokemon
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog parse error at line %d: %w", line+1, err)
		}
		line++

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		name := field("name")
		if name == "" {
			return nil, fmt.Errorf("empty name at line %d", line)
		}

		p := models.Pokemon{Name: name, Type1: field("type1")}
		if p.Type1 == "" {
			return nil, fmt.Errorf("empty type1 at line %d", line)
		}

		stats := []struct {
			column string
			dest   *int
		}{
			{"attack", &p.Attack},
			{"defense", &p.Defense},
			{"hp", &p.HP},
			{"sp_attack", &p.SpAttack},
			{"sp_defense", &p.SpDefense},
			{"speed", &p.Speed},
		}
		for _, s := range stats {
			value, err := strconv.Atoi(field(s.column))
			if err != nil {
				return nil, fmt.Errorf("invalid %s at line %d", s.column, line)
			}
			*s.dest = value
		}

		if raw := field("height"); raw != "" {
			height, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid height at line %d", line)
			}
			p.Height = &height
		}

		if raw := field("weight"); raw != "" {
			weight, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid weight at line %d", line)
			}
			p.Weight = &weight
		}

		if raw := field("type2"); raw != "" {
			p.Type2 = &raw
		}

		entries = append(entries, p)
	}

	return entries, nil
}
