package database

import (
	"database/sql"
	"fmt"

	"pokedex/internal/models"
)

// ReplaceCatalog drops every catalog row and bulk-inserts the given ones
// inside a single transaction. Any failure rolls the whole reload back,
// so the catalog is never partially applied. Owned rows referencing old
// species are left in place; reads tolerate the orphans.
func ReplaceCatalog(db *sql.DB, entries []models.Pokemon) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pokemon`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	query := `
		INSERT INTO pokemon (name, attack, defense, hp, sp_attack, sp_defense, speed, height, weight, type1, type2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range entries {
		if _, err := stmt.Exec(p.Name, p.Attack, p.Defense, p.HP, p.SpAttack, p.SpDefense, p.Speed,
			p.Height, p.Weight, p.Type1, p.Type2); err != nil {
			return fmt.Errorf("failed to insert catalog row %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog reload: %w", err)
	}

	return nil
}

// ListPokemon returns the whole catalog ordered by id.
func ListPokemon(db *sql.DB) ([]models.Pokemon, error) {
	query := `
		SELECT id, name, attack, defense, hp, sp_attack, sp_defense, speed, height, weight, type1, type2
		FROM pokemon
		ORDER BY id
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var entries []models.Pokemon
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}

	return entries, nil
}

func GetPokemon(db *sql.DB, pokemonID int) (*models.Pokemon, error) {
	p := &models.Pokemon{}
	var height, weight sql.NullInt64
	var type2 sql.NullString

	query := `
		SELECT id, name, attack, defense, hp, sp_attack, sp_defense, speed, height, weight, type1, type2
		FROM pokemon
		WHERE id = ?
	`

	err := db.QueryRow(query, pokemonID).Scan(
		&p.ID,
		&p.Name,
		&p.Attack,
		&p.Defense,
		&p.HP,
		&p.SpAttack,
		&p.SpDefense,
		&p.Speed,
		&height,
		&weight,
		&p.Type1,
		&type2,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query pokemon: %w", err)
	}

	assignOptionalStats(p, height, weight, type2)
	return p, nil
}

func scanPokemon(rows *sql.Rows) (*models.Pokemon, error) {
	p := &models.Pokemon{}
	var height, weight sql.NullInt64
	var type2 sql.NullString

	err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Attack,
		&p.Defense,
		&p.HP,
		&p.SpAttack,
		&p.SpDefense,
		&p.Speed,
		&height,
		&weight,
		&p.Type1,
		&type2,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pokemon: %w", err)
	}

	assignOptionalStats(p, height, weight, type2)
	return p, nil
}

func assignOptionalStats(p *models.Pokemon, height, weight sql.NullInt64, type2 sql.NullString) {
	if height.Valid {
		h := int(height.Int64)
		p.Height = &h
	}
	if weight.Valid {
		w := int(weight.Int64)
		p.Weight = &w
	}
	if type2.Valid {
		p.Type2 = &type2.String
	}
}
