package database

import (
	"database/sql"
	"fmt"

	"pokedex/internal/models"
)

// CapturePokemon creates an owned row for the caller. The species must
// exist in the catalog; the nickname falls back to the species name.
func CapturePokemon(db *sql.DB, userID, pokemonID int, nickname string) (*models.UserPokemon, error) {
	species, err := GetPokemon(db, pokemonID)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if nickname == "" {
		nickname = species.Name
	}

	query := `
		INSERT INTO user_pokemon (user_id, pokemon_id, name)
		VALUES (?, ?, ?)
	`

	result, err := db.Exec(query, userID, pokemonID, nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to capture pokemon: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get captured pokemon ID: %w", err)
	}

	return &models.UserPokemon{
		ID:        int(id),
		UserID:    userID,
		PokemonID: pokemonID,
		Name:      nickname,
	}, nil
}

// GetUserPokemon lists the caller's collection joined with the catalog.
// The inner join silently drops rows whose species no longer resolves
// after a catalog reload.
func GetUserPokemon(db *sql.DB, userID int) ([]models.UserPokemonView, error) {
	query := `
		SELECT up.id, up.pokemon_id, up.name, p.name, p.type1, p.type2, p.hp, p.attack, p.defense
		FROM user_pokemon up
		JOIN pokemon p ON up.pokemon_id = p.id
		WHERE up.user_id = ?
		ORDER BY up.id
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer rows.Close()

	var views []models.UserPokemonView
	for rows.Next() {
		v, err := scanUserPokemonView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection: %w", err)
	}

	return views, nil
}

// GetUserPokemonByID returns one owned row, scoped to the caller. A row
// owned by someone else and a row that does not exist are both
// ErrUnauthorized so existence is never leaked across users.
func GetUserPokemonByID(db *sql.DB, userID, id int) (*models.UserPokemonView, error) {
	query := `
		SELECT up.id, up.pokemon_id, up.name, p.name, p.type1, p.type2, p.hp, p.attack, p.defense
		FROM user_pokemon up
		JOIN pokemon p ON up.pokemon_id = p.id
		WHERE up.id = ? AND up.user_id = ?
	`

	v := &models.UserPokemonView{}
	var type2 sql.NullString

	err := db.QueryRow(query, id, userID).Scan(
		&v.ID,
		&v.PokemonID,
		&v.Name,
		&v.Species,
		&v.Type1,
		&type2,
		&v.HP,
		&v.Attack,
		&v.Defense,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to query owned pokemon: %w", err)
	}

	if type2.Valid {
		v.Type2 = &type2.String
	}
	return v, nil
}

// RenameUserPokemon updates the nickname of an owned row. The ownership
// check is the WHERE clause itself: zero rows affected means the row is
// missing or belongs to someone else.
func RenameUserPokemon(db *sql.DB, userID, id int, name string) error {
	query := `
		UPDATE user_pokemon
		SET name = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query, name, id, userID)
	if err != nil {
		return fmt.Errorf("failed to rename pokemon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUnauthorized
	}

	return nil
}

// ReleaseUserPokemon deletes an owned row with the same ownership scoping
// as rename. Releasing an already-released id fails with ErrUnauthorized.
func ReleaseUserPokemon(db *sql.DB, userID, id int) error {
	query := `
		DELETE FROM user_pokemon
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to release pokemon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUnauthorized
	}

	return nil
}

func scanUserPokemonView(rows *sql.Rows) (*models.UserPokemonView, error) {
	v := &models.UserPokemonView{}
	var type2 sql.NullString

	err := rows.Scan(
		&v.ID,
		&v.PokemonID,
		&v.Name,
		&v.Species,
		&v.Type1,
		&type2,
		&v.HP,
		&v.Attack,
		&v.Defense,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan owned pokemon: %w", err)
	}

	if type2.Valid {
		v.Type2 = &type2.String
	}
	return v, nil
}
