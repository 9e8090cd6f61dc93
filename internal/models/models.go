package models

import (
	"time"
)

type Pokemon struct {
	ID        int     `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Attack    int     `json:"attack" db:"attack"`
	Defense   int     `json:"defense" db:"defense"`
	HP        int     `json:"hp" db:"hp"`
	SpAttack  int     `json:"sp_attack" db:"sp_attack"`
	SpDefense int     `json:"sp_defense" db:"sp_defense"`
	Speed     int     `json:"speed" db:"speed"`
	Height    *int    `json:"height" db:"height"`
	Weight    *int    `json:"weight" db:"weight"`
	Type1     string  `json:"type1" db:"type1"`
	Type2     *string `json:"type2" db:"type2"`
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type UserPokemon struct {
	ID        int    `json:"id" db:"id"`
	UserID    int    `json:"user_id" db:"user_id"`
	PokemonID int    `json:"pokemon_id" db:"pokemon_id"`
	Name      string `json:"name" db:"name"`
}

// UserPokemonView is an owned row joined with its catalog entry for display.
type UserPokemonView struct {
	ID        int     `json:"id"`
	PokemonID int     `json:"pokemon_id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Type1     string  `json:"type1"`
	Type2     *string `json:"type2"`
	HP        int     `json:"hp"`
	Attack    int     `json:"attack"`
	Defense   int     `json:"defense"`
}
