package models

import "time"

// FilterPreset is a named FilterConfig saved by a user for one list view.
// ViewKey scopes presets per page ("admin:complaints", "admin:apologies")
// so presets for different views never collide.
type FilterPreset struct {
	ID        string       `db:"id" json:"id"`
	OwnerID   string       `db:"owner_id" json:"-"`
	ViewKey   string       `db:"view_key" json:"view"`
	Name      string       `db:"name" json:"name"`
	Filters   FilterConfig `db:"filters" json:"filters"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}
