package models

import (
	"time"
)

// Timestamps is embedded in every entity. GORM fills CreatedAt on insert and
// bumps UpdatedAt on every save, so no entity manages audit fields by hand.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
