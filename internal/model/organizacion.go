package model

import "github.com/google/uuid"

// Compania is the top of the company → tienda hierarchy. CRUD for these
// lives in the admin UI; the backend only needs them as FK targets and for
// store-scoped inventory queries.
type Compania struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	NIT       *string
	Direccion *string
}

func (Compania) TableName() string { return "companias" }

// Tienda is a physical store. Every stock balance and sale is scoped to one.
type Tienda struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"not null"`
	Direccion  *string
	CompaniaID uuid.UUID `gorm:"type:uuid;not null;index"`

	Compania *Compania `gorm:"foreignKey:CompaniaID"`
}
