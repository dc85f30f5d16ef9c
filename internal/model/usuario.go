package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a login account. Rol drives the RequireRole capability check at
// the API boundary: cajero | supervisor | administrador.
type Usuario struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Correo       string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Rol          string     `gorm:"not null"`
	PersonaID    *uuid.UUID `gorm:"type:uuid"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time

	Persona *Persona `gorm:"foreignKey:PersonaID"`
}
