package model

import "github.com/google/uuid"

// Tipos de persona. One table covers customers, employees and suppliers,
// mirroring the admin UI's person registry.
const (
	PersonaCliente   = "cliente"
	PersonaEmpleado  = "empleado"
	PersonaProveedor = "proveedor"
)

// Persona is a natural or legal person referenced by sales (cliente) and
// user accounts (empleado).
type Persona struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre               string    `gorm:"not null"`
	Telefono             *string
	Direccion            *string
	Tipo                 string `gorm:"not null;index"`
	NumeroIdentificacion string `gorm:"uniqueIndex;not null"`
}
