package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Impuesto is a tax category (e.g. IVA 19%). Porcentaje is the rate over 100,
// so a 19% rate is stored as 19.00.
type Impuesto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string          `gorm:"uniqueIndex;not null"`
	Porcentaje decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}
