package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the sellable catalog item. The settlement engine treats it as
// read-only: price and tax rate are resolved at quote/sale time and frozen
// into the DetalleVenta, so later catalog edits never rewrite old receipts.
type Producto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string          `gorm:"index;not null"`
	Categoria  string          `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnidadID   *uuid.UUID      `gorm:"type:uuid"`
	ImpuestoID uuid.UUID       `gorm:"type:uuid;not null"`
	Activo     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Unidad   *Unidad   `gorm:"foreignKey:UnidadID"`
	Impuesto *Impuesto `gorm:"foreignKey:ImpuestoID"`
}

// Unidad is the unit of measure a product is sold in (unidad, kg, litro).
type Unidad struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
}

func (Unidad) TableName() string { return "unidades" }
