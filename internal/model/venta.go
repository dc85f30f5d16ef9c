package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados of a Venta. "pendiente" only ever exists in memory while
// RegistrarVenta is running; the two persisted states are completada and
// anulada, and there is no transition back from anulada.
const (
	VentaPendiente  = "pendiente"
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

// Venta is the settled sale header. Subtotal, Impuestos and Total are
// computed once at settlement and frozen — they are not recomputed when
// catalog prices change afterwards.
type Venta struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TiendaID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendedorID   uuid.UUID  `gorm:"type:uuid;not null"`
	ClienteID    *uuid.UUID `gorm:"type:uuid"`
	MetodoPagoID uuid.UUID  `gorm:"type:uuid;not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Impuestos    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"not null;index"`
	CreatedAt    time.Time       `gorm:"index"`

	Detalles   []DetalleVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Tienda     *Tienda        `gorm:"foreignKey:TiendaID"`
	Vendedor   *Usuario       `gorm:"foreignKey:VendedorID"`
	Cliente    *Persona       `gorm:"foreignKey:ClienteID"`
	MetodoPago *MetodoPago    `gorm:"foreignKey:MetodoPagoID"`
}

// DetalleVenta is one line of a sale. PrecioUnitario is the catalog price
// captured at settlement time; Subtotal = PrecioUnitario × Cantidad.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }

// MetodoPago is a payment method (efectivo, tarjeta, transferencia).
type MetodoPago struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
}

func (MetodoPago) TableName() string { return "metodos_pago" }
