package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoMovimiento is the closed set of kardex movement kinds.
// The original data carried these as free-form strings; keeping them as a
// typed constant set lets the sign convention live in one place.
type TipoMovimiento string

const (
	// MovimientoEntrada adds stock (reception, sale reversal).
	MovimientoEntrada TipoMovimiento = "entrada"
	// MovimientoSalida removes stock outside a sale (shrinkage, transfer out).
	MovimientoSalida TipoMovimiento = "salida"
	// MovimientoVenta removes stock as part of a settled sale.
	MovimientoVenta TipoMovimiento = "venta"
)

// Valido reports whether t is one of the known movement kinds.
func (t TipoMovimiento) Valido() bool {
	switch t {
	case MovimientoEntrada, MovimientoSalida, MovimientoVenta:
		return true
	}
	return false
}

// Signo returns +1 for incoming movements and -1 for outgoing ones.
func (t TipoMovimiento) Signo() int {
	if t == MovimientoEntrada {
		return 1
	}
	return -1
}

// Kardex is one append-only stock movement for a (producto, tienda) pair.
// Rows are immutable once written: cancelling a sale appends compensating
// entradas instead of deleting the original venta rows, so the full audit
// trail survives. Replaying all rows for a pair from saldo 0 must always
// reproduce the current Inventario.Saldo.
type Kardex struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_kardex_producto_tienda"`
	TiendaID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_kardex_producto_tienda"`
	TipoMovimiento TipoMovimiento `gorm:"not null"`
	Cantidad       int            `gorm:"not null"` // always positive; sign comes from TipoMovimiento
	SaldoAnterior  int            `gorm:"not null"`
	SaldoNuevo     int            `gorm:"not null"`
	Observaciones  string
	// ReferenciaID links the movement to its originating venta, if any.
	ReferenciaID *uuid.UUID `gorm:"type:uuid;index"`
	Fecha        time.Time  `gorm:"not null;index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's pluralization (kardexes → kardex).
func (Kardex) TableName() string { return "kardex" }
