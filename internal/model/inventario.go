package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventario holds the current stock balance for one producto at one tienda.
// It is a cached view over the kardex: created lazily at saldo 0 on the
// first movement, mutated only through InventarioService.AplicarMovimiento,
// and never deleted (a zero saldo keeps its row so replay checks stay cheap).
type Inventario struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_producto_tienda"`
	TiendaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_producto_tienda"`
	Saldo      int       `gorm:"not null;default:0"` // invariant: never negative
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Tienda   *Tienda   `gorm:"foreignKey:TiendaID"`
}

func (Inventario) TableName() string { return "inventario" }
