package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaCarritoRequest is one (producto, cantidad) pair proposed for purchase.
type LineaCarritoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// CotizarCarritoRequest asks for totals without touching stock.
type CotizarCarritoRequest struct {
	Lineas []LineaCarritoRequest `json:"lineas" validate:"required,min=1,dive"`
}

type RegistrarVentaRequest struct {
	TiendaID     string                `json:"tienda_id"      validate:"required,uuid"`
	ClienteID    *string               `json:"cliente_id"     validate:"omitempty,uuid"`
	MetodoPagoID string                `json:"metodo_pago_id" validate:"required,uuid"`
	Lineas       []LineaCarritoRequest `json:"lineas"         validate:"required,min=1,dive"`
	// ClienteEmail: optional — when present, the recibo worker mails the PDF receipt.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// AnularVentaRequest carries the reason recorded on the compensating
// kardex entries.
type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3,max=255"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha    string `form:"fecha"`                      // YYYY-MM-DD; empty = today
	TiendaID string `form:"tienda_id"`                  // empty = all stores
	Estado   string `form:"estado,default=completada"`  // completada | anulada | all
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// IngresosFilter selects the month for the revenue report.
type IngresosFilter struct {
	Anio     int    `form:"anio" validate:"required,min=2000,max=2100"`
	Mes      int    `form:"mes"  validate:"required,min=1,max=12"`
	TiendaID string `form:"tienda_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CotizacionResponse carries the derived totals of a quoted cart.
type CotizacionResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Impuestos decimal.Decimal `json:"impuestos"`
	Total     decimal.Decimal `json:"total"`
}

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID           string                 `json:"id"`
	TiendaID     string                 `json:"tienda_id"`
	VendedorID   string                 `json:"vendedor_id"`
	ClienteID    *string                `json:"cliente_id,omitempty"`
	MetodoPagoID string                 `json:"metodo_pago_id"`
	Detalles     []DetalleVentaResponse `json:"detalles"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	Impuestos    decimal.Decimal        `json:"impuestos"`
	Total        decimal.Decimal        `json:"total"`
	Estado       string                 `json:"estado"`
	CreatedAt    string                 `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// IngresosResponse is the monthly revenue rollup for the dashboard.
type IngresosResponse struct {
	Anio     int             `json:"anio"`
	Mes      int             `json:"mes"`
	Ingresos decimal.Decimal `json:"ingresos"`
	Ventas   int64           `json:"ventas"`
}
