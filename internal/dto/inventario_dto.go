package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MovimientoRequest registers a manual entrada/salida through the ledger.
// Sale debits never come through this DTO — they are applied by the
// settlement engine inside its own transaction.
type MovimientoRequest struct {
	ProductoID    string `json:"producto_id"     validate:"required,uuid"`
	TiendaID      string `json:"tienda_id"       validate:"required,uuid"`
	Cantidad      int    `json:"cantidad"        validate:"required,min=1"`
	TipoMovimiento string `json:"tipo_movimiento" validate:"required,oneof=entrada salida"`
	Observaciones string `json:"observaciones"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// KardexFilter is bound from the query string of GET /v1/inventario/kardex.
type KardexFilter struct {
	ProductoID string `form:"producto_id" validate:"required,uuid"`
	TiendaID   string `form:"tienda_id"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// MovimientosRecientesFilter selects the latest movements, optionally per store.
type MovimientosRecientesFilter struct {
	TiendaID string `form:"tienda_id"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// AlertasFilter scopes the low-stock listing. Umbral 0 means "use the
// configured default".
type AlertasFilter struct {
	TiendaID string `form:"tienda_id"`
	Umbral   int    `form:"umbral" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaldoResponse struct {
	ProductoID string `json:"producto_id"`
	TiendaID   string `json:"tienda_id"`
	Saldo      int    `json:"saldo"`
}

type KardexResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	Producto       string  `json:"producto,omitempty"`
	TiendaID       string  `json:"tienda_id"`
	TipoMovimiento string  `json:"tipo_movimiento"`
	Cantidad       int     `json:"cantidad"`
	SaldoAnterior  int     `json:"saldo_anterior"`
	SaldoNuevo     int     `json:"saldo_nuevo"`
	Observaciones  string  `json:"observaciones,omitempty"`
	ReferenciaID   *string `json:"referencia_id,omitempty"`
	Fecha          string  `json:"fecha"`
}

type KardexListResponse struct {
	Data  []KardexResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// AlertaStockResponse is one low-stock row, saldo ascending.
type AlertaStockResponse struct {
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto,omitempty"`
	TiendaID   string `json:"tienda_id"`
	Saldo      int    `json:"saldo"`
	Umbral     int    `json:"umbral"`
}
