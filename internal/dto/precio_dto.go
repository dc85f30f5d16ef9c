package dto

import "github.com/shopspring/decimal"

// ConsultaPrecioResponse is the public price-check payload. Served from the
// redis cache when possible; saldo may be slightly stale by design.
type ConsultaPrecioResponse struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Categoria  string          `json:"categoria"`
	Precio     decimal.Decimal `json:"precio"`
	Impuesto   decimal.Decimal `json:"impuesto_porcentaje"`
}
