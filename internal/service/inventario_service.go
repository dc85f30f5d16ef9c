package service

import (
	"context"
	"fmt"
	"time"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"
	"sistemapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService is the single choke point for stock state: every
// balance mutation — manual receptions, shrinkage, sale debits, sale
// reversals — funnels through AplicarMovimientoTx, which appends one kardex
// row and updates the cached saldo as one unit. Nothing else in the codebase
// writes to either table.
type InventarioService interface {
	// GetSaldo returns the current balance; 0 when the pair has no row yet.
	GetSaldo(ctx context.Context, productoID, tiendaID uuid.UUID) (int, error)
	ListarBajoStock(ctx context.Context, filter dto.AlertasFilter) ([]dto.AlertaStockResponse, error)

	// AplicarMovimiento registers a manual movement in its own transaction.
	AplicarMovimiento(ctx context.Context, req dto.MovimientoRequest) (*dto.KardexResponse, error)
	// AplicarMovimientoTx is called within a caller-owned transaction — the
	// settlement engine uses it so sale debits and the venta row commit or
	// roll back together. The per-key row lock taken here is what serializes
	// concurrent movements on the same (producto, tienda).
	AplicarMovimientoTx(tx *gorm.DB, productoID, tiendaID uuid.UUID, cantidad int, tipo model.TipoMovimiento, observaciones string, referenciaID *uuid.UUID) (*model.Kardex, error)
	// RevertirMovimientosVentaTx appends one compensating entrada per line
	// item of the sale. The original venta kardex rows stay untouched — the
	// reversal is visible as two entries, not an erasure.
	RevertirMovimientosVentaTx(tx *gorm.DB, venta *model.Venta, motivo string) error

	ObtenerKardex(ctx context.Context, filter dto.KardexFilter) (*dto.KardexListResponse, error)
	MovimientosRecientes(ctx context.Context, filter dto.MovimientosRecientesFilter) ([]dto.KardexResponse, error)
	// ReconstruirSaldo replays the full kardex of a pair from 0. Exposed for
	// consistency audits: the result must always equal GetSaldo.
	ReconstruirSaldo(ctx context.Context, productoID, tiendaID uuid.UUID) (int, error)
}

type inventarioService struct {
	repo          repository.InventarioRepository
	umbralDefecto int
}

func NewInventarioService(repo repository.InventarioRepository, umbralDefecto int) InventarioService {
	if umbralDefecto <= 0 {
		umbralDefecto = 10
	}
	return &inventarioService{repo: repo, umbralDefecto: umbralDefecto}
}

func (s *inventarioService) GetSaldo(ctx context.Context, productoID, tiendaID uuid.UUID) (int, error) {
	inv, err := s.repo.FindSaldo(ctx, productoID, tiendaID)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return 0, nil
		}
		return 0, &PersistenciaError{Op: "consulta de saldo", Err: err}
	}
	return inv.Saldo, nil
}

func (s *inventarioService) ListarBajoStock(ctx context.Context, filter dto.AlertasFilter) ([]dto.AlertaStockResponse, error) {
	umbral := filter.Umbral
	if umbral <= 0 {
		umbral = s.umbralDefecto
	}

	var tiendaID *uuid.UUID
	if filter.TiendaID != "" {
		id, err := uuid.Parse(filter.TiendaID)
		if err != nil {
			return nil, fmt.Errorf("tienda_id invalido: %w", err)
		}
		tiendaID = &id
	}

	inventarios, err := s.repo.ListBajoStock(ctx, tiendaID, umbral)
	if err != nil {
		return nil, &PersistenciaError{Op: "listado de stock bajo", Err: err}
	}

	alertas := make([]dto.AlertaStockResponse, 0, len(inventarios))
	for _, inv := range inventarios {
		nombre := ""
		if inv.Producto != nil {
			nombre = inv.Producto.Nombre
		}
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID: inv.ProductoID.String(),
			Producto:   nombre,
			TiendaID:   inv.TiendaID.String(),
			Saldo:      inv.Saldo,
			Umbral:     umbral,
		})
	}
	return alertas, nil
}

func (s *inventarioService) AplicarMovimiento(ctx context.Context, req dto.MovimientoRequest) (*dto.KardexResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id invalido: %w", err)
	}
	tiendaID, err := uuid.Parse(req.TiendaID)
	if err != nil {
		return nil, fmt.Errorf("tienda_id invalido: %w", err)
	}
	tipo := model.TipoMovimiento(req.TipoMovimiento)
	// Sale debits only enter through the settlement engine's transaction.
	if tipo == model.MovimientoVenta {
		return nil, ErrTipoMovimientoInvalido
	}

	var mov *model.Kardex
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.AplicarMovimientoTx(tx, productoID, tiendaID, req.Cantidad, tipo, req.Observaciones, nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := kardexToResponse(mov)
	return &resp, nil
}

func (s *inventarioService) AplicarMovimientoTx(tx *gorm.DB, productoID, tiendaID uuid.UUID, cantidad int, tipo model.TipoMovimiento, observaciones string, referenciaID *uuid.UUID) (*model.Kardex, error) {
	if cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}
	if !tipo.Valido() {
		return nil, ErrTipoMovimientoInvalido
	}

	// Lazy-create the balance row at 0 on the first movement of a pair.
	inv, err := s.repo.FindSaldoForUpdateTx(tx, productoID, tiendaID)
	if err != nil {
		if !repository.EsNoEncontrado(err) {
			return nil, &PersistenciaError{Op: "bloqueo de saldo", Err: err}
		}
		inv = &model.Inventario{ID: uuid.New(), ProductoID: productoID, TiendaID: tiendaID, Saldo: 0}
		if err := s.repo.CreateSaldoTx(tx, inv); err != nil {
			return nil, &PersistenciaError{Op: "creacion de saldo", Err: err}
		}
	}

	nuevoSaldo := inv.Saldo + tipo.Signo()*cantidad
	if nuevoSaldo < 0 {
		// All-or-nothing: neither saldo nor kardex were touched.
		return nil, &StockInsuficienteError{
			ProductoID: productoID,
			TiendaID:   tiendaID,
			Solicitado: cantidad,
			Disponible: inv.Saldo,
		}
	}

	mov := &model.Kardex{
		ID:             uuid.New(),
		ProductoID:     productoID,
		TiendaID:       tiendaID,
		TipoMovimiento: tipo,
		Cantidad:       cantidad,
		SaldoAnterior:  inv.Saldo,
		SaldoNuevo:     nuevoSaldo,
		Observaciones:  observaciones,
		ReferenciaID:   referenciaID,
		Fecha:          time.Now().UTC(),
	}
	if err := s.repo.CreateKardexTx(tx, mov); err != nil {
		return nil, &PersistenciaError{Op: "registro de kardex", Err: err}
	}
	if err := s.repo.UpdateSaldoTx(tx, inv.ID, nuevoSaldo); err != nil {
		return nil, &PersistenciaError{Op: "actualizacion de saldo", Err: err}
	}
	return mov, nil
}

func (s *inventarioService) RevertirMovimientosVentaTx(tx *gorm.DB, venta *model.Venta, motivo string) error {
	for _, detalle := range venta.Detalles {
		obs := fmt.Sprintf("Anulacion venta %s — %s", venta.ID, motivo)
		ref := venta.ID
		if _, err := s.AplicarMovimientoTx(tx, detalle.ProductoID, venta.TiendaID, detalle.Cantidad, model.MovimientoEntrada, obs, &ref); err != nil {
			// Replenishing stock cannot violate non-negativity, so any error
			// here is infrastructure, not business.
			return err
		}
	}
	return nil
}

func (s *inventarioService) ObtenerKardex(ctx context.Context, filter dto.KardexFilter) (*dto.KardexListResponse, error) {
	movimientos, total, err := s.repo.ListKardex(ctx, filter)
	if err != nil {
		return nil, &PersistenciaError{Op: "listado de kardex", Err: err}
	}
	data := make([]dto.KardexResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, kardexToResponse(&movimientos[i]))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	return &dto.KardexListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *inventarioService) MovimientosRecientes(ctx context.Context, filter dto.MovimientosRecientesFilter) ([]dto.KardexResponse, error) {
	movimientos, err := s.repo.ListKardexRecientes(ctx, filter)
	if err != nil {
		return nil, &PersistenciaError{Op: "movimientos recientes", Err: err}
	}
	data := make([]dto.KardexResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, kardexToResponse(&movimientos[i]))
	}
	return data, nil
}

func (s *inventarioService) ReconstruirSaldo(ctx context.Context, productoID, tiendaID uuid.UUID) (int, error) {
	movimientos, err := s.repo.ListKardexCronologico(ctx, productoID, tiendaID)
	if err != nil {
		return 0, &PersistenciaError{Op: "replay de kardex", Err: err}
	}
	saldo := 0
	for _, m := range movimientos {
		saldo += m.TipoMovimiento.Signo() * m.Cantidad
	}
	return saldo, nil
}

func kardexToResponse(m *model.Kardex) dto.KardexResponse {
	nombre := ""
	if m.Producto != nil {
		nombre = m.Producto.Nombre
	}
	var ref *string
	if m.ReferenciaID != nil {
		s := m.ReferenciaID.String()
		ref = &s
	}
	return dto.KardexResponse{
		ID:             m.ID.String(),
		ProductoID:     m.ProductoID.String(),
		Producto:       nombre,
		TiendaID:       m.TiendaID.String(),
		TipoMovimiento: string(m.TipoMovimiento),
		Cantidad:       m.Cantidad,
		SaldoAnterior:  m.SaldoAnterior,
		SaldoNuevo:     m.SaldoNuevo,
		Observaciones:  m.Observaciones,
		ReferenciaID:   ref,
		Fecha:          m.Fecha.Format(time.RFC3339),
	}
}
