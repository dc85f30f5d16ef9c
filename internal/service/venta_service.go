package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"
	"sistemapos/internal/repository"
	"sistemapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	// CotizarCarrito computes totals for a proposed cart. Pure: no stock
	// check, no side effects.
	CotizarCarrito(ctx context.Context, req dto.CotizarCarritoRequest) (*dto.CotizacionResponse, error)
	// RegistrarVenta settles a cart: all lines debit stock and the venta
	// persists, or nothing happens at all.
	RegistrarVenta(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	// AnularVenta restores stock via compensating entradas and marks the
	// sale anulada. The sale row is retained for audit.
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	IngresosMensuales(ctx context.Context, filter dto.IngresosFilter) (*dto.IngresosResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	inventario   InventarioService
	productoRepo repository.ProductoRepository
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		inventario:   inventario,
		productoRepo: productoRepo,
		dispatcher:   dispatcher,
	}
}

// lineaResuelta is a cart line with catalog data frozen in: the price and
// tax rate at resolution time are the ones that go on the receipt.
type lineaResuelta struct {
	productoID uuid.UUID
	nombre     string
	precio     decimal.Decimal
	cantidad   int
	subtotal   decimal.Decimal
	impuesto   decimal.Decimal
}

// resolverCarrito validates lines against the catalog and computes per-line
// amounts. Tax is computed per line with each product's own rate and rounded
// half-up to the cent before summing, so carts mixing tax categories total
// the same as their printed lines.
func (s *ventaService) resolverCarrito(ctx context.Context, lineas []dto.LineaCarritoRequest) ([]lineaResuelta, error) {
	if len(lineas) == 0 {
		return nil, ErrCarritoVacio
	}

	resueltas := make([]lineaResuelta, 0, len(lineas))
	for _, linea := range lineas {
		pid, err := uuid.Parse(linea.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id invalido: %w", err)
		}
		if linea.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			if repository.EsNoEncontrado(err) {
				return nil, &LineaInvalidaError{ProductoID: pid, Err: err}
			}
			return nil, &PersistenciaError{Op: "consulta de producto", Err: err}
		}

		tasa := decimal.Zero
		if p.Impuesto != nil {
			tasa = p.Impuesto.Porcentaje
		}
		subtotal := p.Precio.Mul(decimal.NewFromInt(int64(linea.Cantidad)))
		// decimal.Round is half-away-from-zero, i.e. half-up for positive amounts.
		impuesto := subtotal.Mul(tasa).Div(decimal.NewFromInt(100)).Round(2)

		resueltas = append(resueltas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.Precio,
			cantidad:   linea.Cantidad,
			subtotal:   subtotal,
			impuesto:   impuesto,
		})
	}

	// Deterministic application order: concurrent multi-line sales lock
	// balance rows in the same sequence, so they cannot deadlock each other.
	sort.Slice(resueltas, func(i, j int) bool {
		return resueltas[i].productoID.String() < resueltas[j].productoID.String()
	})
	return resueltas, nil
}

func totales(resueltas []lineaResuelta) (subtotal, impuestos, total decimal.Decimal) {
	subtotal = decimal.Zero
	impuestos = decimal.Zero
	for _, r := range resueltas {
		subtotal = subtotal.Add(r.subtotal)
		impuestos = impuestos.Add(r.impuesto)
	}
	return subtotal, impuestos, subtotal.Add(impuestos)
}

func (s *ventaService) CotizarCarrito(ctx context.Context, req dto.CotizarCarritoRequest) (*dto.CotizacionResponse, error) {
	resueltas, err := s.resolverCarrito(ctx, req.Lineas)
	if err != nil {
		return nil, err
	}
	subtotal, impuestos, total := totales(resueltas)
	return &dto.CotizacionResponse{Subtotal: subtotal, Impuestos: impuestos, Total: total}, nil
}

// RegistrarVenta settles a cart:
//  1. Resolve products and freeze prices (outside the TX).
//  2. Pre-check every line's saldo — cheap early rejection before any lock.
//  3. TX: apply one venta movement per line in productoID order (the ledger
//     re-checks under the row lock — the pre-check is only an optimization),
//     then persist the venta header + detalles.
//  4. On mid-sequence failure, compensate the already-applied lines before
//     surfacing the error, so the in-memory path used by unit tests holds
//     the same all-or-nothing contract the DB rollback gives production.
//  5. (async) enqueue the PDF receipt job, best effort.
func (s *ventaService) RegistrarVenta(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	tiendaID, err := uuid.Parse(req.TiendaID)
	if err != nil {
		return nil, fmt.Errorf("tienda_id invalido: %w", err)
	}
	metodoPagoID, err := uuid.Parse(req.MetodoPagoID)
	if err != nil {
		return nil, fmt.Errorf("metodo_pago_id invalido: %w", err)
	}
	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id invalido: %w", err)
		}
		clienteID = &id
	}

	resueltas, err := s.resolverCarrito(ctx, req.Lineas)
	if err != nil {
		return nil, err
	}

	// Best-effort pre-check. The authoritative rejection still happens
	// inside AplicarMovimientoTx — a concurrent sale can consume stock
	// between here and the lock.
	for _, r := range resueltas {
		saldo, err := s.inventario.GetSaldo(ctx, r.productoID, tiendaID)
		if err != nil {
			return nil, err
		}
		if saldo < r.cantidad {
			return nil, &StockInsuficienteError{
				ProductoID: r.productoID,
				TiendaID:   tiendaID,
				Solicitado: r.cantidad,
				Disponible: saldo,
			}
		}
	}

	subtotal, impuestos, total := totales(resueltas)

	venta := model.Venta{
		ID:           uuid.New(),
		TiendaID:     tiendaID,
		VendedorID:   vendedorID,
		ClienteID:    clienteID,
		MetodoPagoID: metodoPagoID,
		Subtotal:     subtotal,
		Impuestos:    impuestos,
		Total:        total,
		Estado:       model.VentaPendiente,
		CreatedAt:    time.Now().UTC(),
	}
	for _, r := range resueltas {
		venta.Detalles = append(venta.Detalles, model.DetalleVenta{
			ID:             uuid.New(),
			VentaID:        venta.ID,
			ProductoID:     r.productoID,
			Cantidad:       r.cantidad,
			PrecioUnitario: r.precio,
			Subtotal:       r.subtotal,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		aplicadas := make([]lineaResuelta, 0, len(resueltas))
		ref := venta.ID
		for _, r := range resueltas {
			obs := fmt.Sprintf("Venta %s", venta.ID)
			if _, err := s.inventario.AplicarMovimientoTx(tx, r.productoID, tiendaID, r.cantidad, model.MovimientoVenta, obs, &ref); err != nil {
				s.compensar(tx, aplicadas, tiendaID, venta.ID)
				return err
			}
			aplicadas = append(aplicadas, r)
		}

		venta.Estado = model.VentaCompletada
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			s.compensar(tx, aplicadas, tiendaID, venta.ID)
			venta.Estado = model.VentaPendiente
			return &PersistenciaError{Op: "registro de venta", Err: err}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async PDF receipt — fire & forget, the sale is already committed.
	if s.dispatcher != nil && req.ClienteEmail != nil && *req.ClienteEmail != "" {
		payload := worker.ReciboJobPayload{
			VentaID:      venta.ID.String(),
			ClienteEmail: *req.ClienteEmail,
		}
		if err := s.dispatcher.EnqueueRecibo(ctx, payload); err != nil {
			log.Warn().Err(err).Str("venta_id", venta.ID.String()).Msg("no se pudo encolar el recibo")
		}
	}

	resp := ventaToResponse(&venta)
	for i, r := range resueltas {
		resp.Detalles[i].Producto = r.nombre
	}
	return resp, nil
}

// compensar undoes already-applied sale debits with entradas. Inside a real
// DB transaction the subsequent rollback discards both the debits and these
// compensations; with nil-tx stubs the compensations are what restore the
// balances.
func (s *ventaService) compensar(tx *gorm.DB, aplicadas []lineaResuelta, tiendaID, ventaID uuid.UUID) {
	for _, r := range aplicadas {
		obs := fmt.Sprintf("Compensacion venta fallida %s", ventaID)
		ref := ventaID
		if _, err := s.inventario.AplicarMovimientoTx(tx, r.productoID, tiendaID, r.cantidad, model.MovimientoEntrada, obs, &ref); err != nil {
			log.Error().Err(err).
				Str("venta_id", ventaID.String()).
				Str("producto_id", r.productoID.String()).
				Msg("fallo la compensacion de stock")
		}
	}
}

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return ErrVentaNoEncontrada
		}
		return &PersistenciaError{Op: "consulta de venta", Err: err}
	}
	if venta.Estado == model.VentaAnulada {
		return ErrVentaYaAnulada
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.inventario.RevertirMovimientosVentaTx(tx, venta, motivo); err != nil {
			return err
		}
		if err := s.repo.UpdateEstadoTx(tx, id, model.VentaAnulada); err != nil {
			return &PersistenciaError{Op: "anulacion de venta", Err: err}
		}
		return nil
	})
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, &PersistenciaError{Op: "consulta de venta", Err: err}
	}
	return ventaToResponse(venta), nil
}

// ListVentas returns a paginated sales list. Default filter: today's
// completed sales across all stores.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = model.VentaCompletada
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, &PersistenciaError{Op: "listado de ventas", Err: err}
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ventaService) IngresosMensuales(ctx context.Context, filter dto.IngresosFilter) (*dto.IngresosResponse, error) {
	ingresos, cantidad, err := s.repo.SumIngresosMes(ctx, filter.Anio, filter.Mes, filter.TiendaID)
	if err != nil {
		return nil, &PersistenciaError{Op: "reporte de ingresos", Err: err}
	}
	return &dto.IngresosResponse{
		Anio:     filter.Anio,
		Mes:      filter.Mes,
		Ingresos: ingresos,
		Ventas:   cantidad,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	var clienteID *string
	if v.ClienteID != nil {
		s := v.ClienteID.String()
		clienteID = &s
	}
	return &dto.VentaResponse{
		ID:           v.ID.String(),
		TiendaID:     v.TiendaID.String(),
		VendedorID:   v.VendedorID.String(),
		ClienteID:    clienteID,
		MetodoPagoID: v.MetodoPagoID.String(),
		Detalles:     detalles,
		Subtotal:     v.Subtotal,
		Impuestos:    v.Impuestos,
		Total:        v.Total,
		Estado:       v.Estado,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
	}
}
