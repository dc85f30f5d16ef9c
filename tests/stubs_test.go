package tests

import (
	"context"
	"sort"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"
	"sistemapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services open transactions through runTx,
// which passes a nil *gorm.DB when the repository reports no database —
// every Tx method here ignores its tx argument for that reason.

// ── Inventario ────────────────────────────────────────────────────────────────

type stubInventarioRepo struct {
	saldos map[string]*model.Inventario
	kardex []model.Kardex
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{saldos: make(map[string]*model.Inventario)}
}

func saldoKey(productoID, tiendaID uuid.UUID) string {
	return productoID.String() + "|" + tiendaID.String()
}

func (r *stubInventarioRepo) FindSaldo(_ context.Context, productoID, tiendaID uuid.UUID) (*model.Inventario, error) {
	inv, ok := r.saldos[saldoKey(productoID, tiendaID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInventarioRepo) FindSaldoForUpdateTx(_ *gorm.DB, productoID, tiendaID uuid.UUID) (*model.Inventario, error) {
	return r.FindSaldo(context.Background(), productoID, tiendaID)
}

func (r *stubInventarioRepo) CreateSaldoTx(_ *gorm.DB, inv *model.Inventario) error {
	r.saldos[saldoKey(inv.ProductoID, inv.TiendaID)] = inv
	return nil
}

func (r *stubInventarioRepo) UpdateSaldoTx(_ *gorm.DB, id uuid.UUID, saldo int) error {
	for _, inv := range r.saldos {
		if inv.ID == id {
			inv.Saldo = saldo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubInventarioRepo) CreateKardexTx(_ *gorm.DB, k *model.Kardex) error {
	r.kardex = append(r.kardex, *k)
	return nil
}

func (r *stubInventarioRepo) ListBajoStock(_ context.Context, tiendaID *uuid.UUID, umbral int) ([]model.Inventario, error) {
	var out []model.Inventario
	for _, inv := range r.saldos {
		if inv.Saldo > umbral {
			continue
		}
		if tiendaID != nil && inv.TiendaID != *tiendaID {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Saldo < out[j].Saldo })
	return out, nil
}

func (r *stubInventarioRepo) ListKardex(_ context.Context, filter dto.KardexFilter) ([]model.Kardex, int64, error) {
	var out []model.Kardex
	for _, k := range r.kardex {
		if k.ProductoID.String() != filter.ProductoID {
			continue
		}
		if filter.TiendaID != "" && k.TiendaID.String() != filter.TiendaID {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, int64(len(out)), nil
}

func (r *stubInventarioRepo) ListKardexRecientes(_ context.Context, filter dto.MovimientosRecientesFilter) ([]model.Kardex, error) {
	var out []model.Kardex
	for _, k := range r.kardex {
		if filter.TiendaID != "" && k.TiendaID.String() != filter.TiendaID {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *stubInventarioRepo) ListKardexCronologico(_ context.Context, productoID, tiendaID uuid.UUID) ([]model.Kardex, error) {
	var out []model.Kardex
	for _, k := range r.kardex {
		if k.ProductoID == productoID && k.TiendaID == tiendaID {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

func (r *stubInventarioRepo) DB() *gorm.DB { return nil }

// kardexDe returns the movements for one pair in insertion order.
func (r *stubInventarioRepo) kardexDe(productoID, tiendaID uuid.UUID) []model.Kardex {
	var out []model.Kardex
	for _, k := range r.kardex {
		if k.ProductoID == productoID && k.TiendaID == tiendaID {
			out = append(out, k)
		}
	}
	return out
}

var _ repository.InventarioRepository = (*stubInventarioRepo)(nil)

// ── Producto ──────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || !p.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// seedProducto registers a catalog product with the given price and tax rate
// (both as decimal strings) and returns it.
func seedProducto(repo *stubProductoRepo, nombre, precio, tasa string) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		Nombre:    nombre,
		Categoria: "Abarrotes",
		Precio:    decimal.RequireFromString(precio),
		Activo:    true,
		Impuesto: &model.Impuesto{
			ID:         uuid.New(),
			Nombre:     "IVA " + tasa + "%",
			Porcentaje: decimal.RequireFromString(tasa),
		},
	}
	p.ImpuestoID = p.Impuesto.ID
	repo.productos[p.ID] = p
	return p
}

// ── Venta ─────────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	// failCreate makes CreateTx fail once, to exercise the compensation path.
	failCreate bool
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if r.failCreate {
		r.failCreate = false
		return gorm.ErrInvalidTransaction
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	stored := *v
	r.ventas[v.ID] = &stored
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		if filter.TiendaID != "" && v.TiendaID.String() != filter.TiendaID {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) SumIngresosMes(_ context.Context, anio, mes int, tiendaID string) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var cantidad int64
	for _, v := range r.ventas {
		if v.Estado != model.VentaCompletada {
			continue
		}
		if v.CreatedAt.Year() != anio || int(v.CreatedAt.Month()) != mes {
			continue
		}
		if tiendaID != "" && v.TiendaID.String() != tiendaID {
			continue
		}
		total = total.Add(v.Total)
		cantidad++
	}
	return total, cantidad, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)
