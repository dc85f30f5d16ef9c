package repository

import (
	"context"
	"errors"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventarioRepository is the persistence gateway for stock balances and the
// kardex. Balance reads outside a transaction may be slightly stale; the
// authoritative read happens via FindSaldoForUpdateTx under a row lock, which
// serializes concurrent movements on the same (producto, tienda) key while
// letting movements on different keys proceed in parallel.
type InventarioRepository interface {
	FindSaldo(ctx context.Context, productoID, tiendaID uuid.UUID) (*model.Inventario, error)
	ListBajoStock(ctx context.Context, tiendaID *uuid.UUID, umbral int) ([]model.Inventario, error)

	// Used inside transactions — callers must pass the tx instance.
	FindSaldoForUpdateTx(tx *gorm.DB, productoID, tiendaID uuid.UUID) (*model.Inventario, error)
	CreateSaldoTx(tx *gorm.DB, inv *model.Inventario) error
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo int) error
	CreateKardexTx(tx *gorm.DB, k *model.Kardex) error

	ListKardex(ctx context.Context, filter dto.KardexFilter) ([]model.Kardex, int64, error)
	ListKardexRecientes(ctx context.Context, filter dto.MovimientosRecientesFilter) ([]model.Kardex, error)
	// ListKardexCronologico returns every movement for a pair in ascending
	// date order — the input for balance replay verification.
	ListKardexCronologico(ctx context.Context, productoID, tiendaID uuid.UUID) ([]model.Kardex, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) FindSaldo(ctx context.Context, productoID, tiendaID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND tienda_id = ?", productoID, tiendaID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventarioRepo) FindSaldoForUpdateTx(tx *gorm.DB, productoID, tiendaID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ? AND tienda_id = ?", productoID, tiendaID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventarioRepo) CreateSaldoTx(tx *gorm.DB, inv *model.Inventario) error {
	return tx.Create(inv).Error
}

func (r *inventarioRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo int) error {
	res := tx.Model(&model.Inventario{}).Where("id = ?", id).Update("saldo", saldo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventarioRepo) CreateKardexTx(tx *gorm.DB, k *model.Kardex) error {
	return tx.Create(k).Error
}

func (r *inventarioRepo) ListBajoStock(ctx context.Context, tiendaID *uuid.UUID, umbral int) ([]model.Inventario, error) {
	q := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Preload("Producto").
		Where("saldo <= ?", umbral)
	if tiendaID != nil {
		q = q.Where("tienda_id = ?", *tiendaID)
	}

	var inventarios []model.Inventario
	err := q.Order("saldo ASC").Find(&inventarios).Error
	return inventarios, err
}

func (r *inventarioRepo) ListKardex(ctx context.Context, filter dto.KardexFilter) ([]model.Kardex, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Kardex{}).
		Preload("Producto").
		Where("producto_id = ?", filter.ProductoID)
	if filter.TiendaID != "" {
		q = q.Where("tienda_id = ?", filter.TiendaID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.Kardex
	err := q.Order("fecha DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func (r *inventarioRepo) ListKardexRecientes(ctx context.Context, filter dto.MovimientosRecientesFilter) ([]model.Kardex, error) {
	q := r.db.WithContext(ctx).Model(&model.Kardex{}).Preload("Producto")
	if filter.TiendaID != "" {
		q = q.Where("tienda_id = ?", filter.TiendaID)
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var movimientos []model.Kardex
	err := q.Order("fecha DESC").Limit(limit).Find(&movimientos).Error
	return movimientos, err
}

func (r *inventarioRepo) ListKardexCronologico(ctx context.Context, productoID, tiendaID uuid.UUID) ([]model.Kardex, error) {
	var movimientos []model.Kardex
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND tienda_id = ?", productoID, tiendaID).
		Order("fecha ASC").
		Find(&movimientos).Error
	return movimientos, err
}

// EsNoEncontrado reports whether err is a gorm record miss, so services can
// distinguish "no balance row yet" (saldo 0) from real persistence failures.
func EsNoEncontrado(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
