package repository

import (
	"context"
	"fmt"
	"time"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// SumIngresosMes totals completed sales for one calendar month.
	SumIngresosMes(ctx context.Context, anio, mes int, tiendaID string) (decimal.Decimal, int64, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.TiendaID != "" {
		q = q.Where("tienda_id = ?", filter.TiendaID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var ventas []model.Venta
	err := q.Preload("Detalles.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) SumIngresosMes(ctx context.Context, anio, mes int, tiendaID string) (decimal.Decimal, int64, error) {
	desde := time.Date(anio, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 1, 0)

	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("estado = ?", model.VentaCompletada).
		Where("created_at >= ? AND created_at < ?", desde, hasta)
	if tiendaID != "" {
		q = q.Where("tienda_id = ?", tiendaID)
	}

	var row struct {
		Ingresos decimal.Decimal
		Ventas   int64
	}
	err := q.Select("COALESCE(SUM(total), 0) AS ingresos, COUNT(*) AS ventas").Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum ingresos %d-%02d: %w", anio, mes, err)
	}
	return row.Ingresos, row.Ventas, nil
}
