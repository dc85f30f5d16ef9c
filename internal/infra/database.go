package infra

import (
	"fmt"

	"sistemapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the full schema. Decimal precision and the composite
// unique index on inventario are declared via column tags on the models.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}

// RunMigrations creates/updates all tables. Also used by integration tests
// against a disposable database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Compania{},
		&model.Tienda{},
		&model.Persona{},
		&model.Usuario{},
		&model.Unidad{},
		&model.Impuesto{},
		&model.Producto{},
		&model.MetodoPago{},
		&model.Inventario{},
		&model.Kardex{},
		&model.Venta{},
		&model.DetalleVenta{},
	)
}
