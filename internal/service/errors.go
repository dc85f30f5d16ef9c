package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Business-rule failures. They are returned as-is to the caller, never
// swallowed and never retried — retrying a rule violation cannot change the
// outcome. Infrastructure failures travel as *PersistenciaError instead so
// the HTTP boundary can map the two families to different status codes.
var (
	// ErrCantidadInvalida — a movement or cart line with cantidad ≤ 0.
	ErrCantidadInvalida = errors.New("la cantidad debe ser mayor a cero")
	// ErrTipoMovimientoInvalido — movement kind outside the closed enum.
	ErrTipoMovimientoInvalido = errors.New("tipo de movimiento desconocido")
	// ErrCarritoVacio — settlement requested with no cart lines.
	ErrCarritoVacio = errors.New("el carrito no contiene lineas")
	// ErrVentaNoEncontrada — sale lookup miss.
	ErrVentaNoEncontrada = errors.New("venta no encontrada")
	// ErrVentaYaAnulada — idempotency guard on cancellation.
	ErrVentaYaAnulada = errors.New("la venta ya esta anulada")
)

// StockInsuficienteError rejects an outgoing movement that would leave the
// balance negative. The ledger guarantees nothing was mutated when it is
// returned.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	TiendaID   uuid.UUID
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: solicitado %d, disponible %d",
		e.ProductoID, e.Solicitado, e.Disponible)
}

// LineaInvalidaError marks a cart line whose product does not exist in the
// catalog (or is inactive). Wraps the underlying lookup error.
type LineaInvalidaError struct {
	ProductoID uuid.UUID
	Err        error
}

func (e *LineaInvalidaError) Error() string {
	return fmt.Sprintf("linea de carrito invalida: producto %s no encontrado", e.ProductoID)
}

func (e *LineaInvalidaError) Unwrap() error { return e.Err }

// PersistenciaError wraps storage/transport failures so callers can tell
// them apart from business failures (eligible for limited retry upstream;
// business errors are not).
type PersistenciaError struct {
	Op  string
	Err error
}

func (e *PersistenciaError) Error() string {
	return fmt.Sprintf("error de persistencia en %s: %v", e.Op, e.Err)
}

func (e *PersistenciaError) Unwrap() error { return e.Err }

// EsErrorDeNegocio reports whether err belongs to the business-rule family.
// The HTTP boundary uses it to decide between 4xx and 500.
func EsErrorDeNegocio(err error) bool {
	var stock *StockInsuficienteError
	var linea *LineaInvalidaError
	return errors.Is(err, ErrCantidadInvalida) ||
		errors.Is(err, ErrTipoMovimientoInvalido) ||
		errors.Is(err, ErrCarritoVacio) ||
		errors.Is(err, ErrVentaNoEncontrada) ||
		errors.Is(err, ErrVentaYaAnulada) ||
		errors.As(err, &stock) ||
		errors.As(err, &linea)
}
