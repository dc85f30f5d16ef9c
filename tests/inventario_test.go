package tests

import (
	"context"
	"testing"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"
	"sistemapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventarioSvc(umbral int) (service.InventarioService, *stubInventarioRepo) {
	repo := newStubInventarioRepo()
	return service.NewInventarioService(repo, umbral), repo
}

func movimiento(productoID, tiendaID uuid.UUID, cantidad int, tipo model.TipoMovimiento) dto.MovimientoRequest {
	return dto.MovimientoRequest{
		ProductoID:     productoID.String(),
		TiendaID:       tiendaID.String(),
		Cantidad:       cantidad,
		TipoMovimiento: string(tipo),
	}
}

func TestGetSaldo_SinMovimientos(t *testing.T) {
	svc, _ := buildInventarioSvc(10)

	saldo, err := svc.GetSaldo(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, saldo)
}

func TestAplicarMovimiento_PrimeraEntrada(t *testing.T) {
	svc, repo := buildInventarioSvc(10)
	productoID, tiendaID := uuid.New(), uuid.New()

	resp, err := svc.AplicarMovimiento(context.Background(), movimiento(productoID, tiendaID, 50, model.MovimientoEntrada))
	require.NoError(t, err)

	// Balance row created lazily at 0, then credited
	assert.Equal(t, 0, resp.SaldoAnterior)
	assert.Equal(t, 50, resp.SaldoNuevo)

	saldo, err := svc.GetSaldo(context.Background(), productoID, tiendaID)
	require.NoError(t, err)
	assert.Equal(t, 50, saldo)

	movimientos := repo.kardexDe(productoID, tiendaID)
	require.Len(t, movimientos, 1)
	assert.Equal(t, model.MovimientoEntrada, movimientos[0].TipoMovimiento)
}

func TestAplicarMovimiento_SalidaInsuficiente(t *testing.T) {
	svc, repo := buildInventarioSvc(10)
	productoID, tiendaID := uuid.New(), uuid.New()

	_, err := svc.AplicarMovimiento(context.Background(), movimiento(productoID, tiendaID, 2, model.MovimientoEntrada))
	require.NoError(t, err)

	_, err = svc.AplicarMovimiento(context.Background(), movimiento(productoID, tiendaID, 5, model.MovimientoSalida))
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Solicitado)
	assert.Equal(t, 2, stockErr.Disponible)

	// Nothing mutated: saldo intact, no kardex row for the rejected salida
	saldo, _ := svc.GetSaldo(context.Background(), productoID, tiendaID)
	assert.Equal(t, 2, saldo)
	assert.Len(t, repo.kardexDe(productoID, tiendaID), 1)
}

func TestAplicarMovimiento_CantidadInvalida(t *testing.T) {
	svc, _ := buildInventarioSvc(10)

	_, err := svc.AplicarMovimiento(context.Background(), movimiento(uuid.New(), uuid.New(), 0, model.MovimientoEntrada))
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)

	_, err = svc.AplicarMovimiento(context.Background(), movimiento(uuid.New(), uuid.New(), -3, model.MovimientoSalida))
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
}

func TestAplicarMovimiento_VentaManualRechazada(t *testing.T) {
	svc, _ := buildInventarioSvc(10)

	// Sale debits only enter through the settlement engine
	_, err := svc.AplicarMovimiento(context.Background(), movimiento(uuid.New(), uuid.New(), 1, model.MovimientoVenta))
	assert.ErrorIs(t, err, service.ErrTipoMovimientoInvalido)
}

func TestAplicarMovimiento_TipoDesconocido(t *testing.T) {
	svc, _ := buildInventarioSvc(10)

	req := movimiento(uuid.New(), uuid.New(), 1, model.MovimientoEntrada)
	req.TipoMovimiento = "prestamo"
	_, err := svc.AplicarMovimiento(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrTipoMovimientoInvalido)
}

func TestReconstruirSaldo_CoincideConSaldoActual(t *testing.T) {
	svc, _ := buildInventarioSvc(10)
	productoID, tiendaID := uuid.New(), uuid.New()
	ctx := context.Background()

	secuencia := []struct {
		cantidad int
		tipo     model.TipoMovimiento
	}{
		{100, model.MovimientoEntrada},
		{30, model.MovimientoSalida},
		{15, model.MovimientoEntrada},
		{40, model.MovimientoSalida},
	}
	for _, m := range secuencia {
		_, err := svc.AplicarMovimiento(ctx, movimiento(productoID, tiendaID, m.cantidad, m.tipo))
		require.NoError(t, err)
	}

	saldo, err := svc.GetSaldo(ctx, productoID, tiendaID)
	require.NoError(t, err)
	assert.Equal(t, 45, saldo)

	replay, err := svc.ReconstruirSaldo(ctx, productoID, tiendaID)
	require.NoError(t, err)
	assert.Equal(t, saldo, replay)
}

func TestListarBajoStock_FiltroYOrden(t *testing.T) {
	svc, _ := buildInventarioSvc(10)
	tiendaID := uuid.New()
	ctx := context.Background()

	critico, escaso, sobrado := uuid.New(), uuid.New(), uuid.New()
	_, err := svc.AplicarMovimiento(ctx, movimiento(critico, tiendaID, 2, model.MovimientoEntrada))
	require.NoError(t, err)
	_, err = svc.AplicarMovimiento(ctx, movimiento(escaso, tiendaID, 8, model.MovimientoEntrada))
	require.NoError(t, err)
	_, err = svc.AplicarMovimiento(ctx, movimiento(sobrado, tiendaID, 500, model.MovimientoEntrada))
	require.NoError(t, err)

	alertas, err := svc.ListarBajoStock(ctx, dto.AlertasFilter{TiendaID: tiendaID.String()})
	require.NoError(t, err)

	// Default umbral (10) applies; most critical first
	require.Len(t, alertas, 2)
	assert.Equal(t, critico.String(), alertas[0].ProductoID)
	assert.Equal(t, 2, alertas[0].Saldo)
	assert.Equal(t, escaso.String(), alertas[1].ProductoID)
	assert.Equal(t, 10, alertas[0].Umbral)
}

func TestListarBajoStock_UmbralExplicito(t *testing.T) {
	svc, _ := buildInventarioSvc(10)
	tiendaID := uuid.New()
	ctx := context.Background()

	productoID := uuid.New()
	_, err := svc.AplicarMovimiento(ctx, movimiento(productoID, tiendaID, 40, model.MovimientoEntrada))
	require.NoError(t, err)

	alertas, err := svc.ListarBajoStock(ctx, dto.AlertasFilter{TiendaID: tiendaID.String(), Umbral: 50})
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, 50, alertas[0].Umbral)
}

func TestObtenerKardex_HistorialDelPar(t *testing.T) {
	svc, _ := buildInventarioSvc(10)
	productoID, tiendaID := uuid.New(), uuid.New()
	ctx := context.Background()

	_, err := svc.AplicarMovimiento(ctx, movimiento(productoID, tiendaID, 20, model.MovimientoEntrada))
	require.NoError(t, err)
	_, err = svc.AplicarMovimiento(ctx, movimiento(productoID, tiendaID, 5, model.MovimientoSalida))
	require.NoError(t, err)

	resp, err := svc.ObtenerKardex(ctx, dto.KardexFilter{ProductoID: productoID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Data, 2)
	for _, m := range resp.Data {
		assert.Equal(t, productoID.String(), m.ProductoID)
		assert.Positive(t, m.Cantidad)
	}
}
