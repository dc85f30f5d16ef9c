package tests

import (
	"context"
	"testing"
	"time"

	"sistemapos/internal/dto"
	"sistemapos/internal/model"
	"sistemapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVentaSvc() (service.VentaService, service.InventarioService, *stubVentaRepo, *stubProductoRepo, *stubInventarioRepo) {
	productoRepo := newStubProductoRepo()
	invRepo := newStubInventarioRepo()
	ventaRepo := newStubVentaRepo()
	invSvc := service.NewInventarioService(invRepo, 10)
	svc := service.NewVentaService(ventaRepo, invSvc, productoRepo, nil)
	return svc, invSvc, ventaRepo, productoRepo, invRepo
}

func seedStock(t *testing.T, invSvc service.InventarioService, productoID, tiendaID uuid.UUID, cantidad int) {
	t.Helper()
	_, err := invSvc.AplicarMovimiento(context.Background(), dto.MovimientoRequest{
		ProductoID:     productoID.String(),
		TiendaID:       tiendaID.String(),
		Cantidad:       cantidad,
		TipoMovimiento: string(model.MovimientoEntrada),
		Observaciones:  "Stock inicial",
	})
	require.NoError(t, err)
}

func ventaRequest(tiendaID uuid.UUID, lineas ...dto.LineaCarritoRequest) dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{
		TiendaID:     tiendaID.String(),
		MetodoPagoID: uuid.New().String(),
		Lineas:       lineas,
	}
}

func TestRegistrarVenta_Exitosa(t *testing.T) {
	svc, invSvc, ventaRepo, productoRepo, invRepo := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Cafe molido 500g", "25.00", "19")
	seedStock(t, invSvc, p.ID, tiendaID, 50)

	resp, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 3},
	))
	require.NoError(t, err)

	// 25.00 × 3 = 75.00; IVA 19% = 14.25; total 89.25
	assert.Equal(t, "75.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "14.25", resp.Impuestos.StringFixed(2))
	assert.Equal(t, "89.25", resp.Total.StringFixed(2))
	assert.Equal(t, model.VentaCompletada, resp.Estado)
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, "25.00", resp.Detalles[0].PrecioUnitario.StringFixed(2))
	assert.Equal(t, "Cafe molido 500g", resp.Detalles[0].Producto)

	// Stock debited: 50 → 47
	saldo, err := invSvc.GetSaldo(ctx, p.ID, tiendaID)
	require.NoError(t, err)
	assert.Equal(t, 47, saldo)

	// Kardex: opening entrada + one venta movement linked to the sale
	movimientos := invRepo.kardexDe(p.ID, tiendaID)
	require.Len(t, movimientos, 2)
	venta := movimientos[1]
	assert.Equal(t, model.MovimientoVenta, venta.TipoMovimiento)
	assert.Equal(t, 50, venta.SaldoAnterior)
	assert.Equal(t, 47, venta.SaldoNuevo)
	require.NotNil(t, venta.ReferenciaID)
	assert.Equal(t, resp.ID, venta.ReferenciaID.String())

	// Persisted header
	stored, err := ventaRepo.FindByID(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, model.VentaCompletada, stored.Estado)
	assert.Len(t, stored.Detalles, 1)
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	svc, invSvc, ventaRepo, productoRepo, invRepo := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Vino 750ml", "80.00", "19")
	seedStock(t, invSvc, p.ID, tiendaID, 2)

	_, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 5},
	))
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Solicitado)
	assert.Equal(t, 2, stockErr.Disponible)

	// Nothing happened: saldo intact, no venta, only the opening entrada
	saldo, _ := invSvc.GetSaldo(ctx, p.ID, tiendaID)
	assert.Equal(t, 2, saldo)
	assert.Empty(t, ventaRepo.ventas)
	assert.Len(t, invRepo.kardexDe(p.ID, tiendaID), 1)
}

func TestRegistrarVenta_CarritoVacio(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), ventaRequest(uuid.New()))
	assert.ErrorIs(t, err, service.ErrCarritoVacio)
}

func TestRegistrarVenta_ProductoInexistente(t *testing.T) {
	svc, invSvc, ventaRepo, productoRepo, _ := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Arroz 1kg", "6.00", "0")
	seedStock(t, invSvc, p.ID, tiendaID, 30)

	// One valid line, one unknown product: the whole cart is rejected
	_, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 1},
		dto.LineaCarritoRequest{ProductoID: uuid.New().String(), Cantidad: 1},
	))
	var lineaErr *service.LineaInvalidaError
	require.ErrorAs(t, err, &lineaErr)

	saldo, _ := invSvc.GetSaldo(ctx, p.ID, tiendaID)
	assert.Equal(t, 30, saldo)
	assert.Empty(t, ventaRepo.ventas)
}

func TestRegistrarVenta_MultilineaAtomica(t *testing.T) {
	svc, invSvc, _, productoRepo, _ := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	a := seedProducto(productoRepo, "Leche 1L", "4.50", "0")
	b := seedProducto(productoRepo, "Chocolate", "12.30", "19")
	c := seedProducto(productoRepo, "Jabon", "7.80", "19")
	seedStock(t, invSvc, a.ID, tiendaID, 10)
	seedStock(t, invSvc, b.ID, tiendaID, 10)
	// c deliberately without stock

	_, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: a.ID.String(), Cantidad: 2},
		dto.LineaCarritoRequest{ProductoID: b.ID.String(), Cantidad: 1},
		dto.LineaCarritoRequest{ProductoID: c.ID.String(), Cantidad: 1},
	))
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, c.ID, stockErr.ProductoID)

	// No line was debited — whole-cart or nothing
	saldoA, _ := invSvc.GetSaldo(ctx, a.ID, tiendaID)
	saldoB, _ := invSvc.GetSaldo(ctx, b.ID, tiendaID)
	assert.Equal(t, 10, saldoA)
	assert.Equal(t, 10, saldoB)
}

func TestRegistrarVenta_CompensaAlFallarPersistencia(t *testing.T) {
	svc, invSvc, ventaRepo, productoRepo, invRepo := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Gaseosa 1.5L", "3.20", "19")
	seedStock(t, invSvc, p.ID, tiendaID, 20)

	ventaRepo.failCreate = true
	_, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 4},
	))
	var persistErr *service.PersistenciaError
	require.ErrorAs(t, err, &persistErr)

	// Debit was compensated, nothing stored
	saldo, _ := invSvc.GetSaldo(ctx, p.ID, tiendaID)
	assert.Equal(t, 20, saldo)
	assert.Empty(t, ventaRepo.ventas)

	// The trail shows debit + compensation, and replay still matches
	replay, err := invSvc.ReconstruirSaldo(ctx, p.ID, tiendaID)
	require.NoError(t, err)
	assert.Equal(t, saldo, replay)
	assert.Len(t, invRepo.kardexDe(p.ID, tiendaID), 3)
}

func TestAnularVenta_RestauraStock(t *testing.T) {
	svc, invSvc, ventaRepo, productoRepo, invRepo := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Whisky 750ml", "90.00", "19")
	seedStock(t, invSvc, p.ID, tiendaID, 50)

	resp, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 3},
	))
	require.NoError(t, err)
	saldo, _ := invSvc.GetSaldo(ctx, p.ID, tiendaID)
	require.Equal(t, 47, saldo)

	ventaID := uuid.MustParse(resp.ID)
	require.NoError(t, svc.AnularVenta(ctx, ventaID, "error de captura"))

	// Stock restored and header marked anulada
	saldo, _ = invSvc.GetSaldo(ctx, p.ID, tiendaID)
	assert.Equal(t, 50, saldo)
	stored, _ := ventaRepo.FindByID(ctx, ventaID)
	assert.Equal(t, model.VentaAnulada, stored.Estado)

	// The original venta movement survives; the reversal is a new entrada
	// referencing the sale
	movimientos := invRepo.kardexDe(p.ID, tiendaID)
	require.Len(t, movimientos, 3)
	assert.Equal(t, model.MovimientoVenta, movimientos[1].TipoMovimiento)
	reversa := movimientos[2]
	assert.Equal(t, model.MovimientoEntrada, reversa.TipoMovimiento)
	assert.Equal(t, 47, reversa.SaldoAnterior)
	assert.Equal(t, 50, reversa.SaldoNuevo)
	require.NotNil(t, reversa.ReferenciaID)
	assert.Equal(t, ventaID, *reversa.ReferenciaID)

	replay, err := invSvc.ReconstruirSaldo(ctx, p.ID, tiendaID)
	require.NoError(t, err)
	assert.Equal(t, 50, replay)
}

func TestAnularVenta_Doble(t *testing.T) {
	svc, invSvc, _, productoRepo, _ := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Jugo 1L", "5.00", "0")
	seedStock(t, invSvc, p.ID, tiendaID, 10)

	resp, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2},
	))
	require.NoError(t, err)
	ventaID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.AnularVenta(ctx, ventaID, "cliente se arrepintio"))
	err = svc.AnularVenta(ctx, ventaID, "de nuevo")
	assert.ErrorIs(t, err, service.ErrVentaYaAnulada)

	// Idempotency guard held: no double restock
	saldo, _ := invSvc.GetSaldo(ctx, p.ID, tiendaID)
	assert.Equal(t, 10, saldo)
}

func TestAnularVenta_NoEncontrada(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()

	err := svc.AnularVenta(context.Background(), uuid.New(), "no existe")
	assert.ErrorIs(t, err, service.ErrVentaNoEncontrada)
}

func TestListVentas_FiltraPorEstado(t *testing.T) {
	svc, invSvc, _, productoRepo, _ := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Pan", "1.50", "0")
	seedStock(t, invSvc, p.ID, tiendaID, 100)

	r1, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 1}))
	require.NoError(t, err)
	_, err = svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2}))
	require.NoError(t, err)

	require.NoError(t, svc.AnularVenta(ctx, uuid.MustParse(r1.ID), "prueba"))

	completadas, err := svc.ListVentas(ctx, dto.VentaFilter{Estado: model.VentaCompletada})
	require.NoError(t, err)
	assert.Equal(t, int64(1), completadas.Total)

	todas, err := svc.ListVentas(ctx, dto.VentaFilter{Estado: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), todas.Total)
}

func TestIngresosMensuales_SoloCompletadas(t *testing.T) {
	svc, invSvc, _, productoRepo, _ := buildVentaSvc()
	tiendaID := uuid.New()
	ctx := context.Background()

	p := seedProducto(productoRepo, "Cafe", "10.00", "0")
	seedStock(t, invSvc, p.ID, tiendaID, 100)

	r1, err := svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2})) // 20.00
	require.NoError(t, err)
	_, err = svc.RegistrarVenta(ctx, uuid.New(), ventaRequest(tiendaID,
		dto.LineaCarritoRequest{ProductoID: p.ID.String(), Cantidad: 3})) // 30.00
	require.NoError(t, err)

	// Cancelled sales drop out of the rollup
	require.NoError(t, svc.AnularVenta(ctx, uuid.MustParse(r1.ID), "prueba"))

	hoy := time.Now().UTC()
	ingresos, err := svc.IngresosMensuales(ctx, dto.IngresosFilter{Anio: hoy.Year(), Mes: int(hoy.Month())})
	require.NoError(t, err)
	assert.Equal(t, "30.00", ingresos.Ingresos.StringFixed(2))
	assert.Equal(t, int64(1), ingresos.Ventas)
}
