package handler

import (
	"net/http"

	"sistemapos/internal/apierror"
	"sistemapos/internal/dto"
	"sistemapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// ObtenerSaldo godoc
// @Summary      Saldo actual de un producto en una tienda
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string true "UUID del producto"
// @Param        tienda_id   query string true "UUID de la tienda"
// @Success      200 {object} dto.SaldoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/saldo [get]
func (h *InventarioHandler) ObtenerSaldo(c *gin.Context) {
	productoID, err := uuid.Parse(c.Query("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
		return
	}
	tiendaID, err := uuid.Parse(c.Query("tienda_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("tienda_id invalido"))
		return
	}

	saldo, err := h.svc.GetSaldo(c.Request.Context(), productoID, tiendaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaldoResponse{
		ProductoID: productoID.String(),
		TiendaID:   tiendaID.String(),
		Saldo:      saldo,
	})
}

// RegistrarMovimiento godoc
// @Summary      Registrar un movimiento manual de inventario
// @Description  Entrada (recepcion, devolucion) o salida (merma, ajuste). Los descuentos por venta no pasan por aqui.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovimientoRequest true "Movimiento"
// @Success      201  {object} dto.KardexResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Stock insuficiente"
// @Router       /v1/inventario/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AplicarMovimiento(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerKardex godoc
// @Summary      Kardex de un producto
// @Description  Historial paginado de movimientos (mas recientes primero).
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string true  "UUID del producto"
// @Param        tienda_id   query string false "UUID de la tienda"
// @Param        page        query int    false "Pagina (default 1)"
// @Param        limit       query int    false "Registros por pagina (default 100)"
// @Success      200 {object} dto.KardexListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/kardex [get]
func (h *InventarioHandler) ObtenerKardex(c *gin.Context) {
	var filter dto.KardexFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ObtenerKardex(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar el kardex"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MovimientosRecientes godoc
// @Summary      Ultimos movimientos de inventario
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        tienda_id query string false "UUID de la tienda"
// @Param        limit     query int    false "Cantidad (default 50)"
// @Success      200 {array} dto.KardexResponse
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) MovimientosRecientes(c *gin.Context) {
	var filter dto.MovimientosRecientesFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.MovimientosRecientes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerAlertas godoc
// @Summary      Productos con stock bajo
// @Description  Lista los saldos en o por debajo del umbral, ordenados del mas critico al menos.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        tienda_id query string false "UUID de la tienda"
// @Param        umbral    query int    false "Umbral (default: configuracion del servidor)"
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/inventario/alertas [get]
func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	var filter dto.AlertasFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListarBajoStock(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
