package handler

import (
	"net/http"

	"sistemapos/internal/apierror"
	"sistemapos/internal/dto"
	"sistemapos/internal/middleware"
	"sistemapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Liquida el carrito de forma atomica: descuenta stock de todas las lineas, registra el kardex y persiste la venta. Opcionalmente despacha el recibo PDF por email.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Stock insuficiente"
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	vendedorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarVenta(c.Request.Context(), vendedorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CotizarCarrito godoc
// @Summary      Cotizar un carrito
// @Description  Calcula subtotal, impuestos y total sin tocar stock ni persistir nada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CotizarCarritoRequest true "Lineas del carrito"
// @Success      200  {object} dto.CotizacionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas/cotizar [post]
func (h *VentasHandler) CotizarCarrito(c *gin.Context) {
	var req dto.CotizarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CotizarCarrito(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Anula una venta completada: restaura stock con entradas compensatorias y conserva la venta para auditoria.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "UUID de la venta"
// @Param        body body     dto.AnularVentaRequest true "Motivo de anulacion"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Venta ya anulada"
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AnularVenta(c.Request.Context(), id, req.Motivo); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ObtenerVenta godoc
// @Summary      Obtener venta por ID
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por fecha, tienda y estado.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha     query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        tienda_id query string false "UUID de la tienda"
// @Param        estado    query string false "completada | anulada | all"
// @Param        page      query int    false "Pagina (default 1)"
// @Param        limit     query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.VentaListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IngresosMensuales godoc
// @Summary      Reporte de ingresos mensuales
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        anio      query int    true  "Anio"
// @Param        mes       query int    true  "Mes (1-12)"
// @Param        tienda_id query string false "UUID de la tienda"
// @Success      200 {object} dto.IngresosResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/ingresos [get]
func (h *VentasHandler) IngresosMensuales(c *gin.Context) {
	var filter dto.IngresosFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.IngresosMensuales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
