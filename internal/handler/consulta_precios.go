package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sistemapos/internal/apierror"
	"sistemapos/internal/dto"
	"sistemapos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaPreciosHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaPreciosHandler(repo repository.ProductoRepository, rdb *redis.Client) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{repo: repo, rdb: rdb}
}

// GetPrecio godoc
// @Summary Consulta de precio por producto (sin autenticacion)
// @Tags precio
// @Produce json
// @Param producto_id path string true "UUID del producto"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{producto_id} [get]
func (h *ConsultaPreciosHandler) GetPrecio(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := "precio:" + productoID.String()

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecioResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	producto, err := h.repo.FindByID(ctx, productoID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	impuesto := decimal.Zero
	if producto.Impuesto != nil {
		impuesto = producto.Impuesto.Porcentaje
	}
	resp := dto.ConsultaPrecioResponse{
		ProductoID: producto.ID.String(),
		Nombre:     producto.Nombre,
		Categoria:  producto.Categoria,
		Precio:     producto.Precio,
		Impuesto:   impuesto,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
