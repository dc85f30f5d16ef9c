package handler

import (
	"errors"
	"net/http"
	"reflect"

	"sistemapos/internal/apierror"
	"sistemapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate does the same for query-string filters.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps the service error taxonomy to HTTP statuses.
// Business-rule violations surface their message; infrastructure failures
// collapse to an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	var stock *service.StockInsuficienteError
	var persist *service.PersistenciaError
	switch {
	case errors.Is(err, service.ErrVentaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrVentaYaAnulada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &persist):
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	default:
		// Remaining errors are request-shaped (bad ids, empty cart, invalid
		// lines) — safe to echo.
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
