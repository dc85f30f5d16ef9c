package router

import (
	"time"

	"sistemapos/internal/config"
	"sistemapos/internal/handler"
	"sistemapos/internal/infra"
	"sistemapos/internal/middleware"
	"sistemapos/internal/repository"
	"sistemapos/internal/service"
	"sistemapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(inventarioRepo, cfg.UmbralStockBajo)
	ventaSvc := service.NewVentaService(ventaRepo, inventarioSvc, productoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Price check — no auth required
	r.GET("/v1/precio/:producto_id", consultaH.GetPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.RegistrarVenta)
		v1.POST("/ventas/cotizar", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.CotizarCarrito)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ObtenerVenta)
		// Cancellation restores stock — restricted to supervisors and up
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.AnularVenta)

		inv := v1.Group("/inventario")
		{
			inv.GET("/saldo", middleware.RequireRole("cajero", "supervisor", "administrador"), inventarioH.ObtenerSaldo)
			inv.GET("/kardex", middleware.RequireRole("cajero", "supervisor", "administrador"), inventarioH.ObtenerKardex)
			inv.GET("/movimientos", middleware.RequireRole("cajero", "supervisor", "administrador"), inventarioH.MovimientosRecientes)
			inv.GET("/alertas", middleware.RequireRole("supervisor", "administrador"), inventarioH.ObtenerAlertas)
			// Manual entrada/salida — supervisor or administrador
			inv.POST("/movimientos", middleware.RequireRole("supervisor", "administrador"), inventarioH.RegistrarMovimiento)
		}

		v1.GET("/reportes/ingresos", middleware.RequireRole("supervisor", "administrador"), ventasH.IngresosMensuales)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
