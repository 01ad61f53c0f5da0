package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ferreteria/internal/application/analytics"
	"github.com/jhoicas/inventario-ferreteria/internal/application/auth"
	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/application/recovery"
	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	RecoveryUC      *recovery.UseCase
	ProductUC       *usecase.ProductUseCase
	CategoryUC      *usecase.CategoryUseCase
	SupplierUC      *usecase.SupplierUseCase
	UserUC          *usecase.UserUseCase
	LedgerUC        *inventory.LedgerUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	DashboardUC     *analytics.DashboardUseCase
	JWT             jwt.Options  // Secret e Issuer; TTL no aplica aquí
	LoginLimiter    *RateLimiter // nil = sin límite
	Metrics         *Metrics     // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWT)
	adminOnly := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleAdmin, entity.RoleOperator)

	// Auth y recuperación de contraseña (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.RecoveryUC)
	authGroup.Post("/register", authHandler.Register)
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", deps.LoginLimiter.Middleware(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/verify-code", authHandler.VerifyCode)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth, staff)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Catálogo: lectura para todo el personal, escritura solo Admin
	catalogHandler := NewCatalogHandler(deps.CategoryUC, deps.SupplierUC)
	categories := protected.Group("/categories")
	categories.Post("/", adminOnly, catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", adminOnly, catalogHandler.UpdateCategory)
	categories.Delete("/:id", adminOnly, catalogHandler.DeleteCategory)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", adminOnly, catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)
	suppliers.Get("/:id", catalogHandler.GetSupplier)
	suppliers.Put("/:id", adminOnly, catalogHandler.UpdateSupplier)
	suppliers.Delete("/:id", adminOnly, catalogHandler.DeleteSupplier)

	// Kardex
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReplenishmentUC)
	invGroup.Post("/entries", inventoryHandler.CreateEntry)
	invGroup.Get("/entries", inventoryHandler.ListEntries)
	invGroup.Get("/entries/:id", inventoryHandler.GetEntry)
	invGroup.Post("/exits", inventoryHandler.CreateExit)
	invGroup.Get("/exits", inventoryHandler.ListExits)
	invGroup.Get("/exits/:id", inventoryHandler.GetExit)
	invGroup.Post("/adjustments", adminOnly, inventoryHandler.Adjust)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/report", inventoryHandler.MovementReport)
	invGroup.Get("/replenishment", inventoryHandler.Replenishment)

	// Tablero
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Users (Admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
}
