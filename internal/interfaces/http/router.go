package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hidrive/inventario-api/internal/application/auth"
	"github.com/hidrive/inventario-api/internal/application/inventory"
	"github.com/hidrive/inventario-api/internal/application/ports"
	"github.com/hidrive/inventario-api/internal/application/usecase"
	"github.com/hidrive/inventario-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *usecase.ItemUseCase
	OrderUC    *usecase.OrderUseCase
	SupplierUC *usecase.SupplierUseCase
	Adjuster   *inventory.StockAdjusterUseCase
	AuthUC     *auth.AuthUseCase
	Vision     ports.VisionService // nil = rutas de IA deshabilitadas
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Post("/:id", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Get("/:id/history", itemHandler.History)
	// Borrar artículos es destructivo: solo admin.
	items.Delete("/:id", RequireRole(entity.RoleAdmin), itemHandler.Delete)

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Adjuster)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/complete", orderHandler.Complete)
	orders.Delete("/:id", orderHandler.Cancel)

	// Ventas directas (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Adjuster)
	sales.Post("/", saleHandler.Process)

	// Suppliers (protegido; mutaciones solo admin)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", RequireRole(entity.RoleAdmin), supplierHandler.Create)
	suppliers.Put("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Delete)

	// IA (protegido, opcional)
	if deps.Vision != nil {
		ai := protected.Group("/ai")
		aiHandler := NewAIHandler(deps.Vision)
		ai.Post("/analyze-image", aiHandler.AnalyzeImage)
	}
}
