package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      LoginService
	UserUC      UserService
	CheckoutUC  OrderService
	ReceiptUC   ReceiptService
	InventoryUC InventoryService
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(entity.RoleStaff, entity.RoleManager)
	manager := RequireRole(entity.RoleManager)

	orderHandler := NewOrderHandler(deps.CheckoutUC, deps.ReceiptUC, deps.InventoryUC)
	protected.Post("/checkout", orderHandler.Checkout)
	protected.Get("/me/orders", orderHandler.ListMine)

	orders := protected.Group("/orders")
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/payment", orderHandler.Payment)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Get("/:id/inventory", staff, orderHandler.Inventory)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Patch("/:id/status", staff, orderHandler.UpdateStatus)

	// Users: /count antes de /:id
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", manager, userHandler.List)
	users.Get("/count", manager, userHandler.Count)
	users.Get("/:id", RequireSelfOrRole("id", entity.RoleManager), userHandler.GetByID)
	users.Put("/:id", RequireSelfOrRole("id", entity.RoleManager), userHandler.Update)
	users.Patch("/:id/status", manager, userHandler.UpdateStatus)
	users.Get("/:id/orders", RequireSelfOrRole("id", entity.RoleStaff, entity.RoleManager), orderHandler.ListByUser)
}
