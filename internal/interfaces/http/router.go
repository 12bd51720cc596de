package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/tienda-api/internal/application/analytics"
	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/authz"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	OrderUC     *order.OrderUseCase
	ReceiptUC   *order.ReceiptUseCase
	CartUC      *cart.CartUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *analytics.DashboardUseCase
	Authorizer  authz.Authorizer
	JWTSecret   string
	Log         *logger.Logger
}

// NewApp crea la aplicación Fiber con el ErrorHandler común, recover, request id y log de peticiones.
func NewApp(name string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Authorizer == nil {
		deps.Authorizer = authz.DefaultPolicy()
	}
	api := app.Group("/api")
	authRequired := AuthMiddleware(deps.JWTSecret)
	can := func(p authz.Permission) fiber.Handler {
		return RequirePermission(deps.Authorizer, p)
	}

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/profile", authRequired, authHandler.Profile)
	authGroup.Put("/profile", authRequired, authHandler.UpdateProfile)

	// Products: lectura pública, escritura con products:write.
	// featured y search van antes de /:id.
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/featured", productHandler.Featured)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authRequired, can(authz.ProductsWrite), productHandler.Create)
	products.Put("/:id", authRequired, can(authz.ProductsWrite), productHandler.Update)
	products.Delete("/:id", authRequired, can(authz.ProductsWrite), productHandler.Delete)

	// Orders (protegido)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.ReceiptUC)
	orders := api.Group("/orders", authRequired)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", can(authz.OrdersReadAll), orderHandler.ListAll)
	orders.Get("/my-orders", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.GetByID)
	if deps.ReceiptUC != nil {
		orders.Get("/:id/receipt", orderHandler.Receipt)
	}
	orders.Put("/:id/pay", orderHandler.Pay)
	orders.Put("/:id/status", can(authz.OrdersUpdateStatus), orderHandler.UpdateStatus)

	// Cart (protegido, carrito cargado por middleware)
	cartHandler := NewCartHandler(deps.CartUC)
	carts := api.Group("/cart", authRequired, CartMiddleware(deps.CartUC))
	carts.Get("/", cartHandler.Get)
	carts.Delete("/", cartHandler.Clear)
	carts.Post("/items", cartHandler.AddItem)
	carts.Put("/items/:productId", cartHandler.UpdateItem)
	carts.Delete("/items/:productId", cartHandler.RemoveItem)
	carts.Post("/checkout", cartHandler.Checkout)

	// Users (administración)
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", authRequired, can(authz.UsersManage))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Delete("/:id", userHandler.Delete)

	// Dashboard de ventas (administración)
	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC)
		dashboard := api.Group("/dashboard", authRequired, can(authz.OrdersReadAll))
		dashboard.Get("/summary", dashboardHandler.GetSummary)
	}
}
