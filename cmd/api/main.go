package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/analytics"
	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/authz"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	infraamqp "github.com/jhoicas/tienda-api/internal/infrastructure/amqp"
	"github.com/jhoicas/tienda-api/internal/infrastructure/cache"
	infrakafka "github.com/jhoicas/tienda-api/internal/infrastructure/kafka"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	inframongo "github.com/jhoicas/tienda-api/internal/infrastructure/mongo"
	"github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// stores repositorios según STORE_DRIVER.
type stores struct {
	products repository.ProductRepository
	users    repository.UserRepository
	orders   repository.OrderRepository
	sales    repository.AnalyticsRepository
	tx       order.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.DB.Driver).
		Str("cart_store", cfg.Cart.Store).
		Str("events", cfg.Events.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer st.close()

	catalogCache := cache.New(cfg.Cache.CatalogTTL)
	defer catalogCache.Close()

	cartStore, closeCarts, err := openCartStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de carritos")
	}
	defer closeCarts()

	publisher, err := openPublisher(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("publicador de eventos")
	}
	defer publisher.Close()

	policy := authz.DefaultPolicy()
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(st.products, catalogCache, cfg.Cache.CatalogTTL)
	userUC := usecase.NewUserUseCase(st.users)
	orderUC := order.NewOrderUseCase(st.tx, st.orders, publisher, policy, log).
		WithCatalogInvalidator(productUC)
	cartUC := cart.NewCartUseCase(cartStore, st.products, orderUC)
	receiptUC := order.NewReceiptUseCase(st.orders, st.users, policy, pdf.NewMarotoPDFGenerator(cfg.App.Name))
	dashboardUC := analytics.NewDashboardUseCase(st.sales)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Tienda API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado, archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		OrderUC:     orderUC,
		ReceiptUC:   receiptUC,
		CartUC:      cartUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
		Authorizer:  policy,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.DB.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &stores{
			products: memory.NewProductRepository(s),
			users:    memory.NewUserRepository(s),
			orders:   memory.NewOrderRepository(s),
			sales:    memory.NewAnalyticsRepository(s),
			tx:       memory.NewTxRunner(s),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema de base de datos verificado")
	}
	return &stores{
		products: postgres.NewProductRepository(pool),
		users:    postgres.NewUserRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		sales:    postgres.NewAnalyticsRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

func openCartStore(ctx context.Context, cfg *config.Config) (repository.CartStore, func(), error) {
	if cfg.Cart.Store != config.CartStoreMongo {
		c := cache.New(cfg.Cart.TTL)
		return memory.NewCartStore(c, cfg.Cart.TTL), c.Close, nil
	}

	client, err := inframongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }
	store := inframongo.NewCartStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection), cfg.Cart.TTL)
	if err := store.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

func openPublisher(cfg *config.Config) (ports.OrderEventPublisher, error) {
	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		return infrakafka.NewProducer(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic), nil
	case config.EventsDriverAMQP:
		pub, err := infraamqp.NewPublisher(cfg.Events.AMQPURL, cfg.Events.AMQPQueue)
		if err != nil {
			return nil, err
		}
		return pub, nil
	default:
		return ports.NopPublisher{}, nil
	}
}
