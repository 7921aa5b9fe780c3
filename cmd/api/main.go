package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bookstore-api/internal/application/auth"
	"github.com/jhoicas/bookstore-api/internal/application/checkout"
	"github.com/jhoicas/bookstore-api/internal/application/inventory"
	"github.com/jhoicas/bookstore-api/internal/application/ports"
	"github.com/jhoicas/bookstore-api/internal/application/usecase"
	"github.com/jhoicas/bookstore-api/internal/infrastructure/cache"
	"github.com/jhoicas/bookstore-api/internal/infrastructure/events"
	"github.com/jhoicas/bookstore-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/bookstore-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bookstore-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bookstore-api/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/bookstore-api/internal/interfaces/http"
	"github.com/jhoicas/bookstore-api/pkg/config"
	"github.com/jhoicas/bookstore-api/pkg/logger"
)

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
		Str("app", cfg.App.Name).
		Str("events_broker", cfg.Events.Broker).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	inventoryRepo := postgres.NewInventoryTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	publisher := newPublisher(cfg.Events, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	fulfillmentUC := inventory.NewFulfillmentUseCase(orderRepo, inventoryRepo, log)
	checkoutUC := checkout.NewCheckoutUseCase(
		txRunner, userRepo, bookRepo, orderRepo, paymentRepo,
		fulfillmentUC, publisher, log,
	).WithMetrics(orderMetrics)

	// Idempotencia del checkout: solo con Redis configurado.
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		checkoutUC.WithIdempotency(cache.NewIdempotencyStore(rdb, cfg.Idempotency.TTL))
	}

	// PDF: comprobante de compra
	receiptUC := checkout.NewReceiptUseCase(
		orderRepo, paymentRepo, userRepo, bookRepo,
		infrapdf.NewMarotoReceiptGenerator(cfg.App.Name),
	)

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	userUC := usecase.NewUserUseCase(userRepo, hasher, log)
	authUC := auth.NewAuthUseCase(userRepo, hasher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerFile,
		Path:     "docs",
		Title:    "Bookstore API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		CheckoutUC:  checkoutUC,
		ReceiptUC:   receiptUC,
		InventoryUC: fulfillmentUC,
		JWTSecret:   cfg.JWT.Secret,
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

// newPublisher elige el broker según EVENTS_BROKER. Si RabbitMQ no responde al arrancar
// se sigue sin eventos: el checkout no depende del broker.
func newPublisher(cfg config.EventsConfig, log *logger.Logger) ports.EventPublisher {
	switch cfg.Broker {
	case config.BrokerRabbitMQ:
		p, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.Exchange, log)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ no disponible, eventos desactivados")
			return ports.NopPublisher{}
		}
		return p
	case config.BrokerKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	default:
		return ports.NopPublisher{}
	}
}
