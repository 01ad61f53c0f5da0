package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ferreteria/docs"
	"github.com/jhoicas/inventario-ferreteria/internal/application/analytics"
	"github.com/jhoicas/inventario-ferreteria/internal/application/auth"
	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/application/ports"
	"github.com/jhoicas/inventario-ferreteria/internal/application/recovery"
	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/mail"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-ferreteria/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/inventario-ferreteria/internal/interfaces/http"
	"github.com/jhoicas/inventario-ferreteria/pkg/config"
	"github.com/jhoicas/inventario-ferreteria/pkg/jwt"
	"github.com/jhoicas/inventario-ferreteria/pkg/logger"
)

// txRunner cubre las transacciones del kardex y de la recuperación de contraseña.
type txRunner interface {
	inventory.TxRunner
	recovery.TxRunner
}

// storage repositorios del driver elegido en STORE_DRIVER.
type storage struct {
	tx         txRunner
	users      repository.UserRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	movements  repository.MovementRepository
	entries    repository.EntryRepository
	exits      repository.ExitRepository
	dashboard  repository.DashboardRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.StoreMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			tx:         store,
			users:      store.Users(),
			products:   store.Products(),
			categories: store.Categories(),
			suppliers:  store.Suppliers(),
			movements:  store.Movements(),
			entries:    store.Entries(),
			exits:      store.Exits(),
			dashboard:  store.Dashboard(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.Store.Migrate {
		if err := postgres.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		users:      postgres.NewUserRepository(pool),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		entries:    postgres.NewEntryRepository(pool),
		exits:      postgres.NewExitRepository(pool),
		dashboard:  postgres.NewDashboardRepository(pool),
		close:      pool.Close,
	}, nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) ports.Notifier {
	if cfg.Mail.Driver == config.MailLog {
		return mail.NewLogNotifier(cfg.Recovery.ResetURL, log)
	}
	return mail.NewSMTPNotifier(cfg.Mail, cfg.Recovery, cfg.App.Name, log)
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
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("mail", cfg.Mail.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	notifier := newNotifier(cfg, log.Component("mail"))

	tokens := jwt.Options{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.Expiration) * time.Minute,
	}
	authUC := auth.NewAuthUseCase(store.users, hasher, tokens)
	recoveryUC := recovery.NewUseCase(store.tx, hasher, notifier, recovery.Config{
		CodeTTL:  cfg.Recovery.CodeTTL,
		TokenTTL: cfg.Recovery.TokenTTL,
	}, log.Component("recovery"))

	// PDF: kardex de movimientos
	reportGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name, time.Local)
	ledgerUC := inventory.NewLedgerUseCase(store.tx, store.movements, store.entries, store.exits,
		reportGenerator, log.Zerolog())
	replenishmentUC := inventory.NewReplenishmentUseCase(store.products, store.exits)
	productUC := usecase.NewProductUseCase(store.tx, store.products, store.categories, store.suppliers, log.Zerolog())
	categoryUC := usecase.NewCategoryUseCase(store.categories)
	supplierUC := usecase.NewSupplierUseCase(store.suppliers)
	userUC := usecase.NewUserUseCase(store.users, hasher)
	dashboardUC := analytics.NewDashboardUseCase(store.dashboard, store.movements, store.products)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpRouter.NewMetrics(registry)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ferretería API",
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		RecoveryUC:      recoveryUC,
		ProductUC:       productUC,
		CategoryUC:      categoryUC,
		SupplierUC:      supplierUC,
		UserUC:          userUC,
		LedgerUC:        ledgerUC,
		ReplenishmentUC: replenishmentUC,
		DashboardUC:     dashboardUC,
		JWT:             tokens,
		LoginLimiter:    httpRouter.NewRateLimiter(cfg.Security.LoginRatePerMinute),
		Metrics:         metrics,
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
