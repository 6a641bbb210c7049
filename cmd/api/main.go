package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/notifier"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL si hay base configurada, si no mapas en memoria
	// (desarrollo local sin dependencias).
	var (
		txRunner     ports.TxRunner
		movementRepo repository.MovementRepository
		transferRepo repository.TransferRepository
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		movementRepo = postgres.NewMovementRepository(pool)
		transferRepo = postgres.NewTransferRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos configurada, usando almacén en memoria")
		store := memory.NewStore()
		txRunner = store
		movementRepo = store.Movements()
		transferRepo = store.Transfers()
	}

	// Eventos: Kafka si hay brokers, si no al log.
	var events ports.Notifier
	if cfg.Kafka.Enabled() {
		kafkaNotifier := notifier.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kafkaNotifier.Close()
		events = kafkaNotifier
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).
			Msg("eventos hacia kafka")
	} else {
		events = notifier.NewLogNotifier(log)
	}

	ledgerUC := ledger.NewUseCase(txRunner, movementRepo, events)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, ledgerUC, events)
	documentUC := transfer.NewDocumentUseCase(transferRepo, infrapdf.NewMarotoRemissionGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs. El spec generado no
	// se versiona; sin el archivo la API arranca igual, solo sin /docs.
	const swaggerSpec = "./docs/swagger.json"
	if _, err := os.Stat(swaggerSpec); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerSpec,
			Path:     "docs",
			Title:    "Almacén API",
		}))
	} else {
		log.Warn().Str("file", swaggerSpec).Msg("spec de swagger no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:   ledgerUC,
		TransferUC: transferUC,
		DocumentUC: documentUC,
		JWTSecret:  cfg.JWT.Secret,
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
