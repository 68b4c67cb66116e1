package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vbeltrame/stockflow-api/internal/application/auth"
	"github.com/vbeltrame/stockflow-api/internal/application/notification"
	"github.com/vbeltrame/stockflow-api/internal/application/stock"
	"github.com/vbeltrame/stockflow-api/internal/application/usecase"
	infraexcel "github.com/vbeltrame/stockflow-api/internal/infrastructure/excel"
	"github.com/vbeltrame/stockflow-api/internal/infrastructure/mail"
	infrapdf "github.com/vbeltrame/stockflow-api/internal/infrastructure/pdf"
	"github.com/vbeltrame/stockflow-api/internal/infrastructure/postgres"
	"github.com/vbeltrame/stockflow-api/internal/infrastructure/redisstore"
	"github.com/vbeltrame/stockflow-api/internal/infrastructure/whatsapp"
	httpRouter "github.com/vbeltrame/stockflow-api/internal/interfaces/http"
	"github.com/vbeltrame/stockflow-api/pkg/config"
	"github.com/vbeltrame/stockflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migrações do banco")
	}

	rdb, err := redisstore.NewClient(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com Redis")
	}
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	solicitacaoRepo := postgres.NewSolicitacaoRepository(pool)
	movimentacaoRepo := postgres.NewMovimentacaoRepository(pool)
	logRepo := postgres.NewLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessionStore := redisstore.NewSessionStore(rdb)
	mailer := mail.NewMailer(cfg.SMTP)
	waClient := whatsapp.NewClient(cfg.WhatsApp)
	notifier := notification.New(userRepo, waClient, mailer, log)

	authUC := auth.NewUseCase(userRepo, logRepo, sessionStore, mailer, txRunner, auth.Config{
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTExpMinutes: cfg.JWT.Expiration,
		TOTPIssuer:    cfg.TOTP.Issuer,
	})
	stockUC := stock.NewUseCase(txRunner, solicitacaoRepo, productRepo, notifier)
	userUC := usecase.NewUserUseCase(userRepo, logRepo)
	productUC := usecase.NewProductUseCase(productRepo, logRepo)
	movementUC := usecase.NewMovementUseCase(movimentacaoRepo)
	logUC := usecase.NewLogUseCase(logRepo)
	reportUC := usecase.NewReportUseCase(
		productRepo,
		infrapdf.NewMarotoReportGenerator(),
		infraexcel.NewExcelizeReportGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		ProductUC:  productUC,
		StockUC:    stockUC,
		MovementUC: movementUC,
		LogUC:      logUC,
		ReportUC:   reportUC,
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

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
