package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vbeltrame/stockflow-api/internal/application/auth"
	"github.com/vbeltrame/stockflow-api/internal/application/stock"
	"github.com/vbeltrame/stockflow-api/internal/application/usecase"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	StockUC    *stock.UseCase
	MovementUC *usecase.MovementUseCase
	LogUC      *usecase.LogUseCase
	ReportUC   *usecase.ReportUseCase
	JWTSecret  string
}

// Router registra as rotas da API. A autorização por nível de acesso passa
// sempre por RequireRole; nenhum handler checa role por conta própria.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockUC)
	movementHandler := NewMovementHandler(deps.MovementUC)
	logHandler := NewLogHandler(deps.LogUC)
	reportHandler := NewReportHandler(deps.ReportUC)

	// Auth (público): login em duas etapas e reset de senha.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/totp/setup", authHandler.TOTPSetup)
	authGroup.Post("/totp/setup", authHandler.TOTPConfirm)
	authGroup.Post("/totp/verify", authHandler.TOTPVerify)
	authGroup.Post("/password/forgot", authHandler.ForgotPassword)
	authGroup.Post("/password/verify-token", authHandler.VerifyResetToken)
	authGroup.Post("/password/reset", authHandler.ResetPassword)

	// Rotas protegidas (Bearer Token).
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.NivelComum, entity.NivelAdmin, entity.NivelSuperadmin)
	adminOnly := RequireRole(entity.NivelAdmin, entity.NivelSuperadmin)
	superOnly := RequireRole(entity.NivelSuperadmin)

	// Conta do próprio usuário.
	protected.Post("/auth/logout", anyRole, authHandler.Logout)
	protected.Get("/auth/profile", anyRole, authHandler.Profile)
	protected.Put("/auth/profile", anyRole, authHandler.UpdateProfile)
	protected.Delete("/auth/account", anyRole, authHandler.DeleteAccount)

	// Produtos: leitura para todos, escrita só para admin/superadmin.
	products := protected.Group("/products")
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", superOnly, productHandler.Delete)

	// Solicitações: qualquer usuário abre e consulta; decisão é de admin.
	requests := protected.Group("/requests")
	requests.Post("/", anyRole, stockHandler.CreateRequest)
	requests.Get("/", anyRole, stockHandler.ListRequests)
	requests.Get("/:id", anyRole, stockHandler.GetRequest)
	requests.Post("/:id/approve", adminOnly, stockHandler.Approve)
	requests.Post("/:id/reject", adminOnly, stockHandler.Reject)

	// Entradas e retiradas diretas: admin/superadmin.
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/entry", adminOnly, stockHandler.Entry)
	stockGroup.Post("/withdraw", adminOnly, stockHandler.Withdraw)

	// Movimentações: admin/superadmin.
	movements := protected.Group("/movements")
	movements.Get("/", adminOnly, movementHandler.List)
	movements.Get("/:id", adminOnly, movementHandler.GetByID)

	// Relatórios: admin/superadmin.
	reports := protected.Group("/reports")
	reports.Get("/stock/pdf", adminOnly, reportHandler.StockPDF)
	reports.Get("/stock/excel", adminOnly, reportHandler.StockExcel)

	// Usuários: listagem para admin/superadmin; cadastro e reset de TOTP
	// somente superadmin.
	users := protected.Group("/users")
	users.Post("/", superOnly, userHandler.Create)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/:id", adminOnly, userHandler.GetByID)
	users.Post("/:id/reset-totp", superOnly, userHandler.ResetTOTP)

	logs := protected.Group("/logs")
	logs.Get("/", superOnly, logHandler.List)
}
