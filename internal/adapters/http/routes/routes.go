package routes

import (
	"time"

	"library-lending/internal/adapters/http/handlers"
	"library-lending/internal/adapters/http/middleware"
	"library-lending/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Services groups the services the HTTP layer depends on
type Services struct {
	AppMode string
	Ping    func() error
	Books   *services.BookService
	Members *services.MemberService
	Lending *services.LendingService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(svc.AppMode, svc.Ping)
	bookHandler := handlers.NewBookHandler(svc.Books, svc.Lending)
	memberHandler := handlers.NewMemberHandler(svc.Members, svc.Lending)
	loanHandler := handlers.NewLoanHandler(svc.Lending)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", middleware.CacheControl(time.Hour), swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1", middleware.NoCacheHeaders())
	apiV1.Get("/", healthHandler.APIInfo)

	setupBookRoutes(apiV1.Group("/books"), bookHandler)
	setupMemberRoutes(apiV1.Group("/members"), memberHandler)
	setupLoanRoutes(apiV1.Group("/loans"), loanHandler)
}

// setupBookRoutes configures catalog routes.
// Static segments are registered before /:id.
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/available", handler.ListAvailable)
	router.Get("/search", handler.Search)
	router.Get("/search/keyword", handler.SearchByKeyword)
	router.Get("/isbn/:isbn", handler.GetByISBN)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Get("/:id/loans", handler.ListLoans)
}

// setupMemberRoutes configures membership routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/search", handler.Search)
	router.Get("/type/:type", handler.ListByType)
	router.Get("/email/:email", handler.GetByEmail)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Get("/:id/loans", handler.ListLoans)
	router.Get("/:id/loans/active", handler.ListActiveLoans)
}

// setupLoanRoutes configures lending routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/issue", middleware.LendingRateLimiter(), handler.Issue)
	router.Put("/:id/return", middleware.LendingRateLimiter(), handler.Return)

	router.Get("/", handler.ListAll)
	router.Get("/overdue", handler.ListOverdue)
	router.Get("/status/:status", handler.ListByStatus)
	router.Get("/member/:memberId", handler.ListByMember)
	router.Get("/member/:memberId/active", handler.ListActiveByMember)
	router.Get("/book/:bookId", handler.ListByBook)
	router.Get("/book/:bookId/active", handler.ListActiveByBook)
	router.Get("/:id", handler.GetByID)
}
