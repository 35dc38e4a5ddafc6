package server

import (
	"log/slog"

	_ "github.com/aliciamunhoz/kanban-next/docs"
	"github.com/aliciamunhoz/kanban-next/internal/auth"
	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/handler"
	"github.com/aliciamunhoz/kanban-next/internal/middleware"
	"github.com/aliciamunhoz/kanban-next/internal/repository"
	"github.com/aliciamunhoz/kanban-next/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

const serviceName = "kanban"

// Deps are the collaborators the router is built from.
type Deps struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
	// Sessions is optional; without it logout does not revoke tokens.
	Sessions  *session.RedisStore
	Bus       *events.Bus
	Log       *slog.Logger
	MaxBoards int
}

func NewRouter(d Deps) *gin.Engine {
	handler.RegisterValidators()

	// interfaces only get a value when the store exists
	var (
		sessionStore   handler.SessionStore
		sessionChecker middleware.SessionChecker
		cache          handler.Pinger
	)
	if d.Sessions != nil {
		sessionStore, sessionChecker, cache = d.Sessions, d.Sessions, d.Sessions
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics())

	// Initialize repositories
	userRepo := repository.NewUserRepository(d.DB)
	boardRepo := repository.NewBoardRepository(d.DB)
	accessRepo := repository.NewBoardAccessRepository(d.DB)
	columnRepo := repository.NewColumnRepository(d.DB)
	cardRepo := repository.NewCardRepository(d.DB)
	guard := handler.NewGuard(accessRepo, columnRepo, cardRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, d.Tokens, sessionStore)
	boardHandler := handler.NewBoardHandler(boardRepo, columnRepo, cardRepo, accessRepo, guard, d.Bus, d.MaxBoards)
	accessHandler := handler.NewBoardAccessHandler(userRepo, accessRepo, guard, d.Bus)
	columnHandler := handler.NewColumnHandler(columnRepo, guard, d.Bus)
	cardHandler := handler.NewCardHandler(cardRepo, guard, d.Bus)
	eventsHandler := handler.NewEventsHandler(guard, d.Bus)
	healthHandler := handler.NewHealthHandler(d.DB, cache)

	// Public routes
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(d.Tokens, sessionChecker))
	{
		authorized.POST("/logout", userHandler.Logout)
		authorized.GET("/me", userHandler.Me)

		// Board routes
		authorized.GET("/boards", boardHandler.List)
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/shared-boards", boardHandler.Shared)
		authorized.GET("/boards/:id", boardHandler.Get)
		authorized.PATCH("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.GET("/boards/:id/events", eventsHandler.Stream)

		// Board sharing routes
		authorized.GET("/boards/:id/share", accessHandler.List)
		authorized.POST("/boards/:id/share", accessHandler.Share)
		authorized.DELETE("/boards/:id/share/:user_id", accessHandler.Revoke)

		// Column routes
		authorized.GET("/boards/:id/columns", columnHandler.List)
		authorized.POST("/boards/:id/columns", columnHandler.Create)
		authorized.POST("/columns/reorder", columnHandler.Reorder)
		authorized.PATCH("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)

		// Card routes
		authorized.GET("/columns/:id/cards", cardHandler.List)
		authorized.POST("/columns/:id/cards", cardHandler.Create)
		authorized.POST("/cards/reorder", cardHandler.Reorder)
		authorized.PATCH("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
	}

	return r
}
