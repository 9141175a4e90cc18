// Package server is the storefront HTTP API: catalog, cart, checkout,
// orders, accounts and the admin back-office.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/shophub/pkg/auth"
	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"github.com/example/shophub/pkg/payment"
	"github.com/example/shophub/pkg/repository"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type ProductStore interface {
	ListProducts(ctx context.Context, category, search string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, userID, status string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type CartStore interface {
	LoadCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

type ProductCache interface {
	GetCachedProducts(ctx context.Context) ([]models.Product, error)
	CacheProducts(ctx context.Context, products []models.Product) error
	InvalidateProducts(ctx context.Context) error
}

type Auditor interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error)
}

type Charger interface {
	Charge(req *payment.ChargeRequest) (*payment.ChargeResult, error)
}

// Deps are the collaborators the server is wired with.
type Deps struct {
	Products ProductStore
	Orders   OrderStore
	Users    UserStore
	Carts    CartStore
	Cache    ProductCache
	Auditor  Auditor
	Payments Charger
	Auth     *auth.Manager
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	deps   Deps
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
		deps:   deps,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.register)
			authGroup.POST("/login", s.login)
		}

		// Public catalog
		v1.GET("/products", s.listProducts)
		v1.GET("/products/:id", s.getProduct)
		v1.GET("/categories", s.listCategories)

		// Signed-in customers
		authorized := v1.Group("")
		authorized.Use(s.authRequired())
		{
			authorized.GET("/profile", s.getProfile)
			authorized.PUT("/profile", s.updateProfile)

			authorized.GET("/cart", s.getCart)
			authorized.DELETE("/cart", s.clearCart)
			authorized.POST("/cart/items", s.addCartItem)
			authorized.PUT("/cart/items/:productId", s.updateCartItem)
			authorized.DELETE("/cart/items/:productId", s.removeCartItem)

			authorized.POST("/checkout", s.checkout)

			authorized.GET("/orders", s.listOrders)
			authorized.GET("/orders/:id", s.getOrder)
		}

		// Admin back-office
		admin := v1.Group("/admin")
		admin.Use(s.authRequired(), s.adminOnly())
		{
			admin.POST("/products", s.createProduct)
			admin.PUT("/products/:id", s.updateProduct)
			admin.DELETE("/products/:id", s.deleteProduct)

			admin.GET("/orders", s.adminListOrders)
			admin.PUT("/orders/:id/status", s.updateOrderStatus)

			admin.GET("/dashboard", s.dashboard)
			admin.GET("/analytics", s.analytics)

			admin.GET("/audit/:entityId", s.auditLogs)
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Storefront API starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// audit writes an audit entry for a mutation in the background.
// Failures are logged, not surfaced to the request.
func (s *Server) audit(action, entityID, actorID string, data map[string]interface{}) {
	if s.deps.Auditor == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.deps.Auditor.CreateAuditLog(ctx, &repository.AuditLog{
			Action:   action,
			EntityID: entityID,
			ActorID:  actorID,
			Data:     data,
		})
		if err != nil {
			s.logger.Warn("Failed to write audit log",
				zap.String("action", action),
				zap.String("entity_id", entityID),
				zap.Error(err))
		}
	}()
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
