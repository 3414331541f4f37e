package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/repository/idempotency"
	"github.com/sowmensarker/ambika/internal/server/handlers"
)

// Options carries the cross-cutting pieces of the API.
type Options struct {
	Auth           handlers.Authenticator
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
}

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, opts Options, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Auth == nil {
		opts.Auth = handlers.HeaderAuthenticator{}
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/users/exists", handler.EmailExists)

	api := v1.Group("")
	api.Use(handlers.RequireIdentity(opts.Auth, logger))
	writes := handlers.Idempotent(opts.Idempotency, opts.IdempotencyTTL, logger)

	api.POST("/products", writes, handler.AddProduct)
	api.GET("/products", handler.ListProducts)
	api.GET("/stock", handler.Stock)

	api.POST("/sales", writes, handler.CreateSale)
	api.GET("/sales", handler.ListSales)
	api.GET("/sales/export", handler.ExportSales)
	api.GET("/sales/:id", handler.GetSale)
	api.POST("/sales/:id/repayments", writes, handler.Repay)

	api.POST("/expenses", writes, handler.AddExpense)
	api.GET("/expenses", handler.ListExpenses)

	api.GET("/activities", handler.ListActivities)
	api.GET("/activities/export", handler.ExportActivities)

	api.GET("/dashboard/summary", handler.Summary)
	api.GET("/dashboard/charts", handler.Charts)
	api.GET("/dashboard/recent-sales", handler.RecentSales)

	api.GET("/users/me", handler.Me)
	api.PUT("/users/me", handler.UpdateMe)

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(handlers.RequestIDKey)),
		}
		if uid := handlers.IdentityFrom(c).UID; uid != "" {
			fields = append(fields, zap.String("uid", uid))
		}
		logger.Info("request completed", fields...)
	}
}
