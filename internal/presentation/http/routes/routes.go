package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	domainRepo "github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/metrics"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/handler"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/middleware"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Printer  *handler.PrinterHandler
}

// Pinger reports whether a downstream dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RestaurantRateLimiter
	Metrics         *metrics.Metrics
	OrderService    Pinger
	Log             *logrus.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	router.GET("/health", health(deps))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	v1.Use(middleware.RestaurantMiddleware())
	v1.Use(deps.RateLimiter.Middleware())
	{
		registerCheckoutRoutes(v1, h, deps)
		registerPaymentRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func health(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderService := "ok"
		if deps.OrderService != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.OrderService.Ping(ctx); err != nil {
				orderService = "unreachable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"service":       deps.Cfg.App.Name,
			"order_service": orderService,
		})
	}
}

func registerCheckoutRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	checkout := v1.Group("/checkout/:order_id")
	{
		checkout.GET("", h.Checkout.Open)
		checkout.POST("/quote", h.Checkout.Quote)
		checkout.POST("/tender", h.Checkout.Tender)
		// a repeated submit with the same key replays the first result instead of paying twice
		checkout.POST("/payments", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Checkout.Pay)
	}
}

func registerPaymentRoutes(v1 *gin.RouterGroup, h *Handlers) {
	payments := v1.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.GET("/summary", h.Payment.Summary)
		payments.GET("/:id", h.Payment.Get)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
