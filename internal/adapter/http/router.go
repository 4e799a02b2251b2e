package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vinagsv/quickbite-api/internal/adapter/http/middleware"
	"github.com/vinagsv/quickbite-api/internal/logging"
)

func NewRouter(oh *OrderHandler, ch *CartHandler, auth *middleware.SessionAuth) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("/api/v1/app", auth.Require())
	{
		cart := app.Group("/cart")
		{
			cart.GET("", ch.GetCart)
			cart.POST("", ch.AddItem)
			cart.DELETE("", ch.ClearCart)
			cart.DELETE("/:itemId", ch.RemoveItem)
			cart.DELETE("/:itemId/line", ch.DropItem)
		}

		order := app.Group("/order")
		{
			order.GET("", oh.ListOrders)
			order.GET("/:orderId", oh.GetOrder)
			order.POST("/checkout-session", oh.CheckoutSession)
			order.GET("/checkout-session/:orderId/result", oh.CheckoutResult)
			order.POST("/checkout-session/:orderId/back", oh.CheckoutBack)
			order.POST("/checkout-session/:orderId/cancel", oh.CancelCheckout)
			order.POST("/verify-payment", oh.VerifyPayment)
		}
	}

	return r
}
