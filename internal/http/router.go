// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"relo/internal/http/handlers"
	"relo/internal/modules/pricing"
)

func registerRoutes(r *gin.Engine, pricingService *pricing.Service) {
	pricingHandler := handlers.NewPricingHandler(pricingService)
	g := r.Group("/pricing")
	g.POST("/estimate", pricingHandler.Estimate)
	g.GET("/vehicle-classes", pricingHandler.VehicleClasses)
	g.GET("/distance-bands", pricingHandler.DistanceBands)
	g.GET("/extras", pricingHandler.Extras)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
