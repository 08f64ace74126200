package router

import (
	"github.com/gin-gonic/gin"

	"taxdesk/internal/handler"
	"taxdesk/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	einvoiceH *handler.EInvoiceHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	einvoices := v1.Group("/einvoices")
	einvoices.POST("", einvoiceH.Create)
	einvoices.GET("", einvoiceH.List)
	einvoices.GET("/search", einvoiceH.Search)
	einvoices.GET("/summary", einvoiceH.Summary)
	einvoices.GET("/export/csv", einvoiceH.ExportCSV)
	einvoices.POST("/convert", einvoiceH.Convert)
	einvoices.POST("/validate", einvoiceH.Validate)
	einvoices.GET("/:id", einvoiceH.GetByID)
	einvoices.PUT("/:id", einvoiceH.Update)
	einvoices.DELETE("/:id", einvoiceH.Delete)
	einvoices.POST("/:id/submit", einvoiceH.Submit)
	einvoices.POST("/:id/cancel", einvoiceH.Cancel)

	return r
}
