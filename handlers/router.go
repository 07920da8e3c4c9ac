package handlers

import (
	"net/http"

	"delivery-eta-api/config"
	"delivery-eta-api/middleware"
	"delivery-eta-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the router is built from. DB and
// Board are optional; their routes are left out when nil.
type Deps struct {
	Estimator *services.EstimatorService
	Board     *services.LoadBoard
	Cache     *services.CacheService
	Auth      *services.AuthService
	DB        *gorm.DB
	CORS      config.CORSConfig
}

func NewRouter(d Deps) *gin.Engine {
	RegisterValidations()

	router := gin.Default()
	router.Use(middleware.SetupCORS(d.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "UP",
			"message":       "Delivery ETA API is running",
			"model_version": d.Estimator.ModelVersion(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	if d.DB != nil {
		auth := NewAuthHandler(d.DB, d.Auth)
		api.POST("/auth/register", auth.Register)
		api.POST("/auth/login", auth.Login)
	}

	protected := api.Group("", middleware.RequireAuth(d.Auth))
	estimates := NewEstimateHandler(d.Estimator, d.Board)
	protected.POST("/estimates", estimates.Create)
	protected.GET("/schema", estimates.GetSchema)

	if d.Board != nil {
		load := NewLoadHandler(d.Board)
		protected.GET("/load/:market_id", load.GetLatest)
	}

	router.GET("/ws/estimates", EstimateFeed(d.Cache, d.Auth))

	return router
}
