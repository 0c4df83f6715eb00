package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(flexHandler *FlexHandler, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"X-Flex-Caption", "X-Request-Id", "Retry-After"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/flex/:wallet", flexHandler.GetFlexCardHandler)
		v1.GET("/snapshot/:wallet", flexHandler.GetSnapshotHandler)
		v1.GET("/price", flexHandler.GetPriceHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
