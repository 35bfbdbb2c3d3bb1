package routes

import (
	"stock-news/controllers"
	"stock-news/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the shared middlewares
func NewRouter(production bool, allowedOrigins []string) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestLogger())
	return router
}

// SetupRoutes sets up the API and streaming routes
func SetupRoutes(router *gin.Engine, newsController *controllers.NewsController,
	streamController *controllers.StreamController, healthController *controllers.HealthController) {
	api := router.Group("/api")
	{
		api.GET("/health", healthController.GetHealth)

		news := api.Group("/news")
		{
			news.GET("", newsController.GetNews)
			news.POST("/refresh", newsController.RefreshNews)
			news.POST("/backfill-body", newsController.BackfillBody)
		}
	}

	ws := router.Group("/ws")
	{
		ws.GET("/news", streamController.StreamNews)
	}
}
