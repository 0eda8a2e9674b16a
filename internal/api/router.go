package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter constructs a Gin engine with all routes registered.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), noCache())

	router.GET("/healthcheck", handler.Health)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/analyze", handler.AnalyzeArticle)
		apiGroup.GET("/articles", handler.ListArticles)
		apiGroup.GET("/articles/:id", handler.GetArticle)
		apiGroup.POST("/feynman-feedback", handler.FeynmanFeedback)
	}

	return router
}

// noCache keeps clients from serving stale analyses out of browser caches.
func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
