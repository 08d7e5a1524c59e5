package routes

import (
	"socialcal/api/handlers"
	"socialcal/api/middleware"
	"socialcal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine, dispatcher *handlers.Dispatcher, authz *services.Authorizer) *gin.RouterGroup {
	router.GET("/healthz", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	publicEndpoints := router.Group("/api/v1/")
	publicEndpoints.Use(middleware.Authenticate(authz))
	{
		publicEndpoints.POST("query", dispatcher.Query)
	}
	return publicEndpoints
}
