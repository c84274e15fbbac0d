package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"p2p_exchange_back/pkg/middleware"
	"p2p_exchange_back/pkg/service"
)

type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	origins := viper.GetStringSlice("cors.allow_origins")
	if len(origins) == 0 {
		origins = []string{"https://admin.coinbridge.exchange"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.AuthMiddleware())
	{
		wallets := api.Group("/wallets")
		{
			wallets.GET("/", h.GetWallets)
			wallets.POST("/create", h.CreateWallet)
			wallets.GET("/:id", h.GetWallet)
			wallets.POST("/:id/sync", h.SyncWallet)
			wallets.GET("/:id/transactions", h.GetTransactions)
		}
		api.GET("/pools", h.GetPools)
		api.GET("/snapshots", h.GetSnapshots)
	}
	return router
}
