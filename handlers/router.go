package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"image-steganography/models"
)

// NewRouter wires the API routes, CORS and request logging.
func NewRouter(cfg *models.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = cfg.AllowedOrigins
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	config.ExposeHeaders = []string{
		"X-Stego-PSNR", "X-Stego-Capacity", "X-Stego-Scrambled",
		"X-Stego-Method", "X-Stego-Filename", "Content-Disposition",
	}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	stegoHandler := NewStegoHandler(cfg.MaxUploadBytes)

	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)

		stego := api.Group("/stego")
		{
			stego.POST("/insert", stegoHandler.InsertMessage)
			stego.POST("/extract", stegoHandler.ExtractMessage)
			stego.POST("/capacity", stegoHandler.Capacity)
		}
	}

	return router
}
