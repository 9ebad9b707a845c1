package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecogrid/ordination-backend-go/internal/config"
	"github.com/ecogrid/ordination-backend-go/internal/database"
	"github.com/ecogrid/ordination-backend-go/internal/handler"
	"github.com/ecogrid/ordination-backend-go/internal/middleware"
	"github.com/ecogrid/ordination-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	db := database.GetDB()
	surveyHandler := handler.NewSurveyHandler(service.NewSurveyService(db))
	matrixHandler := handler.NewMatrixHandler(service.NewMatrixService(db))
	spatialHandler := handler.NewSpatialHandler(service.NewSpatialService(db))

	auth := middleware.Auth(cfg.JWTSecret)
	importLimit := middleware.RateLimit(cfg.ImportRateLimit, cfg.ImportRateWindow)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Ordination Prep API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 样方出现记录接口
		occurrences := api.Group("/occurrences")
		{
			occurrences.GET("", surveyHandler.GetOccurrences)
			occurrences.POST("/import", auth, importLimit, surveyHandler.ImportOccurrences)
		}

		// 树种查询表接口
		species := api.Group("/species")
		{
			species.GET("", surveyHandler.GetSpecies)
			species.GET("/:code", surveyHandler.GetSpeciesByCode)
			species.POST("/import", auth, importLimit, surveyHandler.ImportSpecies)
		}

		// 矩阵构建接口
		matrix := api.Group("/matrix")
		{
			matrix.POST("/runs", auth, matrixHandler.Build)
			matrix.GET("/runs", matrixHandler.GetRuns)
			matrix.GET("/runs/:id", matrixHandler.GetRun)
			matrix.GET("/runs/:id/matrix", matrixHandler.GetMatrix)
			matrix.POST("/runs/:id/scores", auth, matrixHandler.UploadScores)
			matrix.GET("/runs/:id/export", matrixHandler.Export)
		}

		// 样方空间分布接口
		samples := api.Group("/samples")
		{
			samples.GET("/spatial-summary", spatialHandler.GetSummary)
		}
	}

	return r
}
