package app

import (
	"examdrill_backend/docs"
	"examdrill_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		exams := api.Group("/exams")
		{
			exams.POST("", c.exam.Create)
			exams.GET("", c.exam.List)
			exams.GET("/:examId", c.exam.Get)
			exams.PUT("/:examId", c.exam.Update)
			exams.DELETE("/:examId", c.exam.Delete)
			exams.GET("/:examId/stats", c.exam.GetStats)

			exams.GET("/:examId/questions", c.question.List)
			exams.POST("/:examId/questions/import", c.question.Import)
			exams.GET("/:examId/questions/:number", c.question.Get)
			exams.POST("/:examId/questions/:number/image", c.question.UploadImage)

			exams.GET("/:examId/study/next", c.study.Next)
			exams.POST("/:examId/answers", c.study.SubmitAnswer)

			exams.GET("/:examId/bookmarks", c.study.ListBookmarks)
			exams.PUT("/:examId/bookmarks/:number", c.study.SetBookmark)
			exams.DELETE("/:examId/bookmarks/:number", c.study.RemoveBookmark)

			exams.GET("/:examId/progress/export", c.progress.Export)
			exams.POST("/:examId/progress/import", c.progress.Import)
		}
	}
}
