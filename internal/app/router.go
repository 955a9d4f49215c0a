package app

import (
	"exam_portal_backend/docs"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/middleware"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)

		// 登录接口单独限流，防爆破
		public.POST("/auth/login",
			middleware.RedisRateLimit(a.Redis, "login", a.loginRateLimit),
			c.auth.Login,
		)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, repos.session))
	{
		authGroup.GET("/exams", c.exam.ListExams)
		authGroup.GET("/exams/:id", c.exam.GetExamDetail)
		authGroup.PUT("/exams/:id/draft", c.attempt.SaveDraft)
		authGroup.GET("/exams/:id/draft", c.attempt.GetDraft)

		authGroup.POST("/attempts", c.attempt.SubmitAttempt)
		authGroup.GET("/attempts", c.attempt.ListMyAttempts)
		authGroup.GET("/attempts/:id", c.attempt.GetAttempt)

		authGroup.POST("/proctoring/snapshots", c.attempt.UploadSnapshot)

		// 管理员相关接口
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/exams", c.exam.CreateExam)
			admin.PUT("/exams/:id", c.exam.UpdateExam)
			admin.DELETE("/exams/:id", c.exam.DeleteExam)
			admin.GET("/exams/:id/attempts", c.exam.ListExamAttempts)

			// 题库与组卷
			admin.POST("/bank/questions", c.bank.AddQuestion)
			admin.GET("/bank/questions", c.bank.ListQuestions)
			admin.PUT("/bank/questions/:id", c.bank.UpdateQuestion)
			admin.DELETE("/bank/questions/:id", c.bank.DeleteQuestion)
			admin.POST("/bank/upload", c.bank.Upload)
			admin.GET("/bank/template", c.bank.DownloadTemplate)
			admin.GET("/bank/analytics", c.bank.Analytics)
			admin.POST("/exams/from-bank", c.bank.GenerateExam)
			admin.PUT("/exams/:id/regenerate", c.bank.RegenerateExam)
		}
	}
}
