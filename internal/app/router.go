package app

import (
	"artlearn_backend/docs"
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/middleware"
	"artlearn_backend/internal/model"
	"artlearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, repos)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 浏览类：可选认证，游客也能看
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.ListCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
		public.GET("/artworks", middleware.TryAuthMiddleware(a.Config), c.artwork.ListArtworks)
		public.GET("/artworks/:id", middleware.TryAuthMiddleware(a.Config), c.artwork.GetArtwork)
		public.GET("/articles", middleware.TryAuthMiddleware(a.Config), c.article.ListArticles)
		public.GET("/articles/:id", middleware.TryAuthMiddleware(a.Config), c.article.GetArticle)
		public.GET("/users/:id", c.user.GetUser)
		public.GET("/engagement/:targetType/:targetId/comments", c.engagement.ListComments)
		public.GET("/gamification/leaderboard", c.gamification.GetLeaderboard)

		// 证书核验对外开放，雇主凭编号即可查验
		public.GET("/certificates/verify/:serial", c.certificate.VerifyCertificate)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	// 学习进度
	rg.GET("/courses/:id/progress", c.progress.GetProgress)
	rg.POST("/courses/:id/modules/:moduleId/lessons/:lessonId/complete", c.progress.CompleteLesson)
	rg.POST("/courses/:id/modules/:moduleId/lessons/:lessonId/time", c.progress.RecordLessonTime)

	// 证书
	rg.POST("/courses/:id/certificate", c.certificate.IssueCertificate)
	rg.GET("/certificates", c.certificate.ListCertificates)

	// 创作发布
	rg.POST("/artworks", c.artwork.CreateArtwork)
	rg.POST("/artworks/upload", c.artwork.UploadMedia)
	rg.POST("/articles", c.article.CreateArticle)

	// 互动
	rg.POST("/engagement/:targetType/:targetId/like", c.engagement.Like)
	rg.DELETE("/engagement/:targetType/:targetId/like", c.engagement.Unlike)
	rg.POST("/engagement/:targetType/:targetId/comments", c.engagement.CreateComment)

	// 激励
	rg.GET("/gamification/stats", c.gamification.GetMyStats)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/courses", c.course.CreateCourse)
		admin.POST("/courses/:id/modules", c.course.AddModule)
		admin.POST("/modules/:moduleId/lessons", c.course.AddLesson)
	}
}
