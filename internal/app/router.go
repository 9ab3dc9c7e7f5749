package app

import (
	"xtreme_region_backend/docs"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/middleware"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/pkg/monitoring"

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
		a.registerCreatorRoutes(authGroup, c)
		a.registerMeetingRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.GET("/activate", c.auth.Activate)
		public.POST("/login", c.auth.Login)
		public.POST("/logout", c.auth.Logout)
		public.POST("/password/forgot", c.auth.ForgotPassword)
		public.POST("/password/reset", c.auth.ResetPassword)
	}

	// 浏览类：游客可看，登录用户能看到未发布内容和订阅状态
	browse := router.Group("/api")
	browse.Use(middleware.TryAuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		browse.GET("/channels", c.channel.List)
		browse.GET("/channels/:id", c.channel.Get)
		browse.GET("/channels/:id/subscribers/count", c.channel.SubscriberCount)
		browse.GET("/channels/:id/courses", c.course.ListByChannel)
		browse.GET("/courses", c.course.List)
		browse.GET("/courses/:id", c.course.Get)
		browse.GET("/courses/:id/rating", c.course.RatingSummary)
		browse.GET("/courses/:id/lessons", c.lesson.ListByCourse)
		browse.GET("/lessons/:id", c.lesson.Get)
		browse.GET("/lessons/:id/slides", c.slide.Get)
		browse.GET("/lessons/:id/comments", c.lesson.Comments)
		browse.GET("/users/:id", c.user.GetProfile)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)

	// 订阅
	rg.GET("/channels/mine", c.channel.ListOwn)
	rg.POST("/channels/:id/subscribe", c.channel.Subscribe)
	rg.DELETE("/channels/:id/subscribe", c.channel.Unsubscribe)

	// 学习互动
	rg.POST("/courses/:id/rate", c.course.Rate)
	rg.POST("/lessons/:id/view", c.lesson.RecordView)
	rg.POST("/lessons/:id/like", c.lesson.ToggleLike)
	rg.POST("/lessons/:id/comments", c.lesson.Comment)

	// 学习进度
	rg.POST("/completions", c.progress.RecordCompletion)
	rg.GET("/completions", c.progress.RecentCompletions)
	rg.GET("/courses/:id/progress", c.progress.CourseProgress)

	// 课程公告（读）
	rg.GET("/courses/:id/notifications", c.notification.ListForCourse)
	rg.GET("/courses/:id/notifications/unread", c.notification.UnreadCount)
	rg.POST("/notifications/:id/view", c.notification.MarkViewed)

	// 上传
	rg.POST("/uploads/presign", c.upload.Presign)
	rg.GET("/uploads", c.upload.ListMine)

	rg.GET("/analytics/learner", c.analytics.LearnerDashboard)
}

func (a *App) registerCreatorRoutes(rg *gin.RouterGroup, c *controllers) {
	creator := rg.Group("/")
	creator.Use(middleware.RoleMiddleware(model.Creator))
	{
		creator.POST("/channels", c.channel.Create)
		creator.PUT("/channels/:id", c.channel.Update)
		creator.DELETE("/channels/:id", c.channel.Delete)

		creator.POST("/courses", c.course.Create)
		creator.PUT("/courses/:id", c.course.Update)
		creator.DELETE("/courses/:id", c.course.Delete)

		creator.POST("/lessons", c.lesson.Create)
		creator.PUT("/lessons/:id", c.lesson.Update)
		creator.DELETE("/lessons/:id", c.lesson.Delete)
		creator.POST("/lessons/:id/video", c.lesson.UploadVideo)
		creator.PUT("/lessons/:id/slides", c.slide.Save)

		creator.POST("/notifications", c.notification.Create)
		creator.PUT("/notifications/:id/pin", c.notification.TogglePin)

		creator.GET("/analytics/creator", c.analytics.CreatorDashboard)
	}
}

func (a *App) registerMeetingRoutes(rg *gin.RouterGroup, c *controllers) {
	meetings := rg.Group("/meetings")
	{
		meetings.POST("", c.meeting.Schedule)
		meetings.GET("", c.meeting.List)
		meetings.GET("/:id", c.meeting.Get)
		meetings.PUT("/:id", c.meeting.UpdateSettings)
		meetings.DELETE("/:id", c.meeting.Delete)
		meetings.POST("/:id/files", c.meeting.AttachFiles)
		meetings.POST("/:id/invite", c.meeting.Invite)
		meetings.POST("/:id/respond", c.meeting.Respond)
		meetings.POST("/:id/join", c.meeting.Join)
		meetings.GET("/:id/ws", c.meeting.ServeWs)

		meetings.GET("/:id/agenda", c.agenda.List)
		meetings.PUT("/:id/agenda", c.agenda.Replace)
		meetings.PUT("/:id/agenda/:itemId/status", c.agenda.UpdateStatus)
		meetings.POST("/:id/agenda/generate", c.agenda.Generate)
	}
}
