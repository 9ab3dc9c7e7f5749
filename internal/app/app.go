package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/controller"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/pkg/database"
	"xtreme_region_backend/pkg/logger"
	"xtreme_region_backend/pkg/monitoring"
	"xtreme_region_backend/pkg/security"
	"xtreme_region_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	channel      *repository.ChannelRepository
	course       *repository.CourseRepository
	lesson       *repository.LessonRepository
	slide        *repository.SlideRepository
	completion   *repository.CompletionRepository
	meeting      *repository.MeetingRepository
	agenda       *repository.AgendaRepository
	notification *repository.NotificationRepository
	upload       *repository.UploadRepository
}

type services struct {
	storage      *service.StorageService
	mail         *service.MailService
	auth         *service.AuthService
	user         *service.UserService
	channel      *service.ChannelService
	course       *service.CourseService
	lesson       *service.LessonService
	slide        *service.SlideService
	progress     *service.ProgressService
	meeting      *service.MeetingService
	agenda       *service.AgendaService
	ai           *service.AIService
	notification *service.NotificationService
	analytics    *service.AnalyticsService
	meetingHub   *service.MeetingHub
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	channel      *controller.ChannelController
	course       *controller.CourseController
	lesson       *controller.LessonController
	slide        *controller.SlideController
	progress     *controller.ProgressController
	meeting      *controller.MeetingController
	agenda       *controller.AgendaController
	notification *controller.NotificationController
	upload       *controller.UploadController
	analytics    *controller.AnalyticsController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		channel:      repository.NewChannelRepository(db),
		course:       repository.NewCourseRepository(db),
		lesson:       repository.NewLessonRepository(db),
		slide:        repository.NewSlideRepository(db),
		completion:   repository.NewCompletionRepository(db),
		meeting:      repository.NewMeetingRepository(db),
		agenda:       repository.NewAgendaRepository(db),
		notification: repository.NewNotificationRepository(db),
		upload:       repository.NewUploadRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.mail = service.NewMailService(cfg.Mail)
	s.auth = service.NewAuthService(repos.user, s.mail, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.channel = service.NewChannelService(repos.channel)
	s.course = service.NewCourseService(repos.course, repos.channel)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, repos.upload, s.storage)
	s.slide = service.NewSlideService(repos.slide, repos.lesson, db)
	s.progress = service.NewProgressService(repos.completion, repos.lesson)
	s.meeting = service.NewMeetingService(repos.meeting, repos.user, s.mail)
	s.ai = service.NewAIService(cfg.AI)

	s.meetingHub = service.NewMeetingHub(rdb)
	go s.meetingHub.Run()

	s.agenda = service.NewAgendaService(repos.agenda, repos.meeting, s.ai, s.meetingHub)
	s.notification = service.NewNotificationService(repos.notification, repos.course, rdb)
	s.analytics = service.NewAnalyticsService(repos.channel, repos.course, repos.lesson, repos.completion, repos.meeting, rdb)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user, a.Config.Session),
		user:         controller.NewUserController(s.user),
		channel:      controller.NewChannelController(s.channel),
		course:       controller.NewCourseController(s.course),
		lesson:       controller.NewLessonController(s.lesson),
		slide:        controller.NewSlideController(s.slide),
		progress:     controller.NewProgressController(s.progress),
		meeting:      controller.NewMeetingController(s.meeting, s.meetingHub),
		agenda:       controller.NewAgendaController(s.agenda),
		notification: controller.NewNotificationController(s.notification),
		upload:       controller.NewUploadController(s.storage, repos.upload),
		analytics:    controller.NewAnalyticsController(s.analytics),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 每小时给接下来一小时内开始的会议发送提醒
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			from := time.Now()
			to := from.Add(time.Hour)
			if err := s.meeting.SendReminders(from, to); err != nil {
				logger.Log.Error("meeting reminder error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("xtreme-region", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 清理 WebSocket连接和Redis在场状态
	if a.services != nil && a.services.meetingHub != nil {
		a.services.meetingHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
