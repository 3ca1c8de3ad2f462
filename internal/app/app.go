package app

import (
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/controller"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/service"
	"artlearn_backend/pkg/database"
	"artlearn_backend/pkg/logger"
	"artlearn_backend/pkg/monitoring"
	"artlearn_backend/pkg/security"
	"artlearn_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	ledger      *repository.LedgerRepository
	course      *repository.CourseRepository
	progress    *repository.ProgressRepository
	certificate *repository.CertificateRepository
	artwork     *repository.ArtworkRepository
	article     *repository.ArticleRepository
	comment     *repository.CommentRepository
	like        *repository.LikeRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	user        *service.UserService
	ledger      *service.LedgerService
	course      *service.CourseService
	progress    *service.ProgressService
	certificate *service.CertificateService
	artwork     *service.ArtworkService
	article     *service.ArticleService
	engagement  *service.EngagementService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	progress     *controller.ProgressController
	certificate  *controller.CertificateController
	artwork      *controller.ArtworkController
	article      *controller.ArticleController
	engagement   *controller.EngagementController
	gamification *controller.GamificationController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		course:      repository.NewCourseRepository(db),
		progress:    repository.NewProgressRepository(db),
		certificate: repository.NewCertificateRepository(db),
		artwork:     repository.NewArtworkRepository(db),
		article:     repository.NewArticleRepository(db),
		comment:     repository.NewCommentRepository(db),
		like:        repository.NewLikeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.ledger = service.NewLedgerService(repos.ledger, repos.user, rdb, db, cfg)
	s.course = service.NewCourseService(repos.course)
	s.progress = service.NewProgressService(repos.progress, repos.course, s.ledger, db)
	s.certificate = service.NewCertificateService(repos.certificate, repos.progress, db)
	s.artwork = service.NewArtworkService(repos.artwork, s.storage, s.ledger)
	s.article = service.NewArticleService(repos.article, s.ledger)
	s.engagement = service.NewEngagementService(repos.comment, repos.like, repos.artwork, repos.article, s.ledger)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course),
		progress:     controller.NewProgressController(s.progress),
		certificate:  controller.NewCertificateController(s.certificate),
		artwork:      controller.NewArtworkController(s.artwork),
		article:      controller.NewArticleController(s.article),
		engagement:   controller.NewEngagementController(s.engagement),
		gamification: controller.NewGamificationController(s.ledger),
		health:       controller.NewHealthController(db, rdb),
	}
}

// OnConfigReload 配置热更新入口，目前只有奖励数值需要动态生效。
func (a *App) OnConfigReload(cfg *config.Config) {
	a.services.ledger.UpdateConfig(cfg)
	logger.Log.Info("Configuration reloaded")
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
		if cfg.MigrateOnly {
			os.Exit(0)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("artlearn-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
