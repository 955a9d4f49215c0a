package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/controller"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/pkg/database"
	"exam_portal_backend/pkg/logger"
	"exam_portal_backend/pkg/monitoring"
	"exam_portal_backend/pkg/security"
	"exam_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	repos *repositories

	// 配置热更新后整体替换，读方用 Load 取最新值
	liveConfig atomic.Pointer[config.Config]
}

type repositories struct {
	user    *repository.UserRepository
	session *repository.SessionRepository
	exam    *repository.ExamRepository
	attempt *repository.AttemptRepository
	bank    *repository.BankRepository
}

type services struct {
	auth    *service.AuthService
	exam    *service.ExamService
	attempt *service.AttemptService
	bank    *service.BankService
	storage *service.StorageService
}

type controllers struct {
	auth    *controller.AuthController
	exam    *controller.ExamController
	attempt *controller.AttemptController
	bank    *controller.BankController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		session: repository.NewSessionRepository(db),
		exam:    repository.NewExamRepository(db),
		attempt: repository.NewAttemptRepository(db),
		bank:    repository.NewBankRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.session, cfg)
	s.exam = service.NewExamService(repos.exam, repos.attempt)
	s.attempt = service.NewAttemptService(repos.attempt, repos.exam, rdb)
	s.bank = service.NewBankService(repos.bank, repos.exam)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		exam:    controller.NewExamController(s.exam),
		attempt: controller.NewAttemptController(s.attempt, s.storage),
		bank:    controller.NewBankController(s.bank),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 每小时清理一遍已过期会话
func (a *App) startBackgroundTasks(repos *repositories) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := repos.session.DeleteExpired()
			if err != nil {
				logger.Log.Error("session cleanup error", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("expired sessions removed", zap.Int64("count", n))
			}
		}
	}()
}

// OnConfigReload 配置文件热更新回调
func (a *App) OnConfigReload(cfg *config.Config) {
	a.liveConfig.Store(cfg)
	logger.Log.Info("config reloaded")
}

// loginRateLimit 登录限流参数每次请求都读最新配置，热更新即时生效
func (a *App) loginRateLimit() (int, time.Duration) {
	cfg := a.liveConfig.Load()

	limit := cfg.RateLimit.LoginMaxRequests
	if limit <= 0 {
		limit = 10
	}
	window := cfg.RateLimit.LoginWindowMinutes
	if window <= 0 {
		window = 1
	}
	return limit, time.Duration(window) * time.Minute
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
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
	app.liveConfig.Store(cfg)

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	app.repos = repos
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("exam-portal", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	log.Println("Server exiting")
}
