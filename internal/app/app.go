package app

import (
	"context"
	"edusync_backend/internal/config"
	"edusync_backend/internal/controller"
	"edusync_backend/internal/repository"
	"edusync_backend/internal/service"
	"edusync_backend/pkg/configwatcher"
	"edusync_backend/pkg/database"
	"edusync_backend/pkg/logger"
	"edusync_backend/pkg/monitoring"
	"edusync_backend/pkg/security"
	"edusync_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	// ConfigDir 非空时 Run 会监听配置变更
	ConfigDir string

	config          atomic.Pointer[config.Config]
	callbackMu      sync.Mutex
	configCallbacks []func(*config.Config)

	services       *services
	tracerProvider *sdktrace.TracerProvider
	ctx            context.Context
	cancel         context.CancelFunc
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	assessment  *repository.AssessmentRepository
	result      *repository.ResultRepository
	courseCache *repository.CourseCache
}

type services struct {
	course     *service.CourseService
	assessment *service.AssessmentService
	result     *service.ResultService
}

type controllers struct {
	course     *controller.CourseController
	assessment *controller.AssessmentController
	result     *controller.ResultController
	health     *controller.HealthController
}

// Config 当前生效的配置，热更新后返回新配置
func (a *App) Config() *config.Config {
	return a.config.Load()
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.callbackMu.Lock()
	defer a.callbackMu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 替换当前配置并通知各组件
func (a *App) ApplyConfig(cfg *config.Config) {
	a.config.Store(cfg)

	a.callbackMu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.callbackMu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		assessment:  repository.NewAssessmentRepository(db),
		result:      repository.NewResultRepository(db),
		courseCache: repository.NewCourseCache(rdb, cfg.Results.CourseCacheTTL()),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	store := service.NewGormEntityStore(repos.result, repos.assessment, repos.course, repos.user, repos.courseCache)

	s := &services{
		course:     service.NewCourseService(repos.course),
		assessment: service.NewAssessmentService(repos.assessment, repos.course),
		result:     service.NewResultService(store, store, cfg.Results),
	}

	a.RegisterConfigCallback(func(c *config.Config) {
		s.result.ApplyConfig(c.Results)
		repos.courseCache.SetTTL(c.Results.CourseCacheTTL())
		logger.SetLevel(c.Server.Mode)
	})
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		course:     controller.NewCourseController(s.course),
		assessment: controller.NewAssessmentController(s.assessment),
		result:     controller.NewResultController(s.result),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())

	// 鉴权中间件从上下文读取当前配置
	router.Use(func(c *gin.Context) {
		c.Set("config", a.Config())
		c.Next()
	})
}

// New 基于已建立的连接组装应用，rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}
	app.config.Store(cfg)

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, db, rdb)

	monitoring.Init()

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

// NewApp 初始化日志、数据库、缓存与追踪后组装应用
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存只是加速，连不上时退化为直接查库
		logger.Log.Warn("Redis unavailable, course cache disabled", zap.Error(err))
		rdb = nil
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edusync-results", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracerProvider = tp
	}

	return app, nil
}

func (a *App) Run() {
	cfg := a.Config()
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.WatchConfig(a.ctx, a.ConfigDir, a.ApplyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放连接
func (a *App) Close(ctx context.Context) {
	a.cancel()

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
