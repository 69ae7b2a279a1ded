package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"countdown_dev_v1_202601/internal/controller"
	"countdown_dev_v1_202601/internal/middleware"
	"countdown_dev_v1_202601/internal/model"
	"countdown_dev_v1_202601/internal/repository"
	"countdown_dev_v1_202601/internal/router"
	"countdown_dev_v1_202601/internal/service"
	"countdown_dev_v1_202601/internal/task"
	"countdown_dev_v1_202601/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers, router.Options{
		ImpressionCooldown: getDurationEnv("IMPRESSION_COOLDOWN", 0),
	})

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Timer repository.TimerRepository
}

// Services 服务集合
type Services struct {
	Timer  *service.TimerService
	Public *service.PublicTimerService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=countdown password=countdown dbname=countdown_timer port=5432 sslmode=disable")
	return database.InitDB(dsn, &model.Timer{})
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- 会话配置 --------
	middleware.SetSessionConfig(&middleware.SessionConfig{
		SecretKey:  getEnv("SESSION_SECRET", "countdown-session-secret-change-in-production"),
		SessionTTL: 24 * time.Hour,
		Issuer:     "countdown-timer",
	})

	// -------- Repo 层 --------
	repos := &Repositories{
		Timer: repository.NewTimerRepository(db),
	}

	// -------- Service 层 --------
	services := &Services{
		Timer:  service.NewTimerService(repos.Timer),
		Public: service.NewPublicTimerService(repos.Timer, getDurationEnv("PUBLIC_CACHE_TTL", 60*time.Second)),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Timer:  controller.NewTimerController(services.Timer),
		Public: controller.NewPublicTimerController(services.Public),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// fixed 计时器的参考状态刷新
	statusTask := task.NewStatusTask(deps.Repos.Timer)
	statusTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	log.Printf("环境变量 %s 格式非法: %q，使用默认值", key, value)
	return defaultValue
}
