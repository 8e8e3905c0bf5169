// Package main 是应用程序的入口点。
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatshell-go/internal/config"
	"chatshell-go/internal/handler"
	"chatshell-go/internal/middleware"
	"chatshell-go/internal/repository"
	"chatshell-go/internal/service"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/countries"
	"chatshell-go/pkg/database"
	"chatshell-go/pkg/kafka"
	"chatshell-go/pkg/llm"
	"chatshell-go/pkg/log"
	"chatshell-go/pkg/otp"
	"chatshell-go/pkg/storage"
	"chatshell-go/pkg/telemetry"
	"chatshell-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. 加载 .env（可选）与配置
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "加载 .env 失败: %v\n", err)
	}
	cfg, err := config.Load("./configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化链路与指标导出
	shutdownTelemetry, err := telemetry.Init(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Fatal("telemetry 初始化失败", err)
	}

	// 4. 初始化快照存储
	snapshots, err := newSnapshotRepository(cfg)
	if err != nil {
		log.Fatal("快照存储初始化失败", err)
	}

	var opts []store.Option
	var publisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka)
		opts = append(opts, store.WithPublisher(publisher))
		log.Infof("Kafka 事件发布已启用, topic=%s", cfg.Kafka.Topic)
	}

	// 5. 初始化两个持久化 store 并从快照恢复
	conversations := store.NewConversationStore(snapshots, opts...)
	sessions := store.NewSessionStore(snapshots, conversations, opts...)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := conversations.Load(startupCtx); err != nil {
		log.Fatal("恢复聊天数据失败", err)
	}
	if err := sessions.Load(startupCtx); err != nil {
		log.Fatal("恢复会话失败", err)
	}
	if err := sessions.InitializeAuth(startupCtx); err != nil {
		log.Error("InitializeAuth 失败", err)
	}
	cancelStartup()

	// 6. 初始化 Service (依赖注入)
	otpService := otp.NewService(cfg.OTP)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ChallengeTTL())
	llmClient := llm.NewClient(cfg.AI, nil)
	countryClient := countries.NewClient(cfg.Countries)

	authService := service.NewAuthService(otpService, jwtManager, sessions)
	chatService := service.NewChatService(conversations, llmClient)
	countryService := service.NewCountryService(countryClient, cfg.Countries.CacheTTL)

	otpLimiter := middleware.NewLimiterStore(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, 5*time.Minute)
	defer otpLimiter.Stop()

	// 7. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(handler.RouterDeps{
		AuthService:    authService,
		ChatService:    chatService,
		CountryService: countryService,
		Sessions:       sessions,
		Conversations:  conversations,
		OTPLimiter:     otpLimiter,
		Chat:           cfg.Chat,
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Errorf("关闭 Kafka 发布者失败: %v", err)
		}
	}
	if err := shutdownTelemetry(ctx); err != nil {
		log.Errorf("关闭 telemetry 失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// newSnapshotRepository 按 storage.backend 选择快照的落地位置。
func newSnapshotRepository(cfg *config.Config) (repository.SnapshotRepository, error) {
	prefix := cfg.Storage.KeyPrefix
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warnf("使用内存快照存储，重启后数据会丢失")
		return repository.NewMemorySnapshotRepository(), nil
	case config.BackendRedis:
		database.InitRedis(cfg.Database.Redis)
		return repository.NewRedisSnapshotRepository(database.RDB, prefix), nil
	case config.BackendMySQL:
		database.InitMySQL(cfg.Database.MySQL.DSN)
		return repository.NewGormSnapshotRepository(database.DB, prefix)
	case config.BackendSQLite:
		database.InitSQLite(cfg.Database.SQLite.Path)
		return repository.NewGormSnapshotRepository(database.DB, prefix)
	case config.BackendMinIO:
		storage.InitMinIO(cfg.MinIO)
		return repository.NewMinIOSnapshotRepository(storage.MinioClient, cfg.MinIO.BucketName, prefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
