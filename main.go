package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/puyolnw/sales-import-service/controllers"
	"github.com/puyolnw/sales-import-service/database"
	"github.com/puyolnw/sales-import-service/middleware"
	"github.com/puyolnw/sales-import-service/repository"
	"github.com/puyolnw/sales-import-service/routes"
	"github.com/puyolnw/sales-import-service/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 1. Initialization ---

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379", DB: 0}
	}
	rdb := redis.NewClient(redisOpts)

	if err := database.ConnectWithConfig(cfg.MongoURL, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Optional S3 archive for raw import files
	archiver := newArchiver(cfg)

	// --- 2. Dependency Injection (Wiring the layers together) ---

	productRepo := repository.NewProductRepository(database.DB)
	transactionRepo := repository.NewTransactionRepository(database.DB)
	importRepo := repository.NewImportRepository(database.DB)

	importService := services.NewImportService(productRepo, transactionRepo, importRepo, archiver)

	requestValidator := controllers.NewRequestValidator()
	importController := controllers.NewImportController(importService, rdb, requestValidator, cfg.StorageDir)

	// Background worker for queued imports
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	services.StartImportWorker(workerCtx, rdb, importService, cfg.StorageDir)

	// --- 3. HTTP Server & Middleware ---

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Auth(cfg.JWTSecret))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- 4. Route Registration ---

	routes.RegisterRoutes(r, importController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Sales Import Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Sales Import Service...")

	workerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := database.Close(); err != nil {
		zap.L().Error("Failed to close MongoDB", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}

	zap.L().Info("Sales Import Service stopped gracefully")
}

// newArchiver builds the S3 archiver when a bucket is configured, supporting
// LocalStack via AWS_ENDPOINT like the rest of the platform.
func newArchiver(cfg *Config) *services.Archiver {
	if cfg.ArchiveBucket == "" {
		return nil
	}

	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		awsRegion = "us-east-1"
	}
	awsEndpoint := os.Getenv("AWS_ENDPOINT")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecret := os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfgOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(awsRegion),
	}
	if awsAccessKey != "" || awsSecret != "" {
		cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecret, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), cfgOpts...)
	if err != nil {
		zap.L().Warn("Failed to load AWS config, archive disabled", zap.Error(err))
		return nil
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if awsEndpoint != "" {
			o.BaseEndpoint = aws.String(awsEndpoint)
		}
	})

	return services.NewArchiver(s3Client, cfg.ArchiveBucket, cfg.ArchivePrefix)
}
