package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sevasetu/backend/internal/config"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/handler"
	"github.com/sevasetu/backend/internal/mailer"
	"github.com/sevasetu/backend/internal/middleware"
	"github.com/sevasetu/backend/internal/notify"
	"github.com/sevasetu/backend/internal/observability"
	"github.com/sevasetu/backend/internal/pdf"
	"github.com/sevasetu/backend/internal/repository"
	"github.com/sevasetu/backend/internal/routes"
	"github.com/sevasetu/backend/internal/service"
	"github.com/sevasetu/backend/internal/ws"
	pkgcache "github.com/sevasetu/backend/pkg/cache"
	"github.com/sevasetu/backend/pkg/jwt"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
	pkgredis "github.com/sevasetu/backend/pkg/redis"
	pkgstorage "github.com/sevasetu/backend/pkg/storage"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Seva Setu Backend API
// @version         1.0
// @description     Back-office API for memberships, donations and contact messages
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

const orgName = "Seva Setu Foundation"
const orgLine = "Serving communities since 2009"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")

	if err := db.AutoMigrate(
		&domain.Member{},
		&domain.Donation{},
		&domain.Contact{},
		&domain.GalleryImage{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// Redis (optional; stats caching and ws fanout degrade without it)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Redis unavailable: %v (continuing without cache)", err)
		redisClient = nil
	}

	// File storage
	var store pkgstorage.Storage
	if cfg.Storage.S3Enabled {
		s3Store, err := pkgstorage.NewS3Storage(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.S3Endpoint,
			Region:          cfg.Storage.S3Region,
			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretKey,
			Bucket:          cfg.Storage.S3Bucket,
			CDNURL:          cfg.Storage.S3CDNURL,
			BasePath:        cfg.Storage.S3BasePath,
			ForcePathStyle:  cfg.Storage.S3ForcePathStyle,
		})
		if err != nil {
			log.Fatalf("Failed to init S3 storage: %v", err)
		}
		store = s3Store
		pkglogger.Info("Using S3 storage bucket=%s", cfg.Storage.S3Bucket)
	} else {
		store = pkgstorage.NewLocalStorage(cfg.Storage.UploadPath)
		pkglogger.Info("Using local storage at %s", cfg.Storage.UploadPath)
	}

	// Mail delivery
	engine := mailer.NewEngineFromConfig(cfg.Mail, mailer.Options{})
	if engine.ProviderCount() == 0 {
		pkglogger.Info("Warning: no mail providers configured, outgoing mail will fail")
	}
	queue := mailer.NewQueue(engine, 0)
	dispatcher := notify.NewDispatcher(engine, queue, cfg.Mail.AdminEmail, orgName)

	// PDF artifacts
	renderer := pdf.NewRenderer(orgName, orgLine)
	artifactDir := cfg.Storage.UploadPath

	// Real-time dashboard hub
	hub := ws.NewHub(redisClient)
	go hub.Run()

	// Repositories
	memberRepo := repository.NewMemberRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	contactRepo := repository.NewContactRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)

	// Services
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	authSvc := service.NewAuthService(cfg.Auth, jwtManager, cfg.JWT.ExpiresIn)
	memberSvc := service.NewMemberService(memberRepo, dispatcher, renderer, hub, store, cfg, artifactDir)
	donationSvc := service.NewDonationService(donationRepo, dispatcher, renderer, hub, artifactDir)
	contactSvc := service.NewContactService(contactRepo, dispatcher, hub)
	gallerySvc := service.NewGalleryService(galleryRepo, store)

	var cacheSvc pkgcache.Service
	if redisClient != nil {
		cacheSvc = pkgcache.NewService(redisClient)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	memberHandler := handler.NewMemberHandler(memberSvc)
	donationHandler := handler.NewDonationHandler(donationSvc)
	contactHandler := handler.NewContactHandler(contactSvc)
	galleryHandler := handler.NewGalleryHandler(gallerySvc)
	statsHandler := handler.NewStatsHandler(memberSvc, donationSvc, cacheSvc)
	wsHandler := handler.NewWSHandler(hub, cfg.CORS.AllowOrigins)

	// Router
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(cfg.CORS.AllowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "sevasetu-backend",
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router,
		authHandler,
		memberHandler,
		donationHandler,
		contactHandler,
		galleryHandler,
		statsHandler,
		wsHandler,
		jwtManager,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.Info("Listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}

	logMode := gormlogger.Warn
	if cfg.App.Env == "local" || cfg.App.Env == "development" {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
