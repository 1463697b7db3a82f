package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/chrisvdg/trivia-backend/internal/autogen"
	"github.com/chrisvdg/trivia-backend/internal/blob"
	"github.com/chrisvdg/trivia-backend/internal/events"
	"github.com/chrisvdg/trivia-backend/internal/handlers"
	"github.com/chrisvdg/trivia-backend/internal/jwt"
	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/middlewares"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/repositories"
	"github.com/chrisvdg/trivia-backend/internal/services"
	"github.com/chrisvdg/trivia-backend/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds all runtime configuration read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	// Store selects the document store backend: postgres, redis or memory.
	Store string

	PgHost         string
	PgPort         int
	PgUser         string
	PgPassword     string
	PgDB           string
	PgMaxOpenConns int
	PgMaxIdleConns int

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	KafkaBrokers []string
	KafkaTopic   string

	AIAPIURL string
	AIAPIKey string
	AIModel  string

	JWTSecretKey string
	JWTExpSecond int

	ReferralCode string

	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// @title trivia-backend API
// @version 1.0.0
// @description Backend for a trivia question pool with review moderation and random retrieval
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// full application configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.Store = getEnv("STORE_BACKEND", "postgres")

	// PostgreSQL config
	cfg.PgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PgUser = getEnv("POSTGRES_USER", "user")
	cfg.PgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PgDB = getEnv("POSTGRES_DB", "trivia")
	if cfg.PgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if cfg.PgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if cfg.PgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.RedisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")

	// Media store config; media uploads stay disabled without an endpoint
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", "")
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "")
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", "")
	cfg.MinioBucket = getEnv("MINIO_BUCKET", "trivia-media")
	cfg.MinioUseSSL = getEnv("MINIO_USE_SSL", "false") == "true"

	// Kafka config; review events stay disabled without brokers
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "question-reviews")

	// AI generation config; the generate endpoint stays disabled without a URL
	cfg.AIAPIURL = getEnv("AI_API_URL", "")
	cfg.AIAPIKey = getEnv("AI_API_KEY", "")
	cfg.AIModel = getEnv("AI_MODEL", "gpt-4o-mini")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.JWTExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Signup gating
	cfg.ReferralCode = getEnv("REFERRAL_CODE", "ABC123")

	// Bootstrap admin account, created on startup when missing
	cfg.AdminUsername = getEnv("ADMIN_USERNAME", "")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "admin@localhost.local")

	return
}

// run initializes the logger, document store, media store, event stream,
// and HTTP server. It sets up routes, applies middleware, and handles
// graceful shutdown.
func run(ctx context.Context, cfg config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Select the document store backend
	var store storage.DocStore
	switch cfg.Store {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.PgUser, cfg.PgPassword, cfg.PgHost, cfg.PgPort, cfg.PgDB)
		logger.Log.Infof("Connecting to PostgreSQL at %s:%d", cfg.PgHost, cfg.PgPort)

		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return fmt.Errorf("PostgreSQL connection error: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.PgMaxOpenConns)
		db.SetMaxIdleConns(cfg.PgMaxIdleConns)

		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("PostgreSQL schema setup error: %w", err)
		}
		store = pg

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		store = storage.NewRedisStore(rdb)

	case "memory":
		logger.Log.Warn("Using in-memory store, all data is lost on shutdown")
		store = storage.NewMemoryStore()

	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	// Media store is optional
	var media *blob.MediaStore
	if cfg.MinioEndpoint != "" {
		var err error
		media, err = blob.New(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return fmt.Errorf("media store error: %w", err)
		}
		if err := media.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("media bucket error: %w", err)
		}
	}

	// Review event stream is optional
	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
	}

	// Initialize JWT service
	tokens := jwt.New(cfg.JWTSecretKey, time.Duration(cfg.JWTExpSecond)*time.Second)

	// Initialize repositories
	questionRepo := repositories.NewQuestionRepository(store)
	userRepo := repositories.NewUserRepository(store)

	// Initialize services; nil media/publisher disable those side effects
	var mediaDeleter services.MediaDeleter
	if media != nil {
		mediaDeleter = media
	}
	var reviewPublisher services.ReviewPublisher
	if publisher != nil {
		reviewPublisher = publisher
	}
	questionService := services.NewQuestionService(questionRepo, mediaDeleter, reviewPublisher)
	userService := services.NewUserService(userRepo, tokens, cfg.ReferralCode)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := bootstrapAdmin(ctx, userRepo, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
			return fmt.Errorf("admin bootstrap error: %w", err)
		}
	}

	// Setup router
	authMiddleware := middlewares.AuthMiddleware(tokens)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Post("/signup", handlers.NewSignupHandler(userService))
	r.Post("/login", handlers.NewLoginHandler(userService))

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/questions", handlers.NewCreateQuestionHandler(questionService))
		r.Get("/questions", handlers.NewListQuestionsHandler(questionService))
		r.Post("/questions/random", handlers.NewRandomQuestionHandler(questionService))
		r.Get("/questions/{id}", handlers.NewGetQuestionHandler(questionService))
		r.Patch("/questions/{id}", handlers.NewUpdateQuestionHandler(questionService))
		r.Post("/questions/{id}/answer", handlers.NewRecordAnswerHandler(questionService))

		r.Get("/me", handlers.NewMeHandler(userService))
		r.Put("/me/password", handlers.NewUpdatePasswordHandler(userService))

		if media != nil {
			r.Post("/media", handlers.NewUploadMediaHandler(media))
		}

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAdmin)

			r.Post("/questions/{id}/review", handlers.NewReviewHandler(questionService))
			r.Delete("/questions/{id}", handlers.NewDeleteQuestionHandler(questionService))

			r.Get("/users", handlers.NewListUsersHandler(userService))
			r.Get("/users/{username}", handlers.NewGetUserHandler(userService))
			r.Post("/users/{username}", handlers.NewUserActionHandler(userService))

			if cfg.AIAPIURL != "" {
				completer := autogen.NewChatClient(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel)
				generator := autogen.NewGenerator(questionService, questionService, completer)
				r.Post("/questions/generate", handlers.NewGenerateHandler(generator))
			}
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// bootstrapAdmin creates the configured admin account if it does not
// exist yet. The account is created approved, so the very first login
// needs no prior approval.
func bootstrapAdmin(ctx context.Context, users *repositories.UserRepository, username, password, email string) error {
	if _, err := users.Get(ctx, username); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsVerified:   true,
		IsApproved:   true,
		SignedUpAt:   now,
		ApprovedAt:   now,
		ApprovedBy:   "bootstrap",
	}); err != nil {
		return err
	}

	logger.Log.Infow("bootstrap admin created", "username", username)
	return nil
}
