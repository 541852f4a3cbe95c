package main

import (
	"context"

	appcontext "github.com/SeakMengs/CadetTrack/internal/app_context"
	"github.com/SeakMengs/CadetTrack/internal/auth"
	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/SeakMengs/CadetTrack/internal/controller"
	"github.com/SeakMengs/CadetTrack/internal/database"
	"github.com/SeakMengs/CadetTrack/internal/env"
	"github.com/SeakMengs/CadetTrack/internal/mailer"
	filestorage "github.com/SeakMengs/CadetTrack/internal/file_storage"
	"github.com/SeakMengs/CadetTrack/internal/middleware"
	ratelimiter "github.com/SeakMengs/CadetTrack/internal/rate_limiter"
	"github.com/SeakMengs/CadetTrack/internal/repository"
	"github.com/SeakMengs/CadetTrack/internal/route"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV, env.GetString("LOG_LEVEL", ""))
	defer logger.Sync()
	logger.Debugf("Configuration: port=%s env=%s rateLimit=%+v \n", cfg.Port, cfg.ENV, cfg.RateLimiter)

	if cfg.Auth.JWT_SECRET == "" {
		logger.Panic("AUTH_JWT_SECRET is not set")
	}

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}

	blobs, err := filestorage.NewMinioBlobStore(context.Background(), s3, cfg.Minio.BUCKET, logger)
	if err != nil {
		logger.Panic(err)
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidations(v); err != nil {
			logger.Panic(err)
		}
	}

	var rateLimiter ratelimiter.Limiter
	if cfg.RateLimiter.Enabled {
		rateLimiter = ratelimiter.NewRateLimiter(cfg.RateLimiter, cfg.Redis, logger)
	}

	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID_API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger)
	store := repository.NewStore(repo)
	credentials := auth.NewPasswordVerifier(store)
	svc := service.NewService(store, blobs, credentials, logger)

	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Service:    svc,
		JWTService: jwtService,
		Mailer:     mail,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.AccessLogger(gin.DefaultWriter), gin.Recovery())

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)

	r.GET("/", func(ctx *gin.Context) {
		util.ResponseSuccess(ctx, gin.H{
			"message": "Welcome to the " + util.GetAppName() + " api",
		})
	})

	route.Register(r.Group("/api"), _controller, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
