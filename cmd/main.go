package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"pocketprc/internal/config"
	"pocketprc/internal/downdetect"
	"pocketprc/internal/features/activity_logs"
	"pocketprc/internal/features/admin"
	"pocketprc/internal/features/attachments"
	"pocketprc/internal/features/branding"
	checklists_controllers "pocketprc/internal/features/checklists/controllers"
	checklists_services "pocketprc/internal/features/checklists/services"
	"pocketprc/internal/features/cleanup"
	"pocketprc/internal/features/leads"
	"pocketprc/internal/features/mail"
	"pocketprc/internal/features/offline_sync"
	system_healthcheck "pocketprc/internal/features/system/healthcheck"
	teams_controllers "pocketprc/internal/features/teams/controllers"
	teams_services "pocketprc/internal/features/teams/services"
	users_controllers "pocketprc/internal/features/users/controllers"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"
	cache_utils "pocketprc/internal/util/cache"
	env_utils "pocketprc/internal/util/env"
	"pocketprc/internal/util/logger"
	_ "pocketprc/swagger" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Pocket PRC Backend API
// @version 1.0
// @description API for Pocket PRC, the pre-listing checklist app for real estate teams
// @termsOfService http://swagger.io/terms/

// @host localhost:4005
// @BasePath /api
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.GetLogger()
	config.StartListeningForShutdownSignal()

	testCacheConnection(log)

	runMigrations(log)

	setUpDependencies()

	err := users_services.GetUserService().CreateInitialAdmin()
	if err != nil {
		log.Error("Failed to create initial admin", "error", err)
		os.Exit(1)
	}

	handlePasswordReset(log)

	go generateSwaggerDocs(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	ginApp.Use(gzip.Gzip(
		gzip.DefaultCompression,
		// attachments are served as stored
		gzip.WithExcludedPathsRegexs([]string{`^/api/attachments/`}),
		gzip.WithExcludedExtensions(
			[]string{".png", ".gif", ".jpeg", ".jpg", ".ico", ".svg", ".pdf", ".webp"},
		),
	))

	enableCors(ginApp)
	setUpRoutes(ginApp)
	runBackgroundTasks(log)

	startServerWithGracefulShutdown(log, ginApp)
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	host := ""
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:              host + ":" + config.GetEnv().ServerPort,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	mail.GetMailWorkerService().StopWorkers()
	cleanup.GetCleanupBackgroundService().StopWorkers()

	log.Info("Server gracefully stopped")
}

func setUpRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/docs/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	authController := users_controllers.GetAuthController()
	authController.RegisterRoutes(api)
	branding.GetBrandingController().RegisterRoutes(api)
	system_healthcheck.GetHealthcheckController().RegisterRoutes(api)

	authMiddleware := users_middleware.AuthMiddleware(users_services.GetUserService())

	protected := api.Group("")
	protected.Use(authMiddleware)

	authController.RegisterProtectedRoutes(protected)
	users_controllers.GetManagementController().RegisterRoutes(protected)
	teams_controllers.GetTeamController().RegisterRoutes(protected)
	checklists_controllers.GetChecklistController().RegisterRoutes(protected)
	attachments.GetAttachmentController().RegisterRoutes(protected)
	branding.GetBrandingController().RegisterProtectedRoutes(protected)
	offline_sync.GetSyncController().RegisterRoutes(protected)
	leads.GetLeadController().RegisterRoutes(protected)
	activity_logs.GetActivityLogController().RegisterRoutes(protected)
	admin.GetAdminController().RegisterRoutes(protected)
}

func setUpDependencies() {
	activity_logs.SetupDependencies()
	teams_services.SetupDependencies()
	checklists_services.SetupDependencies()
	attachments.SetupDependencies()
	branding.SetupDependencies()
	downdetect.SetupDependencies()
}

func runBackgroundTasks(log *slog.Logger) {
	log.Info("Preparing to run background tasks...")

	mail.GetMailWorkerService().StartWorkers()
	cleanup.GetCleanupBackgroundService().StartWorkers()

	log.Info("Background tasks started successfully")
}

// Keep in mind: docs appear after second launch, because Swagger
// is generated into Go files. So if we changed files, we generate
// new docs, but still need to restart the server to see them.
func generateSwaggerDocs(log *slog.Logger) {
	if config.GetEnv().EnvMode == env_utils.EnvModeProduction {
		return
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Error("Failed to get current directory", "error", err)
		return
	}

	cmd := exec.Command("swag", "init", "-d", currentDir, "-g", "cmd/main.go", "-o", "swagger")

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to generate Swagger docs", "error", err, "output", string(output))
		return
	}

	log.Info("Swagger documentation generated successfully")
}

func testCacheConnection(log *slog.Logger) {
	log.Info("Testing Valkey connection...")

	if err := cache_utils.CheckCacheConnection(); err != nil {
		log.Error("Failed to connect to Valkey", "error", err)
		os.Exit(1)
	}

	log.Info("Valkey connection test successful")
}

func runMigrations(log *slog.Logger) {
	log.Info("Running database migrations...")

	cmd := exec.Command("goose", "-dir", "migrations", "up")
	cmd.Env = append(
		os.Environ(),
		"GOOSE_DRIVER=postgres",
		"GOOSE_DBSTRING="+config.GetEnv().DatabaseDsn,
	)

	cmd.Dir = config.GetEnv().BackendRootPath

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to run migrations", "error", err, "output", string(output))
		os.Exit(1)
	}

	log.Info("Database migrations completed successfully", "output", string(output))
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Authorization",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
				"Access-Control-Request-Method",
				"Access-Control-Request-Headers",
			},
			ExposeHeaders:    []string{"Content-Disposition", "Retry-After"},
			AllowCredentials: true,
		}))
		return
	}

	ginApp.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetEnv().AppURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func handlePasswordReset(log *slog.Logger) {
	newPassword := flag.String("new-password", "", "Set a new password for the user")
	email := flag.String("email", "", "Email of the user to reset password")

	flag.Parse()

	if *newPassword == "" {
		return
	}

	log.Info("Found reset password command - reseting password...")

	if *email == "" {
		log.Info("No email provided, please provide an email via --email=\"some@email.com\" flag")
		os.Exit(1)
	}

	resetPassword(*email, *newPassword, log)
}

func resetPassword(email string, newPassword string, log *slog.Logger) {
	log.Info("Resetting password...")

	userService := users_services.GetUserService()
	err := userService.ChangeUserPasswordByEmail(email, newPassword)
	if err != nil {
		log.Error("Failed to reset password", "error", err)
		os.Exit(1)
	}

	log.Info("Password reset successfully")
	os.Exit(0)
}
