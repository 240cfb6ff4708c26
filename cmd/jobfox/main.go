package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/ManuelReschke/JobFox/app/controllers"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/cache"
	"github.com/ManuelReschke/JobFox/internal/pkg/constants"
	"github.com/ManuelReschke/JobFox/internal/pkg/database"
	"github.com/ManuelReschke/JobFox/internal/pkg/env"
	"github.com/ManuelReschke/JobFox/internal/pkg/events"
	"github.com/ManuelReschke/JobFox/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/JobFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/makecom"
	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/JobFox/internal/pkg/middleware"
	"github.com/ManuelReschke/JobFox/internal/pkg/router"
	"github.com/ManuelReschke/JobFox/internal/pkg/s3backup"
	"github.com/ManuelReschke/JobFox/internal/pkg/session"
	"github.com/ManuelReschke/JobFox/internal/pkg/simulator"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
)

// Application bundles the server with everything that must be stopped on
// shutdown.
type Application struct {
	App        *fiber.App
	manager    *jobqueue.Manager
	dispatcher *makecom.Dispatcher
	toasts     *toast.Hub
}

func main() {
	application := NewApplication()
	application.manager.Start()

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
		if err := application.App.Listen(addr); err != nil {
			log.Fatalf("[Server] %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("[Server] Shutting down...")
	application.Shutdown()
}

// Shutdown stops accepting requests, then drains the workers.
func (a *Application) Shutdown() {
	if err := a.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("[Server] Shutdown: %v", err)
	}
	a.manager.Stop()
	a.dispatcher.Wait()
	a.toasts.Close()
	log.Info("[Server] Stopped")
}

func NewApplication() *Application {
	env.SetupEnvFile()
	cache.SetupCache()

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/jobfox to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:     controllers.NewViewEngine(basePath + "views"),
		BodyLimit: 1 << 20,
		// SSE streams stay open; only the read side is bounded
		ReadTimeout: 30 * time.Second,
	})

	// ignore favicon requests
	app.Use(favicon.New(favicon.Config{
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get(constants.MetricsRoute,
		middleware.RequireOperator(middleware.CredentialsFromEnv("METRICS_USER", "METRICS_PASSWORD_HASH")),
		monitor.New(monitor.Config{Title: "JobFox Metrics"}))

	// static files
	app.Static(constants.PublicRoute, basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsBasePath,
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// LEAD STORE
	driver := env.GetEnv("LEAD_STORE", repository.DriverRedis)
	var db *gorm.DB
	if strings.EqualFold(driver, repository.DriverMySQL) {
		if err := database.SetupDatabase(); err != nil {
			log.Errorf("[Database] Giving up: %v", err)
		} else {
			db = database.GetDB()
		}
	}
	store := repository.NewFactory(driver, env.GetEnv("LEAD_STORE_PREFIX", repository.DefaultKeyPrefix), cache.GetClient(), db).GetLeadStore()

	broker := events.NewBroker()
	engine := lifecycle.NewEngine(store, broker, lifecycle.WithPrice(
		env.GetEnvFloat("PREMIUM_PRICE", lifecycle.DefaultPremiumPrice),
		env.GetEnv("PREMIUM_CURRENCY", lifecycle.DefaultCurrency),
	))

	// JOB QUEUE
	manager := jobqueue.GetManager()
	queue := manager.GetQueue()
	dispatcher := makecom.NewDispatcher(makecom.NewClientFromEnv(), store, queue)

	backupEnabled := setupBackup(store, queue)
	if !backupEnabled && env.GetEnvDuration("BACKUP_INTERVAL", 0) > 0 {
		log.Warn("[Backup] BACKUP_INTERVAL is set but S3 backup is disabled, scheduled snapshots will fail")
	}

	var sim *simulator.Simulator
	if env.GetEnvBool("SIMULATE_PROGRESS", false) {
		sim = simulator.New(engine, env.GetEnvDuration("SIMULATE_INTERVAL", simulator.DefaultInterval))
		log.Infof("[Simulator] Demo mode, leads advance every %s", sim.Interval())
	}

	session.NewSessionStore()
	hub := toast.NewHub()

	deps := &controllers.Dependencies{
		Engine:        engine,
		Broker:        broker,
		Dispatcher:    dispatcher,
		Simulator:     sim,
		Captcha:       hcaptcha.NewVerifierFromEnv(),
		Counter:       counter.New(cache.GetClient()),
		Queue:         queue,
		AppURL:        strings.TrimRight(env.GetEnv("APP_URL", "http://localhost:4000"), "/"),
		PaymentSecret: env.GetEnv("PAYMENT_WEBHOOK_SECRET", ""),
		BackupEnabled: backupEnabled,
		IsDev:         env.IsDev(),
	}

	// ROUTER
	router.InstallRouter(app, router.Config{
		Deps:          deps,
		Toasts:        hub,
		Operator:      middleware.CredentialsFromEnv("ADMIN_USER", "ADMIN_PASSWORD_HASH"),
		WebhookSecret: env.GetEnv("MAKECOM_WEBHOOK_SECRET", ""),
	})

	return &Application{
		App:        app,
		manager:    manager,
		dispatcher: dispatcher,
		toasts:     hub,
	}
}

// setupBackup registers the snapshot job when S3 is configured and reachable.
func setupBackup(store repository.LeadStore, queue *jobqueue.Queue) bool {
	cfg, err := s3backup.LoadConfig()
	if err != nil {
		log.Errorf("[Backup] Invalid configuration: %v", err)
		return false
	}
	if !cfg.IsEnabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := s3backup.NewClient(ctx, cfg)
	if err != nil {
		log.Errorf("[Backup] S3 unavailable: %v", err)
		return false
	}
	s3backup.NewBackup(client, store).Register(queue)
	log.Infof("[Backup] Snapshots go to bucket %s", cfg.BucketName)
	return true
}
