package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/circulation"
	"github.com/mrlokans/library/internal/clock"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/borrowers"
	"github.com/mrlokans/library/internal/database/borrowings"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/reports"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before background work is drained
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// TaskDatabasePath returns the main database path the task queue database
// is placed next to. PostgreSQL deployments keep it at the default location.
func TaskDatabasePath(cfg config.Database) string {
	if cfg.Driver == config.DatabaseDriverPostgres || cfg.Path == "" {
		return config.DefaultDatabasePath
	}
	return cfg.Path
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	clk := clock.NewSystem()

	booksRepo := books.NewRepository(db.DB)
	borrowersRepo := borrowers.NewRepository(db.DB)
	borrowingsRepo := borrowings.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	service := circulation.NewService(
		booksRepo,
		borrowersRepo,
		borrowingsRepo,
		reports.NewCSVExporter(cfg.Reports.Dir, clk),
		circulation.WithAuditor(auditService),
		circulation.WithClock(clk),
	)

	routerCfg := http_controllers.RouterConfig{
		Books:              booksRepo,
		Borrowers:          borrowersRepo,
		Circulation:        service,
		Database:           db,
		ReportsDir:         cfg.Reports.Dir,
		AuditEvents:        auditService,
		ReportRetention:    cfg.Reports.Retention,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	}

	var rateLimiter *http_controllers.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = http_controllers.NewRateLimiter(http_controllers.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		})
		routerCfg.RateLimiter = rateLimiter
		log.Printf("Rate limiting: %d requests per %v per client", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// Initialize task queue and scheduler if enabled
	var taskClient *tasks.Client
	var sched *scheduler.Scheduler
	var backgroundCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(TaskDatabasePath(cfg.Database), tasks.FromConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewExportReportQueue(service),
			tasks.NewCleanupReportsQueue(reports.NewCleaner(cfg.Reports.Dir)),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)
		routerCfg.TaskQueue = taskClient

		var backgroundCtx context.Context
		backgroundCtx, backgroundCancel = context.WithCancel(context.Background())
		go taskClient.Start(backgroundCtx)

		sched = scheduler.New(
			tasks.NewJobs(taskClient, cfg.Reports.Retention, cfg.Audit.RetentionDays),
			clk,
			scheduler.Config{
				ReportEnabled:       cfg.ReportSchedule.Enabled,
				ReportSchedule:      cfg.ReportSchedule.Schedule,
				ReportLookback:      cfg.ReportSchedule.Lookback,
				MaintenanceSchedule: cfg.Tasks.MaintenanceSchedule,
			},
		)
		if err := sched.Start(backgroundCtx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	} else if cfg.ReportSchedule.Enabled {
		log.Printf("WARNING: REPORT_SCHEDULE_ENABLED requires TASKS_ENABLED; scheduled reports are disabled")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		if backgroundCancel != nil {
			backgroundCancel()
		}
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
