package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tenancy-service/internal/config"
	"tenancy-service/internal/events"
	"tenancy-service/internal/handlers"
	"tenancy-service/internal/repository"
	"tenancy-service/internal/roles"
	"tenancy-service/internal/service"
	"tenancy-service/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/tenancy", "log", "tenancy_service")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func rabbitURI(cfg *config.Config) string {
	if cfg.RabbitMQUser == "" || cfg.RabbitMQPort == "" {
		return ""
	}
	return fmt.Sprintf("amqp://%s:%s@rabbitmq:%s/", cfg.RabbitMQUser, cfg.RabbitMQPassword, cfg.RabbitMQPort)
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.ServiceConfig
	repos := repository.Repositories_instance

	publisher, err := events.NewEventPublisher(rabbitURI(cfg))
	if err != nil {
		log.Fatalf("Failed to create audit alert publisher: %v", err)
	}
	defer publisher.Close()

	roleModel := roles.NewModel(cfg.AdminLevel, cfg.TopLevel)

	auditService := service.NewAuditService(repos.AuditRepository, publisher)
	scopeService := service.NewScopeService(roleModel)
	permissionService := service.NewPermissionService(
		repos.UserAccountRepository,
		repos.PermissionGroupRepository,
		repos.CacheRepository,
		roleModel,
	)
	inviteService := service.NewInviteService(
		repos.InviteRepository,
		repos.UserAccountRepository,
		auditService,
		roleModel,
		cfg.InviteQuota,
	)
	tenantService := service.NewTenantService(
		repos.TenantRepository,
		repos.PurgeRepository,
		scopeService,
		auditService,
		roleModel,
		cfg.PurgeBatchSize,
		cfg.RetentionDays,
		time.Duration(cfg.PurgeTimeoutMinutes)*time.Minute,
		cfg.SweepAutoExecute,
	)

	app := fiber.New(fiber.Config{})

	app.Get(cfg.HealthCheckPath, func(c fiber.Ctx) error {
		return c.Status(200).SendString("OK")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.NewInviteHandler(inviteService, roleModel).RegisterRoutes(app)
	handlers.NewTenantHandler(tenantService, auditService, roleModel).RegisterRoutes(app)
	handlers.NewPermissionHandler(permissionService, roleModel).RegisterRoutes(app)

	if err := discovery.ServiceDiscovery.Register(); err != nil {
		log.Printf("Warning: Consul registration failed: %v", err)
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)
	sweepStop := make(chan struct{})

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Periodic sweep: scans tenants due for deletion and retries undelivered
	// audit alerts. The same entry point is exposed over HTTP for the
	// external scheduler.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.SweepIntervalHours) * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := tenantService.SweepPendingDeletions(ctx); err != nil {
					log.Printf("Scheduled sweep failed: %v", err)
				}
				auditService.FlushUndelivered(ctx)
				cancel()
			case <-sweepStop:
				return
			}
		}
	}()

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	close(sweepStop)

	if err := discovery.ServiceDiscovery.Deregister(); err != nil {
		log.Printf("Error deregistering from Consul: %v", err)
	}

	if err := app.Shutdown(); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	<-doneChan
	log.Println("Server exited, goodbye!")
}
