package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitorcpx/hrsync-worker/internal/config"
	"github.com/vitorcpx/hrsync-worker/internal/database"
	"github.com/vitorcpx/hrsync-worker/internal/models"
	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/server"
	"github.com/vitorcpx/hrsync-worker/internal/service"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
	"github.com/vitorcpx/hrsync-worker/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db); err != nil {
		return err
	}
	log.Println("Migrations completed successfully")

	// Initialize repositories
	syncLogRepo := repository.NewSyncLogRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	absenteeismRepo := repository.NewAbsenteeismRepository(db)
	credentialRepo := repository.NewSOCCredentialRepository(db)

	// Initialize SOC gateway and reconcilers
	socClient := soc.NewClient(cfg.SOCAPIURL, time.Duration(cfg.FetchTimeout)*time.Second)
	reconcilers := map[models.SyncType]service.RecordReconciler{
		models.SyncTypeCompany:     service.NewCompanyReconciler(companyRepo),
		models.SyncTypeEmployee:    service.NewEmployeeReconciler(employeeRepo, companyRepo),
		models.SyncTypeAbsenteeism: service.NewAbsenteeismReconciler(absenteeismRepo, employeeRepo, companyRepo),
	}

	scheduler := service.NewScheduler(syncLogRepo, service.SchedulerOptions{
		BatchSize:     cfg.SyncBatchSize,
		MaxConcurrent: cfg.SyncMaxConcurrent,
	})

	// Initialize background execution
	pipeline := worker.NewPipeline(syncLogRepo, credentialRepo, socClient, scheduler, reconcilers)
	dispatcher := worker.NewDispatcher(pipeline, cfg.DispatcherWorkers, 64)
	sweeper := worker.NewSweeper(syncLogRepo,
		time.Duration(cfg.StaleAfter)*time.Second,
		time.Duration(cfg.SweepInterval)*time.Second)

	// Initialize HTTP surface
	handler := server.NewSyncHandler(syncLogRepo, dispatcher)
	router := server.NewRouter(handler, cfg.AuthJWTSecret)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher.Start(ctx)
	go sweeper.Start(ctx)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Shutdown signal received")
	case err := <-errChan:
		return err
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Application stopped")
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	}

	return nil
}
