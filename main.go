package main

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

	"chapterquiz-server/config"
	"chapterquiz-server/db"
	"chapterquiz-server/handlers"
	"chapterquiz-server/ingestion"
	"chapterquiz-server/mailer"
	"chapterquiz-server/service"
	"chapterquiz-server/syncer"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// Open the record store
	store, err := db.Open(context.Background(), cfg.Store)
	if err != nil {
		log.Fatalf("Unable to open record store: %v", err)
	}
	defer store.Close()
	log.Printf("Record store driver: %s", cfg.Store.Driver)

	gateway := mailer.NewSMTPGateway(mailer.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})

	hook, err := syncer.New(cfg.Sync)
	if err != nil {
		log.Fatalf("Error configuring sync hook: %v", err)
	}

	svc := service.New(store, gateway, hook, service.Options{
		OTPSignature: cfg.Mail.OTPSignature,
		PDFSignature: cfg.Mail.PDFSignature,
	})

	router := handlers.NewRouter(svc, handlers.RouterConfig{
		CORSOrigins:     cfg.CORSOrigins,
		AdminSigningKey: cfg.Admin.JWTSigningKey,
		AdminIssuer:     cfg.Admin.Issuer,
		IngestionRoot:   cfg.Ingestion.Root,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Background ingestion of chapter CSV drops
	if cfg.Ingestion.Interval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Ingestion.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					log.Println("Running scheduled ingestion...")
					ingestion.ProcessPending(ctx, svc, cfg.Ingestion.Root, func(chapter string, n int, err error) {
						if err != nil {
							svc.LogAdminEvent(ctx, "system", service.EventIngestionFailed, chapter, fmt.Sprintf("Error: %v", err))
							return
						}
						log.Printf("Successfully ingested %d submissions for %s", n, chapter)
						svc.LogAdminEvent(ctx, "system", service.EventIngestionSuccess, chapter, fmt.Sprintf("Imported %d submissions.", n))
					})
				}
			}
		}()
	}

	// Start the server
	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	// Goroutine to gracefully shut down the server
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Chapter quiz server starting on %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server startup error: %v", err)
	}
	log.Println("Server exited gracefully.")
}
