package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/jmcelroy/docent/api"
	"github.com/jmcelroy/docent/conversion"
	"github.com/jmcelroy/docent/datastore"
	"github.com/jmcelroy/docent/ebook"
	"github.com/jmcelroy/docent/features"
	"github.com/jmcelroy/docent/ingestion"
	"github.com/jmcelroy/docent/mediamap"
	rh "github.com/jmcelroy/docent/route-handlers"
	"github.com/jmcelroy/docent/sanitize"
	"github.com/jmcelroy/docent/scheduler"
	"github.com/jmcelroy/docent/scorm"
	"github.com/jmcelroy/docent/storage"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "user=postgres password=password dbname=docent host=localhost port=5432 sslmode=disable"
	defaultMediaDir    = "_media"
	dbPingTimeout      = 5 * time.Second
	shutdownTimeout    = 15 * time.Second
	dbMaxOpenConns     = 25
	dbMaxIdleConns     = 25
	dbConnMaxLifetime  = 5 * time.Minute
)

type config struct {
	port        string
	databaseURL string
	mediaDir    string
}

func main() {
	cfg := loadConfig()
	flags := features.FromEnv()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	courseRepo := datastore.NewCourseRepository(db)
	templateRepo := datastore.NewTemplateRepository(db)
	mediaRepo := datastore.NewMediaRepository(db)

	sanitizer := sanitize.New()
	mapper := mediamap.New()

	// Export pipeline
	scormService := scorm.NewService(sanitizer, mapper)
	scormService.SetEnhancedManifest(flags.EnhancedManifest)
	epubGenerator := ebook.NewCourseGenerator(sanitizer)

	// Content import pipeline
	converter := conversion.NewConverter()
	contentProcessor := ingestion.NewContentProcessor()
	importer := ingestion.NewImporter(converter, contentProcessor, sanitizer)

	// Media storage
	mediaStorer := storage.NewLocalMediaStorer(cfg.mediaDir)

	courseHandler := rh.NewCourseHandler(courseRepo, templateRepo)
	exportHandler := rh.NewExportHandler(scormService, epubGenerator, flags)
	mediaHandler := rh.NewMediaHandler(mediaRepo, mediaStorer)
	importHandler := rh.NewImportHandler(importer)

	apiRouter := api.SetupRoutes(courseHandler, exportHandler, mediaHandler, importHandler)

	// Media sweep, triggered by external cron
	mediaSweeper := scheduler.New(mediaRepo, mediaStorer)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)
	mainRouter.Post("/scheduler/tick", mediaSweeper.HandleTick)

	startServer(cfg.port, mainRouter)
}

func loadConfig() config {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = defaultMediaDir
		log.Printf("WARNING: MEDIA_DIR not set, storing media under %s.", defaultMediaDir)
	}

	return config{
		port:        port,
		databaseURL: dbURL,
		mediaDir:    mediaDir,
	}
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
