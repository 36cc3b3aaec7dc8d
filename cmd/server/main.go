package main

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"spfs/application"
	"spfs/database"
	"spfs/domain/contracts"
	"spfs/infrastructure/config"
	"spfs/infrastructure/metrics"
	"spfs/infrastructure/repositories"
	"spfs/infrastructure/sharepointfs"
	"spfs/infrastructure/spclient"
	"spfs/interfaces/web/handlers"
	"spfs/interfaces/web/presenters"
	templates "spfs/interfaces/web/templates"
	"spfs/logging"
	platformevents "spfs/platform/events"
	"spfs/spauth"
)

func main() {
	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Background routines stop with the application context
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Build dependencies
	deps := buildDependencies(appCtx, cfg, db, logger)
	go deps.JournalPruner.Run(appCtx)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, func() {
		appCancel()
		deps.Presentation.SSEManager.CloseAll()
		deps.EventBus.Wait()
	})
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	FilePresenter *presenters.FilePresenter
	FileHandlers  *handlers.FileHandlers
	SSEManager    *handlers.SSEManager
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB      *database.Database
	Logger  *logging.Logger
	Adapter *sharepointfs.Adapter

	// Events
	EventBus *platformevents.ChangeEventBus

	// Repositories
	OperationRepo contracts.OperationRepository

	// Application Layer
	FileService   *application.FileService
	JournalPruner *application.JournalPruner

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
		"library", cfg.Library.Name,
		"read_only", cfg.Library.ReadOnly,
		"journal_retention", cfg.Journal.Retention,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildAdapter connects to SharePoint and wraps the document library in the filesystem adapter.
func buildAdapter(cfg *config.AppConfig, logger *logging.Logger) *sharepointfs.Adapter {
	authCfg, err := spauth.FromEnv()
	if err != nil {
		logger.Error("Invalid SharePoint configuration", "error", err)
		os.Exit(1)
	}

	authClient, err := spauth.NewClient(authCfg)
	if err != nil {
		logger.Error("Failed to create SharePoint client", "error", err)
		os.Exit(1)
	}

	libraryClient, err := spclient.NewDocumentLibraryClient(authClient, cfg.Library.Name)
	if err != nil {
		logger.Error("Failed to create document library client", "error", err)
		os.Exit(1)
	}

	logger.SharePoint("Document library client ready",
		"site_url", authCfg.SiteURL,
		"library", cfg.Library.Name)

	return sharepointfs.New(libraryClient,
		sharepointfs.WithLibrary(cfg.Library.Name),
		sharepointfs.WithLogger(logger),
	)
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(
	service *application.FileService,
	adapter *sharepointfs.Adapter,
	sseManager *handlers.SSEManager,
) *PresentationLayer {
	filePresenter := presenters.NewFilePresenter(adapter.GetMimetype)
	fileHandlers := handlers.NewFileHandlers(service, filePresenter)

	return &PresentationLayer{
		FilePresenter: filePresenter,
		FileHandlers:  fileHandlers,
		SSEManager:    sseManager,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(ctx context.Context, cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *Dependencies {
	adapter := buildAdapter(cfg, logger)
	operationRepo := repositories.NewSqliteOperationRepository(db)

	// Change notifications: file service -> bus -> SSE clients
	eventBus := platformevents.NewChangeEventBus()
	sseManager := handlers.NewSSEManager(ctx)
	platformevents.NewNotificationEventHandlers(sseManager).RegisterHandlers(eventBus)

	fileService := application.NewFileService(adapter, operationRepo, logger,
		application.WithReadOnly(cfg.Library.ReadOnly),
		application.WithDefaultMimeType(cfg.Library.DefaultMimeType),
		application.WithPublisher(eventBus),
	)

	return &Dependencies{
		DB:            db,
		Logger:        logger,
		Adapter:       adapter,
		EventBus:      eventBus,
		OperationRepo: operationRepo,
		FileService:   fileService,
		JournalPruner: application.NewJournalPruner(operationRepo, cfg.Journal.Retention, cfg.Journal.PruneInterval),
		Presentation:  buildPresentationLayer(fileService, adapter, sseManager),
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Static assets
	mountStaticAssets(r, deps.Logger)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Filesystem routes
	setupFilesystemRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// logFile stays open for the server lifetime

	httpLogger := httplog.NewLogger("spfs", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func mountStaticAssets(r chi.Router, logger *logging.Logger) {
	sub, err := fs.Sub(templates.FS, "assets")
	if err != nil {
		logger.Error("Failed to mount static assets", "error", err)
		return
	}
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", healthHandler(deps))
	r.Handle("/metrics", metrics.Handler())
}

func healthHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.DB.Health()
		if err != nil {
			deps.Logger.WithContext(r.Context()).Error("Health check failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"status":    "ok",
			"library":   deps.Adapter.Library(),
			"read_only": deps.FileService.ReadOnly(),
			"database":  stats,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			deps.Logger.WithContext(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}

func setupFilesystemRoutes(r *chi.Mux, deps *Dependencies) {
	h := deps.Presentation.FileHandlers

	r.Route("/fs", func(r chi.Router) {
		r.Get("/list", h.List)
		r.Get("/stat", h.Stat)

		r.Head("/file", h.Head)
		r.Get("/file", h.Download)
		r.Put("/file", h.Upload)
		r.Delete("/file", h.DeleteFile)

		r.Post("/copy", h.Copy)
		r.Post("/move", h.Move)

		r.Post("/dir", h.CreateDir)
		r.Delete("/dir", h.DeleteDir)
	})

	r.Get("/journal", h.Journal)
	r.Get("/events", deps.Presentation.SSEManager.HandleSSEConnection)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, onShutdown func()) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// SSE handlers block Shutdown until their clients are released
		onShutdown()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
