package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/shylockwolf/ainote/internal/config"
	"github.com/shylockwolf/ainote/internal/database"
	"github.com/shylockwolf/ainote/internal/debuglog"
	"github.com/shylockwolf/ainote/internal/handlers"
	"github.com/shylockwolf/ainote/internal/logger"
	"github.com/shylockwolf/ainote/internal/middleware"
	"github.com/shylockwolf/ainote/internal/services/ai"
	"github.com/shylockwolf/ainote/internal/telemetry"
	"github.com/shylockwolf/ainote/internal/workspace"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.Config{
				ServiceName:    "ainote-api",
				ServiceVersion: handlers.Version,
				Endpoint:       cfg.OTELEndpoint,
				Insecure:       cfg.OTELInsecure,
				SampleRatio:    cfg.OTELSampleRatio,
			})
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			}
		}
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		zapLogger.Fatal("failed_to_open_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database", zap.Error(err))
		}
	}()
	zapLogger.Info("database_ready", zap.String("path", cfg.DatabasePath))

	noteRepo := database.NewNoteRepository(db)
	debugLog := debuglog.New(cfg.DebugLogCapacity, zapLogger)

	gateway, err := createGateway(cfg, zapLogger, debugLog)
	if err != nil {
		zapLogger.Warn("failed_to_create_ai_provider_ai_features_disabled", zap.Error(err))
		gateway = nil
	}

	ws := workspace.New(gateway)

	noteHandler := handlers.NewNoteHandler(noteRepo, gateway, zapLogger)
	aiHandler := handlers.NewAIHandler(gateway, zapLogger)
	documentHandler := handlers.NewDocumentHandler(ws, noteRepo, zapLogger)
	debugHandler := handlers.NewDebugHandler(debugLog, zapLogger)

	r := mux.NewRouter()

	// Middleware executes outermost-first in registration order.
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("ainote-api"))
	}
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	r.HandleFunc("/version", handlers.VersionInfo).Methods("GET")

	// Registered before the /api subrouter so the stream escapes the
	// request timeout; http.TimeoutHandler buffers responses and would
	// break SSE.
	r.HandleFunc("/api/debug/logs/stream", debugHandler.Stream).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Timeout(middleware.DefaultRequestTimeout))

	api.HandleFunc("/notes", noteHandler.List).Methods("GET")
	api.HandleFunc("/notes", noteHandler.Create).Methods("POST")
	api.HandleFunc("/notes", noteHandler.Clear).Methods("DELETE")
	api.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PUT")
	api.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE")
	api.HandleFunc("/tags", noteHandler.ListTags).Methods("GET")

	api.HandleFunc("/ai/analyze", aiHandler.Analyze).Methods("POST")

	api.HandleFunc("/document", documentHandler.Get).Methods("GET")
	api.HandleFunc("/document", documentHandler.Set).Methods("PUT")
	api.HandleFunc("/document/collect", documentHandler.Collect).Methods("POST")
	api.HandleFunc("/document/actions/{action}", documentHandler.Action).Methods("POST")
	api.HandleFunc("/document/chat", documentHandler.Chat).Methods("POST")
	api.HandleFunc("/document/format-local", documentHandler.FormatLocal).Methods("POST")
	api.HandleFunc("/document/mindmap", documentHandler.MindMap).Methods("POST")

	api.HandleFunc("/debug/logs", debugHandler.List).Methods("GET")
	api.HandleFunc("/debug/logs", debugHandler.Clear).Methods("DELETE")

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.FrontendURL},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	// WriteTimeout stays at zero so the debug log SSE stream can run until
	// the client disconnects.
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        corsWrapper.Handler(r),
		ReadTimeout:    15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// createGateway builds the configured AI backend through the provider
// registry.
func createGateway(cfg *config.Config, logger *zap.Logger, debugLog *debuglog.Log) (ai.Gateway, error) {
	registry := ai.NewRegistry()
	ai.RegisterOpenAI(registry)
	ai.RegisterGemini(registry)

	providerType := cfg.AIProvider
	if providerType == "" {
		providerType = "openai"
	}

	providerConfig := map[string]string{
		"api_key":  cfg.AIKey(),
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	}

	return registry.Get(context.Background(), providerType, providerConfig, logger, debugLog)
}
