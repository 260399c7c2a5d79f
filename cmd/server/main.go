package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocalhire/interview/internal/catalog"
	"vocalhire/interview/internal/config"
	"vocalhire/interview/internal/events"
	"vocalhire/interview/internal/feedback"
	"vocalhire/interview/internal/handlers"
	"vocalhire/interview/internal/jobs"
	"vocalhire/interview/internal/llm"
	_ "vocalhire/interview/internal/llm/gemini"
	"vocalhire/interview/internal/mentor"
	"vocalhire/interview/internal/metrics"
	"vocalhire/interview/internal/prompts"
	"vocalhire/interview/internal/routers"
	"vocalhire/interview/internal/session"
	"vocalhire/interview/internal/store"
	"vocalhire/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

type appHandlers struct {
	health    *handlers.HealthHandler
	interview *handlers.InterviewHandler
	feedback  *handlers.FeedbackHandler
	report    *handlers.ReportHandler
	mentor    *handlers.MentorHandler
	settings  *handlers.SettingsHandler
	catalog   *handlers.CatalogHandler
}

func registerRoutes(router *chi.Mux, h appHandlers) {
	routers.HealthRoutes(router, h.health)
	routers.InterviewRoutes(router, h.interview, h.feedback, h.report)
	routers.ReportRoutes(router, h.report)
	routers.MentorRoutes(router, h.mentor)
	routers.SettingsRoutes(router, h.settings)
	routers.CatalogRoutes(router, h.catalog)
	router.Handle("/metrics", metrics.Handler())
}

// timeoutExceptUpgrade bounds ordinary requests; websocket sessions run for
// the length of the interview.
func timeoutExceptUpgrade(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		timed := middleware.Timeout(d)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}

func newRouter(cfg *config.Config, h appHandlers) *chi.Mux {
	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	router.Use(metrics.Middleware("interview"), timeoutExceptUpgrade(requestTimeout))

	registerRoutes(router, h)
	return router
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.Postgres == nil {
		logger.Warn("POSTGRES_HOST not set, interviews are kept in memory")
		return store.NewMemoryStore(), nil
	}
	db, err := store.OpenPostgres(*cfg.Postgres)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(ctx, db, logger)
}

func openPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if cfg.RedisAddr == "" {
		return events.NoopPublisher{}
	}
	publisher := events.NewRedisPublisher(cfg.RedisAddr, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := publisher.Ping(ctx); err != nil {
		logger.Warn("Redis not reachable, completion events may be dropped", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return publisher
}

func main() {
	_ = godotenv.Load()

	logger := utils.MustLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.Bool("postgres", cfg.Postgres != nil),
		zap.Bool("redis", cfg.RedisAddr != ""))

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load role catalog", zap.Error(err))
	}

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	mentorClient := mentor.NewClient(aiProvider, promptManager, logger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStore(startupCtx, cfg, logger)
	cancelStartup()
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}

	publisher := openPublisher(cfg, logger)
	recorder := metrics.Recorder{}

	sessions := session.NewManager(st, cat, logger,
		session.WithPublisher(publisher),
		session.WithObserver(recorder))

	feedbackCache := feedback.NewCache(cfg.FeedbackCacheTTL)
	feedbackManager := feedback.NewManager(mentorClient, st, feedbackCache, logger,
		feedback.WithGeneratedHook(recorder.FeedbackGenerated))

	archiveJob := jobs.NewReportArchiveJob(st, sessions, &jobs.ArchiverConfig{
		Schedule:      cfg.ExportSchedule,
		ExportDir:     cfg.ExportDir,
		ExportEnabled: cfg.ExportEnabled,
		BatchSize:     cfg.ExportBatchSize,
		SweepSchedule: cfg.SweepSchedule,
		SessionIdle:   cfg.SessionIdle,
	}, logger, recorder.PDFRendered)
	if err := archiveJob.Start(); err != nil {
		logger.Fatal("Failed to start background jobs", zap.Error(err))
	}

	router := newRouter(cfg, appHandlers{
		health:    handlers.NewHealthHandler(aiProvider, promptManager, st, sessions, cfg),
		interview: handlers.NewInterviewHandler(sessions, st, logger),
		feedback:  handlers.NewFeedbackHandler(feedbackManager, st, logger),
		report:    handlers.NewReportHandler(st, logger, recorder.PDFRendered),
		mentor:    handlers.NewMentorHandler(mentorClient, st, logger),
		settings:  handlers.NewSettingsHandler(st, logger),
		catalog:   handlers.NewCatalogHandler(cat),
	})

	serverAddr := ":" + cfg.Port

	// http server with timeouts; websocket connections clear these on upgrade
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	archiveJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sessions.Shutdown(ctx); err != nil {
		logger.Error("Sessions did not finish before shutdown", zap.Error(err))
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	feedbackCache.Close()
	if err := publisher.Close(); err != nil {
		logger.Warn("Failed to close event publisher", zap.Error(err))
	}
	if err := st.Close(); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
