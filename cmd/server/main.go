package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	_ "github.com/lib/pq"

	"github.com/hirevision/interview-service/internal/analysis"
	"github.com/hirevision/interview-service/internal/config"
	"github.com/hirevision/interview-service/internal/handlers"
	"github.com/hirevision/interview-service/internal/logger"
	"github.com/hirevision/interview-service/internal/media"
	"github.com/hirevision/interview-service/internal/questions"
	"github.com/hirevision/interview-service/internal/repositories"
	"github.com/hirevision/interview-service/internal/routes"
	"github.com/hirevision/interview-service/internal/services"
	"github.com/hirevision/interview-service/internal/storage"
	ws "github.com/hirevision/interview-service/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	store, err := storage.NewMinioStore(cfg.Minio, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	uploader := storage.NewUploader(store, log)

	backendClient := resty.New().
		SetBaseURL(cfg.BackendBaseURL).
		SetTimeout(30 * time.Second)

	questionRepo := repositories.NewQuestionRepository(db)
	participationRepo := repositories.NewParticipationRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)

	questionProvider := questions.NewProvider(backendClient, questionRepo, log)
	dispatcher := analysis.NewDispatcher(backendClient, log)

	hub := ws.NewHub()

	provider := media.NewLoopbackProvider()
	enumerator := media.NewEnumerator(provider, log)
	defer enumerator.Close()

	sessionService := services.NewInterviewSessionService(
		provider,
		uploader,
		questionProvider,
		dispatcher,
		participationRepo,
		hub,
		cfg.RedirectDelay,
		log,
	)
	inviteService := services.NewInviteService(inviteRepo, log)

	interviewHandler := handlers.NewInterviewHandler(sessionService, enumerator, log)
	inviteHandler := handlers.NewInviteHandler(inviteService, log)
	webSocketHandler := handlers.NewWebSocketHandler(sessionService, hub, log)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterPublicEndpoints(router, inviteHandler, webSocketHandler, cfg.JWTSecret)
	routes.RegisterProtectedEndpoints(router, interviewHandler, inviteHandler, cfg.JWTSecret)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exited")
}
