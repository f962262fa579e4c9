package main

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"text-optimization-api/analyzer"
	"text-optimization-api/handlers"
	"text-optimization-api/subscriber"
	"text-optimization-api/testui"
	"text-optimization-api/utils"
	"time"

	valkeystore "text-optimization-api/valkey"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:embed web/index.html
var indexHTML string

// dependencies are the optional integrations; nil members disable their routes
type dependencies struct {
	processor analyzer.Processor
	lexiconDB handlers.Pinger
	objects   handlers.ObjectFetcher
	bus       subscriber.Bus
}

func main() {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.TimeKey = ""
	zapCfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := utils.LoadConfig()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := dependencies{}
	opts := []analyzer.Option{analyzer.WithTopicKeywords(cfg.TopicKeywords)}

	// Initialize PostgreSQL entity lexicon
	if cfg.Postgres.Enabled() {
		db, err := initLexicon(ctx, logger, cfg.Postgres)
		if err != nil {
			sugar.Fatalw("failed to init entity lexicon",
				"error", err)
		}
		defer utils.CloseDB(logger, db.db)
		deps.lexiconDB = db.db
		opts = append(opts, analyzer.WithLexicon(db.lexicon))
	}

	// The processor is built once and shared by every request
	processor := analyzer.NewTextProcessor(opts...)
	deps.processor = processor

	// Initialize S3
	if cfg.S3.Enabled() {
		store, err := utils.InitS3(ctx, logger, cfg.S3)
		if err != nil {
			sugar.Fatalw("failed to init s3",
				"error", err)
		}
		deps.objects = store
	}

	// Initialize Valkey and start the pub/sub worker in background
	if cfg.Valkey.Enabled() {
		store, err := valkeystore.InitValkey(logger, cfg.Valkey)
		if err != nil {
			sugar.Fatalw("failed to init valkey",
				"error", err)
		}
		defer store.Close()
		deps.bus = store

		worker := subscriber.NewWorker(logger, store, processor, cfg.DefaultNumTopics, cfg.AnalysisTimeout)
		go worker.Start(ctx)
	}

	sugar.Info("Creating router")
	r, err := newRouter(logger, cfg, deps)
	if err != nil {
		sugar.Fatalw("failed to create router",
			"error", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed",
				"error", err)
		}
	}()

	sugar.Infow("Running on port",
		"port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("server stopped",
			"error", err)
	}
}

func newRouter(logger *zap.Logger, cfg utils.Config, deps dependencies) (*gin.Engine, error) {
	r := gin.New()

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(handlers.SecurityHeaders(cfg.GinMode == gin.DebugMode))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	opts := handlers.Options{
		DefaultNumTopics: cfg.DefaultNumTopics,
		MaxTextBytes:     cfg.MaxTextBytes,
	}

	// Routes
	r.POST("/analyze", handlers.HandleAnalyze(logger, deps.processor, opts))
	r.POST("/compare", handlers.HandleCompare(opts))
	if deps.objects != nil {
		r.POST("/analyze/object", handlers.HandleAnalyzeObject(logger, deps.processor, deps.objects, opts))
	}
	if deps.bus != nil {
		r.POST("/analyze/async", handlers.HandleAnalyzeAsync(logger, deps.bus, opts))
	}

	// Health check
	r.GET("/healthcheck", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.GET("/metrics", handlers.HandleMetrics())
	r.GET("/lexicon/status", handlers.HandleLexiconStatus(deps.lexiconDB))

	if err := testui.RegisterRoutes(r, "/", indexHTML, testui.Page{DefaultNumTopics: cfg.DefaultNumTopics}); err != nil {
		return nil, err
	}

	return r, nil
}

type lexiconStore struct {
	db      *sql.DB
	lexicon analyzer.Lexicon
}

func initLexicon(ctx context.Context, logger *zap.Logger, cfg utils.PostgresConfig) (*lexiconStore, error) {
	db, err := utils.InitDB(logger, cfg)
	if err != nil {
		return nil, err
	}
	if err := utils.CreateSchema(ctx, logger, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := utils.SeedLexicon(ctx, logger, db, cfg.LexiconSeed); err != nil {
		db.Close()
		return nil, err
	}
	lexicon, err := utils.LoadLexicon(ctx, logger, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &lexiconStore{db: db, lexicon: lexicon}, nil
}
