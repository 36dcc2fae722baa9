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

	"github.com/groundviewhq/groundview/internal/api"
	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/repository"
	"github.com/groundviewhq/groundview/internal/service"
	"github.com/groundviewhq/groundview/internal/storage"
	"github.com/groundviewhq/groundview/internal/vision"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.File = cfg.Log.File
	logCfg.FileOnly = cfg.Log.FileOnly
	appLog := logger.New(logCfg)
	logger.SetDefault(appLog)

	db, err := repository.InitDB(&cfg.Database, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}

	imageRepo := repository.NewImageRepository(db)
	objectRepo := repository.NewObjectRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	qdrantRepo, err := repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Qdrant.Dimension,
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize Qdrant repository")
	}
	defer qdrantRepo.Close()

	ctx := context.Background()
	if err := qdrantRepo.EnsureCollection(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to ensure Qdrant collection")
	}

	objectStorage, err := storage.NewStorage(&storage.Config{
		Type:      cfg.Storage.Type,
		LocalPath: cfg.Storage.LocalPath,
		S3: storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		},
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize storage")
	}

	embedder := service.NewEmbeddingClient(&service.EmbeddingConfig{
		APIURL:    cfg.Embedding.BaseURL,
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimensions,
		Timeout:   cfg.Embedding.Timeout,
	})
	loader := service.NewImageLoader(objectStorage, cfg.Search.ImageFetchTimeout)
	analyzer := vision.NewAnalyzer(loader, embedder, appLog)

	newStandard := func() service.SearchStrategy {
		return service.NewStandardStrategy(
			imageRepo, objectRepo, qdrantRepo, embedder, loader, analyzer,
			cfg.Search, appLog,
		)
	}
	newConsultation := func() service.SearchStrategy {
		engine, err := service.NewConsultationEngine(cfg.Consultation.KnowledgePath, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to load consultation knowledge")
		}
		return service.NewConsultationStrategy(
			imageRepo, qdrantRepo, embedder, engine,
			cfg.Consultation, appLog,
		)
	}

	coordinator := service.NewStrategyCoordinator(
		newStandard, newConsultation,
		cfg.Search, cfg.Consultation, appLog,
	)

	router := api.SetupRouter(coordinator, imageRepo, collectionRepo, qdrantRepo, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLog.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Fatal("Server forced to shutdown")
	}

	appLog.Info("Server exited")
}
