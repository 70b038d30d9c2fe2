package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"gorm.io/gorm/logger"

	"github.com/camden-git/legacymappings/config"
	"github.com/camden-git/legacymappings/database"
	"github.com/camden-git/legacymappings/handlers"
	"github.com/camden-git/legacymappings/legacy"
	"github.com/camden-git/legacymappings/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		log.Printf("Ensuring storage directory exists: %s", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", dir, err)
		}
	}

	var mappings *legacy.MappingFile
	if cfg.MappingsPath != "" {
		mappings, err = legacy.LoadFile(cfg.MappingsPath)
		if err != nil {
			log.Fatalf("FATAL: Failed to load legacy mappings: %v", err)
		}
		log.Printf("Loaded legacy mappings for %d tables from %s", len(mappings.Tables), cfg.MappingsPath)
	}

	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}
	gormLogger := database.NewGormLogger(logLevel)

	registry := database.NewRegistry(nil, gormLogger)
	if err := database.RegisterModels(registry, mappings); err != nil {
		log.Fatalf("FATAL: Failed to register legacy models: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath, registry, gormLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	repo, err := repository.NewGormLegacyRecordRepository(db, registry)
	if err != nil {
		log.Fatalf("FATAL: Failed to create legacy record repository: %v", err)
	}
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Public columns of %s: %v", repo.Model().Schema.Table, repo.Model().Resolver.PublicColumnNames())

	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	recordHandler := &handlers.LegacyRecordHandler{Repo: repo}
	r.Route("/api", recordHandler.Routes)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("Server starting on http://localhost:%d\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
