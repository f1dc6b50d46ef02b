package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	_ "floradmin/docs" // swagger docs

	"gorm.io/gorm"

	"floradmin/internal/config"
	"floradmin/internal/db"
	"floradmin/internal/logger"
	"floradmin/internal/mockapi"
)

// @title Floristerías Backend API
// @version 1.0
// @description Development double of the marketplace REST backend used by the admin console.
// @host localhost:4000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	var (
		gormDB *gorm.DB
		err    error
	)
	if cfg.MySQLDSN != "" {
		gormDB, err = db.NewMySQL(cfg.MySQLDSN)
	} else {
		log.Info("MYSQL_DSN not set, using in-memory sqlite")
		gormDB, err = db.NewSQLite("file:floradmin?mode=memory&cache=shared")
	}
	if err != nil {
		log.Fatalw("database init", "error", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Warnw("drop tables", "error", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalw("migrate", "error", err)
	}

	srv := mockapi.New(gormDB, cfg.JWTSecret, log)
	seed, err := srv.Seed(context.Background(), cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalw("seed", "error", err)
	}
	if seed != nil {
		log.Infow("seeded", "admin", mockapi.SeedAdmin, "store_user", mockapi.SeedStoreUser, "store", seed.StoreID)
	}

	addr := ":" + cfg.BackendPort
	log.Infow("backend double listening", "addr", addr, "swagger", "http://localhost"+addr+"/swagger/index.html")
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server start", "error", err)
	}
}
