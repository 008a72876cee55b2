package main

import (
	"context"
	"flag"
	"os"

	"github.com/damoang/mediawall/internal/config"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/migration"
	"github.com/damoang/mediawall/internal/repository"
	"github.com/damoang/mediawall/pkg/database"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", config.ConfigPath(), "config file path")
	verify := flag.Bool("verify", false, "report row counts per moderation state after migrating")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv(".")
	pkglogger.InitStructured(os.Getenv("APP_ENV"))
	log := pkglogger.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	opts := cfg.DatabaseOptions()
	opts.LogLevel = gormlogger.Warn
	if *verbose {
		opts.LogLevel = gormlogger.Info
	}
	db, err := database.Open(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("schema up to date")

	if !*verify {
		return
	}

	tables := map[string]interface{}{
		"media_items": &domain.Media{},
		"comments":    &domain.Comment{},
	}
	for table, model := range tables {
		for _, filter := range []domain.Filter{domain.FilterAll, domain.FilterApproved, domain.FilterPending, domain.FilterDeleted} {
			count, err := repository.CountByFilter(context.Background(), db, model, filter)
			if err != nil {
				log.Fatal().Err(err).Str("table", table).Msg("verify failed")
			}
			log.Info().Str("table", table).Str("filter", string(filter)).Int64("rows", count).Msg("verify")
		}
	}
}
