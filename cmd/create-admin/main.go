package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/config"
	"github.com/damoang/mediawall/internal/migration"
	"github.com/damoang/mediawall/internal/repository"
	"github.com/damoang/mediawall/internal/service"
	"github.com/damoang/mediawall/pkg/database"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config path] <username> <password>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", config.ConfigPath(), "config file path")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	username, password := flag.Arg(0), flag.Arg(1)

	config.LoadDotEnv(".")
	pkglogger.InitStructured(os.Getenv("APP_ENV"))
	log := pkglogger.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	opts := cfg.DatabaseOptions()
	opts.LogLevel = 0
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := service.NewAdminService(repository.NewAdminUserRepository(db)).CreateAdmin(ctx, username, password)
	switch {
	case errors.Is(err, common.ErrUserAlreadyExists):
		fmt.Fprintln(os.Stderr, "Error: username already exists")
		os.Exit(1)
	case errors.Is(err, common.ErrInvalidInput):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	case err != nil:
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	fmt.Printf("Admin user created: %s (id %s)\n", admin.Username, admin.ID)
}
