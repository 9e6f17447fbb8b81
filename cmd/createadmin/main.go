// cmd/createadmin/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	adminrepository "gymaccess/internal/admin/repository"
	adminservice "gymaccess/internal/admin/service"
	"gymaccess/internal/config"
	"gymaccess/pkg/db"
	"gymaccess/pkg/logger"
)

func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin login email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(cfg.LogLevel, "console")

	if *name == "" || *email == "" || len(*password) < 6 {
		flag.Usage()
		log.Fatal().Msg("name, email and a password of at least 6 characters are required")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	svc := adminservice.NewAdminService(adminrepository.NewPostgresAdminRepository(database), cfg.JWTSecret, cfg.JWTTTL)
	a, err := svc.Register(ctx, *name, *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("admin creation failed")
	}
	log.Info().Int64("id", a.ID).Str("email", a.Email).Msg("admin created")
}
