package main

import (
	"context"
	"log"
	"os"

	"com.martdev.sellerhub/config"
	"com.martdev.sellerhub/internal/database"
	"github.com/pressly/goose/v3"
)

// Usage: migrate <up|down|status>
func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg := config.Load()

	db, err := database.NewPostgreInstance(
		cfg.DB.Addr,
		cfg.DB.MaxOpenConns,
		cfg.DB.MaxIdleConns,
		cfg.DB.MaxIdleTime,
	)
	if err != nil {
		log.Fatalf("db error - %s", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	if err := goose.RunContext(context.Background(), command, db, "cmd/migrate/migrations"); err != nil {
		log.Fatalf("migration %s failed: %v", command, err)
	}
}
