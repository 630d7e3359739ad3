package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"pawsconnect/internal/infra"
	"pawsconnect/internal/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [up|down|status|version|redo|reset]")
}

func main() {
	_ = godotenv.Load()
	flag.Usage = usage
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = strings.ToLower(flag.Arg(0))
	}
	switch command {
	case "up", "down", "status", "version", "redo", "reset":
	default:
		usage()
		os.Exit(2)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	db, err := migrations.Open(dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate: open database")
	}
	defer db.Close()

	if err := migrations.Run(context.Background(), db, command, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		logger.Fatal().Err(err).Str("command", command).Msg("migrate failed")
	}
	logger.Info().Str("command", command).Msg("migrate done")
}
