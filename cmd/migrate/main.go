package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	godotenv.Load()

	databaseURL := os.Getenv("LANTERN_DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("LANTERN_DATABASE_URL not set")
	}

	conn, err := pgx.Connect(context.Background(), databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	defer conn.Close(context.Background())

	migrationsDir := "./database/migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations")
	}

	var sqlFiles []string
	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		log.Info().Str("file", file).Msg("running migration")

		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read file")
		}

		_, err = conn.Exec(context.Background(), string(content))
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to execute migration")
		}
	}

	fmt.Println("\nAll migrations completed!")
}
