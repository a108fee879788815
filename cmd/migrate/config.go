package main

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles reads .env.local then .env. Neither overrides variables already
// set by the runtime, and .env.local wins over .env.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}

// migrationsDir resolves the migrations directory: the -dir flag, then
// MIGRATIONS_DIR, then db/migrations.
func migrationsDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
