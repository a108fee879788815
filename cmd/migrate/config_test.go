package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationsDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/from/env")
		if got := migrationsDir("/from/flag"); got != "/from/flag" {
			t.Fatalf("migrationsDir = %q, want /from/flag", got)
		}
	})
	t.Run("env override", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/from/env")
		if got := migrationsDir(""); got != "/from/env" {
			t.Fatalf("migrationsDir = %q, want /from/env", got)
		}
	})
	t.Run("default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		if got := migrationsDir(""); got != "db/migrations" {
			t.Fatalf("migrationsDir = %q, want db/migrations", got)
		}
	})
}

func chdirTemp(t *testing.T, files map[string]string) {
	t.Helper()
	tmp := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	cwd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLoadEnvFiles_RuntimeEnvWins(t *testing.T) {
	chdirTemp(t, map[string]string{".env": "DB_DSN=from_file\n"})
	t.Setenv("DB_DSN", "from_env")

	loadEnvFiles()

	if got := os.Getenv("DB_DSN"); got != "from_env" {
		t.Fatalf("DB_DSN = %q, want from_env", got)
	}
}

func TestLoadEnvFiles_LocalWinsOverDotEnv(t *testing.T) {
	chdirTemp(t, map[string]string{
		".env":       "MIGRATE_TEST_DSN=shared\n",
		".env.local": "MIGRATE_TEST_DSN=local\n",
	})
	t.Cleanup(func() { _ = os.Unsetenv("MIGRATE_TEST_DSN") })

	loadEnvFiles()

	if got := os.Getenv("MIGRATE_TEST_DSN"); got != "local" {
		t.Fatalf("MIGRATE_TEST_DSN = %q, want local", got)
	}
}
