package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"lendingapi/internal/config"
	"lendingapi/internal/news"
	"lendingapi/internal/partner"
	"lendingapi/internal/platform/crypto"
	"lendingapi/internal/testimonial"
	"lendingapi/internal/user"
)

func main() {
	_ = godotenv.Load(".env.local")

	app := &cli.App{
		Name:  "seed",
		Usage: "seed the lending database with an admin account and site content",
		Commands: []*cli.Command{
			{
				Name:  "admin",
				Usage: "create the admin account or reset its password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, EnvVars: []string{"SEED_ADMIN_EMAIL"}},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SEED_ADMIN_PASSWORD"}},
				},
				Action: seedAdmin,
			},
			{
				Name:  "content",
				Usage: "load news articles, testimonials and partners from a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Value: "db/fixtures/content.yaml"},
				},
				Action: seedContent,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func openPool(ctx context.Context) (*pgxpool.Pool, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return pool, cfg, nil
}

func seedAdmin(c *cli.Context) error {
	password := c.String("password")
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	pool, cfg, err := openPool(c.Context)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := user.NewService(user.NewPostgresRepo(pool, cfg.DBTimeout()))
	u, err := users.EnsureAdmin(c.Context, c.String("email"), c.String("name"), hash)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	log.Printf("seed admin id=%s email=%s", u.ID, u.Email)
	return nil
}

func seedContent(c *cli.Context) error {
	content, err := LoadContent(c.String("file"))
	if err != nil {
		return err
	}

	pool, cfg, err := openPool(c.Context)
	if err != nil {
		return err
	}
	defer pool.Close()

	timeout := cfg.DBTimeout()
	s := contentSeeder{
		news:         news.NewService(news.NewPostgresRepo(pool, timeout)),
		testimonials: testimonial.NewService(testimonial.NewPostgresRepo(pool, timeout)),
		partners:     partner.NewService(partner.NewPostgresRepo(pool, timeout)),
	}

	start := time.Now()
	n, err := s.seed(c.Context, content)
	if err != nil {
		return err
	}
	log.Printf("seed content file=%s records=%d duration=%s", c.String("file"), n, time.Since(start))
	return nil
}
