package main

import (
	"context"
	"flag"
	"log"
	"time"

	"pluxo-backend/internal/config"
	pg "pluxo-backend/internal/infra/db/postgres"
)

// This script creates the database schema for a fresh deployment and can
// optionally wipe existing data for a clean end-to-end test run.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	wipe := flag.Bool("wipe", false, "truncate all tables after creating the schema")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	log.Println("creating schema...")
	_, err = pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS profiles (
    id          UUID PRIMARY KEY,
    email       TEXT NOT NULL UNIQUE,
    role        TEXT NOT NULL DEFAULT 'user',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payments (
    id               UUID PRIMARY KEY,
    user_id          UUID NOT NULL REFERENCES profiles(id),
    plan_type        TEXT NOT NULL,
    amount_cents     BIGINT NOT NULL,
    currency         TEXT NOT NULL,
    status           TEXT NOT NULL,
    duration_minutes INT NOT NULL,
    provider         TEXT NOT NULL,
    external_id      TEXT,
    external_ref     TEXT,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS payments_status_created_idx ON payments (status, created_at);
CREATE INDEX IF NOT EXISTS payments_user_idx ON payments (user_id);

CREATE TABLE IF NOT EXISTS vip_subscriptions (
    user_id    UUID PRIMARY KEY REFERENCES profiles(id),
    plan_type  TEXT NOT NULL,
    starts_at  TIMESTAMPTZ NOT NULL,
    ends_at    TIMESTAMPTZ NOT NULL,
    active     BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS vip_subscriptions_active_ends_idx ON vip_subscriptions (active, ends_at);
`)
	if err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	if *wipe {
		log.Println("wiping existing data...")
		_, err = pool.Exec(ctx, `TRUNCATE profiles, payments, vip_subscriptions RESTART IDENTITY CASCADE;`)
		if err != nil {
			log.Fatalf("failed to truncate tables: %v", err)
		}
	}

	log.Println("database setup complete")
}
