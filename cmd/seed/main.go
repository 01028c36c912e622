// Command seed loads clients and operator accounts from a YAML fixture
// into the dashboard's SQLite store.
//
//	seed --db ./data/telecomsupply.db --fixture cmd/seed/fixtures/demo.yaml
//
// Clients whose id already exists are left untouched unless --overwrite is
// given. Users whose email already exists are always skipped.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/storage"
	"github.com/mmynk/telecomsupply/internal/storage/sqlite"
	"github.com/mmynk/telecomsupply/pkg/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		dbPath      string
		fixturePath string
		overwrite   bool
	)
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&dbPath, "db", envOr("DB_PATH", "./data/telecomsupply.db"), "SQLite database path")
	flagSet.StringVarP(&fixturePath, "fixture", "f", "cmd/seed/fixtures/demo.yaml", "YAML fixture to load")
	flagSet.BoolVar(&overwrite, "overwrite", false, "replace clients that already exist")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	logging.Setup()

	file, err := os.Open(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to open fixture: %w", err)
	}
	defer file.Close()
	fixture, err := decodeFixture(file)
	if err != nil {
		return err
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	clients, err := seedClients(ctx, store, fixture.Clients, overwrite)
	if err != nil {
		return err
	}
	users, err := seedUsers(ctx, store, fixture.Users)
	if err != nil {
		return err
	}

	slog.Info("Seed complete", "database", dbPath, "clients", clients, "users", users)
	return nil
}

func seedClients(ctx context.Context, store storage.Store, clients []models.Client, overwrite bool) (int, error) {
	existing, err := store.ListClients(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.ID] = true
	}

	written := 0
	for i := range clients {
		c := &clients[i]
		if known[c.ID] && !overwrite {
			slog.Debug("Client already seeded", "client_id", c.ID, "name", c.Name)
			continue
		}
		if err := store.UpsertClient(ctx, c); err != nil {
			return written, fmt.Errorf("failed to seed client %s: %w", c.Name, err)
		}
		slog.Info("Client seeded", "client_id", c.ID, "name", c.Name, "invoices", len(c.Invoices))
		written++
	}
	return written, nil
}

func seedUsers(ctx context.Context, store storage.Store, users []FixtureUser) (int, error) {
	created := 0
	for _, u := range users {
		email := auth.NormalizeEmail(u.Email)
		found, err := store.GetUserByEmail(ctx, email)
		if err != nil {
			return created, err
		}
		if found != nil {
			slog.Debug("User already exists", "email", email)
			continue
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return created, fmt.Errorf("user %s: %w", email, err)
		}
		displayName := u.DisplayName
		if displayName == "" {
			displayName = email
		}
		if err := store.CreateUser(ctx, models.NewUser(email, displayName, hash)); err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", email, err)
		}
		slog.Info("User created", "email", email)
		created++
	}
	return created, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
