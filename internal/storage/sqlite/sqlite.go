// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// Each client is one row. Its invoices are kept as a JSON document in the
// invoices column so a client record can be read and replaced as a unit,
// the same way a document database would hold it.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithDB wraps an already-migrated database handle.
func NewWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// unavailable marks a database failure as retryable.
func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, storage.ErrUnavailable, err)
}

// ListClients returns every client in insertion order.
func (s *SQLiteStore) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, phone, category, invoices FROM clients ORDER BY rowid",
	)
	if err != nil {
		return nil, unavailable("list clients", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		var invoicesJSON string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Category, &invoicesJSON); err != nil {
			return nil, unavailable("scan client", err)
		}
		if err := json.Unmarshal([]byte(invoicesJSON), &c.Invoices); err != nil {
			return nil, fmt.Errorf("failed to decode invoices of client %s: %w", c.ID, err)
		}
		if c.Invoices == nil {
			c.Invoices = []models.Invoice{}
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate clients", err)
	}

	return clients, nil
}

// ReplaceInvoices overwrites the client's invoice document in one UPDATE.
func (s *SQLiteStore) ReplaceInvoices(ctx context.Context, clientID string, invoices []models.Invoice) error {
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	data, err := json.Marshal(invoices)
	if err != nil {
		return fmt.Errorf("failed to encode invoices: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE clients SET invoices = ?, updated_at = ? WHERE id = ?",
		string(data), time.Now().Unix(), clientID,
	)
	if err != nil {
		return unavailable("replace invoices", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("replace invoices", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", clientID, storage.ErrNotFound)
	}

	return nil
}

// UpsertClient inserts the client or replaces every field of an existing one.
func (s *SQLiteStore) UpsertClient(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.Invoices == nil {
		client.Invoices = []models.Invoice{}
	}
	data, err := json.Marshal(client.Invoices)
	if err != nil {
		return fmt.Errorf("failed to encode invoices: %w", err)
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, phone, category, invoices, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			category = excluded.category,
			invoices = excluded.invoices,
			updated_at = excluded.updated_at
	`,
		client.ID, client.Name, client.Email, client.Phone, client.Category, string(data), now, now,
	)
	if err != nil {
		return unavailable("upsert client", err)
	}

	return nil
}
