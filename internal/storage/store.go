// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/telecomsupply/internal/models"
)

var (
	// ErrUnavailable wraps any failure talking to the backing store.
	// Callers may retry operations that fail with it.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned when the addressed client record does not exist.
	ErrNotFound = errors.New("not found")
)

// Store defines the document store holding one record per client, each
// with its invoice list embedded.
// This abstraction allows swapping storage backends (SQLite, a hosted
// document database, etc.) without changing the ledger.
type Store interface {
	// ListClients returns every client record with its invoices, in a
	// stable order.
	ListClients(ctx context.Context) ([]models.Client, error)

	// ReplaceInvoices overwrites a client's entire invoice list in a single
	// write. Returns ErrNotFound if the client does not exist.
	ReplaceInvoices(ctx context.Context, clientID string, invoices []models.Invoice) error

	// UpsertClient creates or replaces a client record. Used for seeding;
	// the dashboard never edits clients. An empty ID is assigned by the store.
	UpsertClient(ctx context.Context, client *models.Client) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
