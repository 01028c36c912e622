package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mmynk/telecomsupply/internal/models"
)

// RetryPolicy bounds how often a failed store call is retried.
type RetryPolicy struct {
	// Attempts is the number of retries after the first call.
	Attempts uint64
	// Base is the first backoff delay; it doubles on each retry.
	Base time.Duration
	// Max caps any single delay. Zero means no cap.
	Max time.Duration
}

// DefaultRetryPolicy retries three times starting at 100ms.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Base: 100 * time.Millisecond, Max: 2 * time.Second}

func (p RetryPolicy) backoff() retry.Backoff {
	b := retry.NewExponential(p.Base)
	if p.Max > 0 {
		b = retry.WithCappedDuration(p.Max, b)
	}
	return retry.WithMaxRetries(p.Attempts, b)
}

// Retrying wraps a Store and retries ListClients and ReplaceInvoices when
// they fail with ErrUnavailable. Other errors are returned immediately.
//
// ReplaceInvoices is safe to retry because it overwrites the whole list.
type Retrying struct {
	Store
	policy RetryPolicy
}

// Ensure Retrying implements Store
var _ Store = (*Retrying)(nil)

// NewRetrying wraps store with the given policy.
func NewRetrying(store Store, policy RetryPolicy) *Retrying {
	return &Retrying{Store: store, policy: policy}
}

// ListClients retries transient list failures.
func (r *Retrying) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.do(ctx, "list_clients", func(ctx context.Context) error {
		var err error
		clients, err = r.Store.ListClients(ctx)
		return err
	})
	return clients, err
}

// ReplaceInvoices retries transient write failures.
func (r *Retrying) ReplaceInvoices(ctx context.Context, clientID string, invoices []models.Invoice) error {
	return r.do(ctx, "replace_invoices", func(ctx context.Context) error {
		return r.Store.ReplaceInvoices(ctx, clientID, invoices)
	})
}

func (r *Retrying) do(ctx context.Context, op string, f func(context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, r.policy.backoff(), func(ctx context.Context) error {
		attempt++
		err := f(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return err
		}
		slog.Warn("Store call failed, retrying", "op", op, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
}
