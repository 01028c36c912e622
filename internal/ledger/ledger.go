// Package ledger holds one session's view of every client and its invoices.
//
// The Ledger mirrors the remote client collection. It loads everything up
// front, reconciles stored statuses against the calendar, answers queries
// from memory and is the only writer back to the store. Every mutation
// replaces the affected client's whole invoice list in one write and only
// touches memory once that write succeeds.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/mmynk/telecomsupply/internal/calculator"
	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/status"
)

var (
	// ErrNotLoaded is returned by queries and mutations before a successful Load.
	ErrNotLoaded = errors.New("ledger not loaded")
	// ErrClientNotFound is returned when a mutation names an unknown client.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvoiceNotFound is returned by UpdateInvoice and FindInvoice.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrBusy is returned when a mutation for the same client is still in flight.
	ErrBusy = errors.New("another change to this client is still being saved")
	// ErrInvalidFilter is returned for an unknown invoice filter.
	ErrInvalidFilter = errors.New("invalid invoice filter")
	// ErrClosed is returned by loads and mutations after Close.
	ErrClosed = errors.New("ledger closed")
)

// Gateway is the slice of the document store the ledger needs.
type Gateway interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ReplaceInvoices(ctx context.Context, clientID string, invoices []models.Invoice) error
}

// Entry pairs an invoice with its owning client for flattened views.
type Entry struct {
	Client  models.Client
	Invoice models.Invoice
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the wall clock used for status decisions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the time zone whose calendar decides "today".
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithReconcileWrites controls whether Load writes corrected statuses back.
// When disabled, statuses are still derived on every read.
func WithReconcileWrites(enabled bool) Option {
	return func(l *Ledger) { l.persistReconciled = enabled }
}

// Ledger is safe for concurrent use.
type Ledger struct {
	gateway           Gateway
	now               func() time.Time
	loc               *time.Location
	logger            *slog.Logger
	persistReconciled bool

	loadMu sync.Mutex // serializes loads

	mu       sync.RWMutex
	clients  []models.Client
	loaded   bool
	closed   bool
	inFlight map[string]bool
	gen      map[string]uint64 // bumped by every saved mutation
}

// New creates an empty ledger. Call Load before using it.
func New(gateway Gateway, opts ...Option) *Ledger {
	l := &Ledger{
		gateway:           gateway,
		now:               time.Now,
		loc:               time.Local,
		logger:            slog.Default(),
		persistReconciled: true,
		inFlight:          make(map[string]bool),
		gen:               make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the ledger's current calendar date.
func (l *Ledger) Today() models.Date {
	return status.Today(l.now(), l.loc)
}

// Load fetches every client, reconciles stored statuses and replaces the
// in-memory state. Each client with corrected statuses gets exactly one
// write. A client that a mutation saves while the load is running keeps
// the mutated list and gets no reconcile write. If the fetch fails the
// previous state is kept and the error wraps the store's error.
func (l *Ledger) Load(ctx context.Context) ([]models.Client, error) {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	return l.load(ctx)
}

// EnsureLoaded loads the ledger unless a previous load succeeded.
func (l *Ledger) EnsureLoaded(ctx context.Context) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := l.load(ctx)
	return err
}

func (l *Ledger) load(ctx context.Context) ([]models.Client, error) {
	start := time.Now()

	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return nil, ErrClosed
	}
	seen := maps.Clone(l.gen)
	l.mu.RUnlock()

	clients, err := l.gateway.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	today := l.Today()
	corrected, writes, skipped := 0, 0, 0
	for i := range clients {
		changed := status.Reconcile(clients[i].Invoices, today)
		if changed == 0 {
			continue
		}
		corrected += changed
		if !l.persistReconciled {
			continue
		}
		id := clients[i].ID
		if !l.claim(id, seen[id]) {
			// A mutation holds or has saved this client since the fetch; its list wins.
			skipped++
			continue
		}
		err := l.gateway.ReplaceInvoices(ctx, id, models.CloneInvoices(clients[i].Invoices))
		l.release(id)
		if err != nil {
			// The corrected status is still derived on read; the next load retries.
			l.logger.Warn("Failed to persist reconciled statuses",
				"client_id", id,
				"invoices", changed,
				"error", err,
			)
			continue
		}
		writes++
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	for i := range clients {
		id := clients[i].ID
		if !l.inFlight[id] && l.gen[id] == seen[id] {
			continue
		}
		if j := l.indexOfClient(id); j >= 0 {
			clients[i] = l.clients[j].Clone()
		}
	}
	l.clients = clients
	l.loaded = true
	out := cloneClients(clients)
	l.mu.Unlock()

	l.logger.Info("Ledger loaded",
		"clients", len(clients),
		"reconciled_invoices", corrected,
		"reconcile_writes", writes,
		"reconcile_skipped", skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return out, nil
}

// claim takes the client's in-flight gate for a reconcile write, unless a
// mutation holds it or has saved since generation gen was observed.
func (l *Ledger) claim(clientID string, gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.inFlight[clientID] || l.gen[clientID] != gen {
		return false
	}
	l.inFlight[clientID] = true
	return true
}

func (l *Ledger) release(clientID string) {
	l.mu.Lock()
	delete(l.inFlight, clientID)
	l.mu.Unlock()
}

// Loaded reports whether a load has succeeded.
func (l *Ledger) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Close detaches the ledger from its session. Writes that complete after
// Close do not update memory.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.clients = nil
	l.loaded = false
}

// Clients returns a copy of every client in load order.
func (l *Ledger) Clients() ([]models.Client, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, ErrNotLoaded
	}
	return cloneClients(l.clients), nil
}

// Search returns clients whose name, email or category contains term,
// ignoring case. The term is matched as given, surrounding spaces included.
// An empty term matches every client. Order is preserved.
func (l *Ledger) Search(term string) ([]models.Client, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, ErrNotLoaded
	}

	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]models.Client, 0, len(l.clients))
	for _, c := range l.clients {
		if needle == "" ||
			strings.Contains(fold.String(c.Name), needle) ||
			strings.Contains(fold.String(c.Email), needle) ||
			strings.Contains(fold.String(c.Category), needle) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// FilterInvoices flattens every client's invoices, keeping those whose
// effective status matches filter. Clients keep load order and invoices
// keep stored order.
func (l *Ledger) FilterInvoices(filter Filter) ([]Entry, error) {
	if !filter.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, string(filter))
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, ErrNotLoaded
	}

	today := l.Today()
	var out []Entry
	for _, c := range l.clients {
		for _, inv := range c.Invoices {
			if filter.matches(status.Effective(inv, today)) {
				out = append(out, Entry{Client: c.Clone(), Invoice: cloneInvoice(inv)})
			}
		}
	}
	return out, nil
}

// FindInvoice looks an invoice up across all clients.
func (l *Ledger) FindInvoice(invoiceID string) (models.Client, models.Invoice, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return models.Client{}, models.Invoice{}, ErrNotLoaded
	}
	for _, c := range l.clients {
		for _, inv := range c.Invoices {
			if inv.ID == invoiceID {
				return c.Clone(), cloneInvoice(inv), nil
			}
		}
	}
	return models.Client{}, models.Invoice{}, fmt.Errorf("invoice %s: %w", invoiceID, ErrInvoiceNotFound)
}

// Aggregate recomputes dashboard statistics from the current state.
func (l *Ledger) Aggregate() (calculator.Stats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return calculator.Stats{}, ErrNotLoaded
	}
	return calculator.CalculateStats(l.clients, l.Today()), nil
}

// EffectiveStatus is status.Effective evaluated on the ledger's clock.
func (l *Ledger) EffectiveStatus(inv models.Invoice) models.Status {
	return status.Effective(inv, l.Today())
}

// AddInvoice validates the draft, appends a new due-soon invoice to the
// client's list and persists the whole list.
func (l *Ledger) AddInvoice(ctx context.Context, clientID string, draft Draft) (models.Invoice, error) {
	var created models.Invoice
	err := l.mutate(ctx, clientID, func(client models.Client) ([]models.Invoice, error) {
		if draft.ClientName == "" {
			draft.ClientName = client.Name
		}
		if err := draft.Validate(); err != nil {
			return nil, err
		}

		created = models.Invoice{
			ID:         uuid.New().String(),
			ClientID:   client.ID,
			ClientName: draft.ClientName,
			Concept:    draft.Concept,
			Amount:     draft.Amount,
			DueDate:    draft.DueDate,
			Status:     models.StatusDueSoon,
			Category:   draft.Category,
		}
		return append(client.Invoices, created), nil
	})
	if err != nil {
		return models.Invoice{}, err
	}

	l.logger.Info("Invoice created", "client_id", clientID, "invoice_id", created.ID)
	return created, nil
}

// UpdateInvoice replaces every editable field of an existing invoice and
// persists the whole list. Returns ErrInvoiceNotFound without writing when
// the invoice is absent.
func (l *Ledger) UpdateInvoice(ctx context.Context, clientID, invoiceID string, draft Draft) (models.Invoice, error) {
	var updated models.Invoice
	err := l.mutate(ctx, clientID, func(client models.Client) ([]models.Invoice, error) {
		idx := indexOf(client.Invoices, invoiceID)
		if idx < 0 {
			return nil, fmt.Errorf("invoice %s: %w", invoiceID, ErrInvoiceNotFound)
		}
		if draft.ClientName == "" {
			draft.ClientName = client.Name
		}
		if err := draft.Validate(); err != nil {
			return nil, err
		}

		current := client.Invoices[idx]
		updated = models.Invoice{
			ID:         current.ID,
			ClientID:   client.ID,
			ClientName: draft.ClientName,
			Concept:    draft.Concept,
			Amount:     draft.Amount,
			DueDate:    draft.DueDate,
			Status:     current.Status,
			PaidDate:   current.PaidDate,
			Category:   draft.Category,
		}
		switch {
		case draft.Status == models.StatusPaid:
			updated.Status = models.StatusPaid
			if draft.PaidDate != nil && !draft.PaidDate.IsZero() {
				paid := *draft.PaidDate
				updated.PaidDate = &paid
			} else if updated.PaidDate == nil {
				today := l.Today()
				updated.PaidDate = &today
			}
		case draft.Status != "":
			updated.Status = draft.Status
			updated.PaidDate = nil
		}

		client.Invoices[idx] = updated
		return client.Invoices, nil
	})
	if err != nil {
		return models.Invoice{}, err
	}

	l.logger.Info("Invoice updated", "client_id", clientID, "invoice_id", invoiceID)
	return updated, nil
}

// DeleteInvoice removes an invoice and persists the remaining list.
// Deleting an absent invoice succeeds without writing.
func (l *Ledger) DeleteInvoice(ctx context.Context, clientID, invoiceID string) error {
	err := l.mutate(ctx, clientID, func(client models.Client) ([]models.Invoice, error) {
		idx := indexOf(client.Invoices, invoiceID)
		if idx < 0 {
			return nil, errNoChange
		}
		return append(client.Invoices[:idx], client.Invoices[idx+1:]...), nil
	})
	if errors.Is(err, errNoChange) {
		l.logger.Debug("Invoice already absent", "client_id", clientID, "invoice_id", invoiceID)
		return nil
	}
	if err != nil {
		return err
	}

	l.logger.Info("Invoice deleted", "client_id", clientID, "invoice_id", invoiceID)
	return nil
}

// errNoChange lets a mutation skip the write.
var errNoChange = errors.New("no change")

// mutate runs change on a private copy of the client, writes the returned
// list and swaps it into memory. Only one mutation per client may be in
// flight at a time.
func (l *Ledger) mutate(ctx context.Context, clientID string, change func(models.Client) ([]models.Invoice, error)) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if !l.loaded {
		l.mu.Unlock()
		return ErrNotLoaded
	}
	idx := l.indexOfClient(clientID)
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("client %s: %w", clientID, ErrClientNotFound)
	}
	if l.inFlight[clientID] {
		l.mu.Unlock()
		return ErrBusy
	}
	l.inFlight[clientID] = true
	client := l.clients[idx].Clone()
	l.mu.Unlock()

	defer l.release(clientID)

	invoices, err := change(client)
	if err != nil {
		return err
	}

	if err := l.gateway.ReplaceInvoices(ctx, clientID, invoices); err != nil {
		return fmt.Errorf("failed to save invoices of client %s: %w", clientID, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen[clientID]++
	if l.closed {
		return nil
	}
	// A concurrent reload may have moved the client.
	if idx := l.indexOfClient(clientID); idx >= 0 {
		l.clients[idx].Invoices = models.CloneInvoices(invoices)
	}
	return nil
}

func (l *Ledger) indexOfClient(clientID string) int {
	for i := range l.clients {
		if l.clients[i].ID == clientID {
			return i
		}
	}
	return -1
}

func indexOf(invoices []models.Invoice, invoiceID string) int {
	for i := range invoices {
		if invoices[i].ID == invoiceID {
			return i
		}
	}
	return -1
}

func cloneClients(in []models.Client) []models.Client {
	out := make([]models.Client, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneInvoice(inv models.Invoice) models.Invoice {
	return models.CloneInvoices([]models.Invoice{inv})[0]
}
