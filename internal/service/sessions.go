package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/ledger"
)

// Sessions owns one ledger per signed-in session. A ledger is created and
// starts loading on sign-in and is closed on sign-out.
type Sessions struct {
	gateway     ledger.Gateway
	ledgerOpts  []ledger.Option
	loadTimeout time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
	loading sync.WaitGroup
}

// NewSessions creates an empty registry. ledgerOpts are applied to every
// ledger it creates.
func NewSessions(gateway ledger.Gateway, loadTimeout time.Duration, logger *slog.Logger, ledgerOpts ...ledger.Option) *Sessions {
	return &Sessions{
		gateway:     gateway,
		ledgerOpts:  append([]ledger.Option{ledger.WithLogger(logger)}, ledgerOpts...),
		loadTimeout: loadTimeout,
		logger:      logger,
		ledgers:     make(map[string]*ledger.Ledger),
	}
}

// Attach subscribes the registry to the guard's session events.
func (s *Sessions) Attach(guard *auth.Guard) (detach func()) {
	return guard.Subscribe(s.handle)
}

func (s *Sessions) handle(ev auth.Event) {
	switch ev.Type {
	case auth.SignedIn:
		l := s.Get(ev.SessionID)
		s.loading.Add(1)
		go func() {
			defer s.loading.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.loadTimeout)
			defer cancel()
			if err := l.EnsureLoaded(ctx); err != nil {
				// The next dashboard call retries the load.
				s.logger.Warn("Initial ledger load failed", "session_id", ev.SessionID, "error", err)
			}
		}()
	case auth.SignedOut:
		s.Drop(ev.SessionID)
	}
}

// Get returns the session's ledger, creating an unloaded one if needed.
// Sessions that outlive a server restart get a fresh ledger this way.
func (s *Sessions) Get(sessionID string) *ledger.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[sessionID]
	if !ok {
		l = ledger.New(s.gateway, s.ledgerOpts...)
		s.ledgers[sessionID] = l
	}
	return l
}

// Load returns the session's ledger once it has loaded, bounded by the
// load timeout.
func (s *Sessions) Load(ctx context.Context, sessionID string) (*ledger.Ledger, error) {
	l := s.Get(sessionID)
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()
	if err := l.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Drop closes and forgets the session's ledger.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	l, ok := s.ledgers[sessionID]
	delete(s.ledgers, sessionID)
	s.mu.Unlock()

	if ok {
		l.Close()
		s.logger.Info("Session ledger closed", "session_id", sessionID)
	}
}

// Len returns the number of open session ledgers.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledgers)
}

// Close waits for background loads and closes every ledger.
func (s *Sessions) Close() {
	s.loading.Wait()

	s.mu.Lock()
	ledgers := s.ledgers
	s.ledgers = make(map[string]*ledger.Ledger)
	s.mu.Unlock()

	for _, l := range ledgers {
		l.Close()
	}
}
