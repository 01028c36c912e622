package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/telecomsupply/internal/models"
)

var (
	ErrSessionRevoked       = errors.New("session has been signed out")
	ErrRegistrationDisabled = errors.New("registration is disabled")
)

// EventType distinguishes session lifecycle events.
type EventType int

const (
	SignedIn EventType = iota + 1
	SignedOut
)

func (t EventType) String() string {
	switch t {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Event is delivered to subscribers on every sign-in and sign-out.
type Event struct {
	Type      EventType
	SessionID string
	UserID    string
	Email     string
}

// Session is an authenticated user with their bearer token.
type Session struct {
	Token  string
	User   *models.User
	Claims *Claims
}

// Guard gates the dashboard behind an authenticated session.
type Guard struct {
	authenticator     Authenticator
	jwt               *JWTManager
	revoker           Revoker
	allowRegistration bool
	logger            *slog.Logger

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(Event)
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRegistration enables or disables self-service registration.
func WithRegistration(enabled bool) GuardOption {
	return func(g *Guard) { g.allowRegistration = enabled }
}

// WithRevoker replaces the default in-memory revoker.
func WithRevoker(r Revoker) GuardOption {
	return func(g *Guard) { g.revoker = r }
}

// NewGuard creates a Guard.
func NewGuard(authenticator Authenticator, jwtManager *JWTManager, logger *slog.Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		authenticator: authenticator,
		jwt:           jwtManager,
		revoker:       NewMemoryRevoker(),
		logger:        logger,
		subscribers:   make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Subscribe registers fn for session events and returns a function that
// removes it. fn runs synchronously on the signing goroutine.
func (g *Guard) Subscribe(fn func(Event)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextSubID
	g.nextSubID++
	g.subscribers[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subscribers, id)
			g.mu.Unlock()
		})
	}
}

func (g *Guard) publish(ev Event) {
	g.mu.Lock()
	fns := make([]func(Event), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SignIn checks the credentials and opens a new session.
func (g *Guard) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := g.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return g.open(user)
}

// Register creates an account and signs it in.
func (g *Guard) Register(ctx context.Context, email, displayName, password string) (*Session, error) {
	if !g.allowRegistration {
		return nil, ErrRegistrationDisabled
	}
	user, err := g.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, err
	}
	return g.open(user)
}

func (g *Guard) open(user *models.User) (*Session, error) {
	token, claims, err := g.jwt.Generate(user)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Session opened", "user_id", user.ID, "session_id", claims.SessionID())
	g.publish(Event{Type: SignedIn, SessionID: claims.SessionID(), UserID: user.ID, Email: user.Email})

	return &Session{Token: token, User: user, Claims: claims}, nil
}

// Verify returns the claims of a live session token.
func (g *Guard) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := g.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := g.revoker.IsRevoked(ctx, claims.SessionID())
	if err != nil {
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// CurrentUser returns the account behind a live session token.
func (g *Guard) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := g.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return g.authenticator.Lookup(ctx, claims.UserID)
}

// SignOut revokes the session behind token. Signing out an already
// revoked session is an error so callers can tell the token was stale.
func (g *Guard) SignOut(ctx context.Context, token string) error {
	claims, err := g.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := g.revoker.Revoke(ctx, claims.SessionID(), claims.Remaining(time.Now())); err != nil {
		return err
	}

	g.logger.Info("Session closed", "user_id", claims.UserID, "session_id", claims.SessionID())
	g.publish(Event{Type: SignedOut, SessionID: claims.SessionID(), UserID: claims.UserID, Email: claims.Email})
	return nil
}
