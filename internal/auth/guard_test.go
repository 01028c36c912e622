package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/telecomsupply/internal/models"
)

// memoryUsers is a UserStorage backed by a map.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func newTestGuard(t *testing.T, opts ...GuardOption) (*Guard, *memoryUsers) {
	t.Helper()
	users := newMemoryUsers()
	hash, err := HashPassword("telecom2024")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	users.CreateUser(context.Background(), models.NewUser("admin@telecomsupply.com", "Admin", hash))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := NewGuard(NewPasswordAuthenticator(users), NewJWTManager("test-secret", time.Hour), logger, opts...)
	return guard, users
}

func TestGuard_SignIn(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	var events []Event
	unsubscribe := guard.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	session, err := guard.SignIn(ctx, "  Admin@TelecomSupply.com ", "telecom2024")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if session.Token == "" || session.User.Email != "admin@telecomsupply.com" {
		t.Errorf("unexpected session: %+v", session)
	}

	if len(events) != 1 || events[0].Type != SignedIn || events[0].SessionID != session.Claims.SessionID() {
		t.Errorf("unexpected events: %+v", events)
	}

	claims, err := guard.Verify(ctx, session.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, session.User.ID)
	}
}

func TestGuard_SignInRejectsBadCredentials(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	fired := false
	guard.Subscribe(func(Event) { fired = true })

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "admin@telecomsupply.com", "nope-nope"},
		{"unknown email", "ghost@telecomsupply.com", "telecom2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := guard.SignIn(ctx, tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
	if fired {
		t.Error("failed sign-ins must not publish events")
	}
}

func TestGuard_SignOut(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	var events []Event
	guard.Subscribe(func(ev Event) { events = append(events, ev) })

	session, err := guard.SignIn(ctx, "admin@telecomsupply.com", "telecom2024")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := guard.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	if len(events) != 2 || events[1].Type != SignedOut || events[1].SessionID != events[0].SessionID {
		t.Errorf("unexpected events: %+v", events)
	}

	if _, err := guard.Verify(ctx, session.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("expected ErrSessionRevoked, got %v", err)
	}
	if err := guard.SignOut(ctx, session.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("second SignOut should fail with ErrSessionRevoked, got %v", err)
	}

	// A new sign-in gets a new, valid session.
	again, err := guard.SignIn(ctx, "admin@telecomsupply.com", "telecom2024")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if again.Claims.SessionID() == session.Claims.SessionID() {
		t.Error("expected a fresh session ID")
	}
	if _, err := guard.Verify(ctx, again.Token); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestGuard_Verify(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	if _, err := guard.Verify(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
	if _, err := guard.Verify(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	other := NewJWTManager("another-secret", time.Hour)
	forged, _, err := other.Generate(&models.User{ID: "u1", Email: "x@y.z"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := guard.Verify(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	stale, _, err := expired.Generate(&models.User{ID: "u1", Email: "x@y.z"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := guard.Verify(ctx, stale); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGuard_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled by default", func(t *testing.T) {
		guard, _ := newTestGuard(t)
		if _, err := guard.Register(ctx, "new@telecomsupply.com", "New", "password123"); !errors.Is(err, ErrRegistrationDisabled) {
			t.Errorf("expected ErrRegistrationDisabled, got %v", err)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		guard, users := newTestGuard(t, WithRegistration(true))

		session, err := guard.Register(ctx, "New@TelecomSupply.com", "Nuevo", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if session.User.Email != "new@telecomsupply.com" {
			t.Errorf("email not normalized: %s", session.User.Email)
		}
		if stored, _ := users.GetUserByID(ctx, session.User.ID); stored == nil {
			t.Error("user not stored")
		}

		if _, err := guard.Register(ctx, "new@telecomsupply.com", "Again", "password123"); !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
		if _, err := guard.Register(ctx, "short@telecomsupply.com", "Short", "1234"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})
}

func TestGuard_CurrentUser(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	session, err := guard.SignIn(ctx, "admin@telecomsupply.com", "telecom2024")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	user, err := guard.CurrentUser(ctx, session.Token)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.DisplayName != "Admin" {
		t.Errorf("DisplayName = %s", user.DisplayName)
	}
}

func TestGuard_Unsubscribe(t *testing.T) {
	guard, _ := newTestGuard(t)

	count := 0
	unsubscribe := guard.Subscribe(func(Event) { count++ })
	unsubscribe()
	unsubscribe()

	if _, err := guard.SignIn(context.Background(), "admin@telecomsupply.com", "telecom2024"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if count != 0 {
		t.Errorf("unsubscribed handler called %d times", count)
	}
}
