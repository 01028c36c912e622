package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/ledger"
	"github.com/mmynk/telecomsupply/internal/middleware"
	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/notify"
	"github.com/mmynk/telecomsupply/internal/storage"
	"github.com/mmynk/telecomsupply/internal/storage/sqlite"
	"github.com/mmynk/telecomsupply/pkg/api"
	"github.com/mmynk/telecomsupply/pkg/api/apiconnect"
)

const (
	testEmail    = "admin@telecomsupply.com"
	testPassword = "telecom2024"
)

type testEnv struct {
	auth      apiconnect.AuthServiceClient
	dashboard apiconnect.DashboardServiceClient
	sessions  *Sessions
	store     *sqlite.SQLiteStore
	url       string
}

func seedClients() []*models.Client {
	inv := func(id, concept, amount, due string, st models.Status) models.Invoice {
		return models.Invoice{
			ID: id, Concept: concept, Amount: decimal.RequireFromString(amount),
			DueDate: models.MustParseDate(due), Status: st, Category: models.CategoryFiber,
		}
	}
	paid := models.MustParseDate("2024-02-10")
	first := inv("i1", "Cables de Fibra Óptica - Lote #2024-001", "15500", "2024-02-15", models.StatusPaid)
	first.PaidDate = &paid

	return []*models.Client{
		{ID: "c1", Name: "Telecom Solutions S.A.", Email: "facturacion@telecomsolutions.com", Phone: "+1-555-0123", Category: models.ClientDistributor,
			Invoices: []models.Invoice{first, inv("i2", "Equipos de Transmisión", "28000", "2024-07-15", models.StatusDueSoon)}},
		{ID: "c2", Name: "Redes Moviles del Norte", Email: "compras@redesmoviles.com", Phone: "+1-555-0124", Category: models.ClientOperator,
			Invoices: []models.Invoice{inv("i3", "Antenas Sectoriales 4G/5G", "45000", "2024-01-20", models.StatusDueSoon)}},
		{ID: "c3", Name: "Infraestructura Digital Corp.", Email: "pagos@infradigital.com", Phone: "+1-555-0125", Category: models.ClientIntegrator},
		{ID: "c4", Name: "Conectividad Rural S.L.", Email: "admin@conectividadrural.com", Phone: "+1-555-0126", Category: models.ClientISP,
			Invoices: []models.Invoice{inv("i6", "Switches y Routers", "22000", "2024-02-20", models.StatusOverdue)}},
	}
}

// setupTestServer wires both services over a temp SQLite store, with the
// ledger clock fixed at 2024-03-01.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	for _, c := range seedClients() {
		if err := store.UpsertClient(ctx, c); err != nil {
			t.Fatalf("failed to seed client: %v", err)
		}
	}
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := store.CreateUser(ctx, models.NewUser(testEmail, "Admin", hash)); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	sessions := NewSessions(storage.NewRetrying(store, storage.DefaultRetryPolicy), 5*time.Second, logger,
		ledger.WithClock(clock), ledger.WithLocation(time.UTC))

	guard := auth.NewGuard(auth.NewPasswordAuthenticator(store), auth.NewJWTManager("test-secret-0123456789", time.Hour), logger)
	sessions.Attach(guard)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		NewAuthService(guard, logger),
		connect.WithInterceptors(middleware.OptionalAuth(guard)),
	)
	dashboard := NewDashboardService(sessions, notify.NewLogNotifier(logger), 5*time.Second, logger)
	dashboard.now = clock
	dashboardPath, dashboardHandler := apiconnect.NewDashboardServiceHandler(
		dashboard,
		connect.WithInterceptors(middleware.RequireAuth(guard)),
	)
	reports := NewReportHandler(sessions, logger)
	reports.now = clock

	mux := http.NewServeMux()
	mux.Handle(authPath, authHandler)
	mux.Handle(dashboardPath, dashboardHandler)
	mux.Handle("/reports/billing", middleware.RequireAuthHTTP(guard)(reports))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		sessions.Close()
		store.Close()
	})

	return &testEnv{
		auth:      apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		dashboard: apiconnect.NewDashboardServiceClient(http.DefaultClient, server.URL),
		sessions:  sessions,
		store:     store,
		url:       server.URL,
	}
}

func (e *testEnv) signIn(t *testing.T) string {
	t.Helper()
	resp, err := e.auth.SignIn(context.Background(), connect.NewRequest(&api.SignInRequest{
		Email:    testEmail,
		Password: testPassword,
	}))
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	return resp.Msg.Token
}

func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}

func TestLoad(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	resp, err := env.dashboard.Load(ctx, authed(token, &api.LoadRequest{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(resp.Msg.Clients) != 4 {
		t.Fatalf("expected 4 clients, got %d", len(resp.Msg.Clients))
	}
	if resp.Msg.Today != "2024-03-01" {
		t.Errorf("Today = %s", resp.Msg.Today)
	}
	stats := resp.Msg.Stats
	if stats.TotalInvoices != 4 || stats.Paid != 1 || stats.DueSoon != 1 || stats.Overdue != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if !stats.TotalAmount.Equal(decimal.NewFromInt(110500)) {
		t.Errorf("TotalAmount = %s", stats.TotalAmount)
	}

	redes := resp.Msg.Clients[1].Invoices[0]
	if redes.Status != "vencido" || redes.EffectiveStatus != "vencido" {
		t.Errorf("reconciled invoice = %+v", redes)
	}

	// Reconciliation was written back to the store.
	stored, err := env.store.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if stored[1].Invoices[0].Status != models.StatusOverdue {
		t.Errorf("stored status = %s, want vencido", stored[1].Invoices[0].Status)
	}
}

func TestDashboard_RequiresSession(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.dashboard.Load(ctx, connect.NewRequest(&api.LoadRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.dashboard.GetStats(ctx, authed("garbage", &api.GetStatsRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestSearchClients(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"c1", "c2", "c3", "c4"}},
		{"redes", []string{"c2"}},
		{"ISP", []string{"c4"}},
		{"INFRADIGITAL", []string{"c3"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			resp, err := env.dashboard.SearchClients(ctx, authed(token, &api.SearchClientsRequest{Term: tt.term}))
			if err != nil {
				t.Fatalf("SearchClients failed: %v", err)
			}
			if len(resp.Msg.Clients) != len(tt.want) {
				t.Fatalf("got %d clients, want %d", len(resp.Msg.Clients), len(tt.want))
			}
			for i, id := range tt.want {
				if resp.Msg.Clients[i].ID != id {
					t.Errorf("client[%d] = %s, want %s", i, resp.Msg.Clients[i].ID, id)
				}
			}
		})
	}
}

func TestListInvoices(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	resp, err := env.dashboard.ListInvoices(ctx, authed(token, &api.ListInvoicesRequest{Status: "vencido"}))
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(resp.Msg.Entries) != 2 {
		t.Fatalf("expected 2 overdue entries, got %d", len(resp.Msg.Entries))
	}
	if resp.Msg.Entries[0].ClientName != "Redes Moviles del Norte" || resp.Msg.Entries[1].Invoice.ID != "i6" {
		t.Errorf("unexpected entries: %+v, %+v", resp.Msg.Entries[0], resp.Msg.Entries[1])
	}

	all, err := env.dashboard.ListInvoices(ctx, authed(token, &api.ListInvoicesRequest{Status: "todos"}))
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(all.Msg.Entries) != 4 {
		t.Errorf("expected 4 entries, got %d", len(all.Msg.Entries))
	}

	_, err = env.dashboard.ListInvoices(ctx, authed(token, &api.ListInvoicesRequest{Status: "anulado"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestInvoiceLifecycle(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	created, err := env.dashboard.CreateInvoice(ctx, authed(token, &api.CreateInvoiceRequest{
		ClientID: "c3",
		Invoice: &api.InvoiceDraft{
			Concept:  "Kit RF",
			Amount:   decimal.NewFromInt(8500),
			DueDate:  "2025-01-01",
			Category: models.CategoryConnectors,
		},
	}))
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	inv := created.Msg.Invoice
	if inv.ID == "" || inv.Status != "por_vencer" || inv.ClientName != "Infraestructura Digital Corp." {
		t.Errorf("unexpected invoice: %+v", inv)
	}

	stored, _ := env.store.ListClients(ctx)
	if len(stored[2].Invoices) != 1 || stored[2].Invoices[0].ID != inv.ID {
		t.Fatalf("invoice not persisted: %+v", stored[2].Invoices)
	}

	t.Run("compose reminder", func(t *testing.T) {
		resp, err := env.dashboard.ComposeNotification(ctx, authed(token, &api.ComposeNotificationRequest{InvoiceID: inv.ID}))
		if err != nil {
			t.Fatalf("ComposeNotification failed: %v", err)
		}
		if !strings.Contains(resp.Msg.Message, `"Kit RF" por $8,500 tiene vencimiento el 2025-01-01`) {
			t.Errorf("unexpected message: %q", resp.Msg.Message)
		}
		if resp.Msg.ClientID != "c3" {
			t.Errorf("ClientID = %s", resp.Msg.ClientID)
		}
	})

	t.Run("mark paid", func(t *testing.T) {
		resp, err := env.dashboard.UpdateInvoice(ctx, authed(token, &api.UpdateInvoiceRequest{
			ClientID:  "c3",
			InvoiceID: inv.ID,
			Invoice: &api.InvoiceDraft{
				Concept: "Kit RF", Amount: decimal.NewFromInt(8500), DueDate: "2025-01-01",
				Status: "pagado", PaidDate: "2024-02-28",
			},
		}))
		if err != nil {
			t.Fatalf("UpdateInvoice failed: %v", err)
		}
		if resp.Msg.Invoice.Status != "pagado" || resp.Msg.Invoice.PaidDate != "2024-02-28" {
			t.Errorf("unexpected invoice: %+v", resp.Msg.Invoice)
		}
	})

	t.Run("delete twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if _, err := env.dashboard.DeleteInvoice(ctx, authed(token, &api.DeleteInvoiceRequest{ClientID: "c3", InvoiceID: inv.ID})); err != nil {
				t.Fatalf("DeleteInvoice #%d failed: %v", i+1, err)
			}
		}
		stats, err := env.dashboard.GetStats(ctx, authed(token, &api.GetStatsRequest{}))
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.Msg.Stats.TotalInvoices != 4 {
			t.Errorf("TotalInvoices = %d, want 4", stats.Msg.Stats.TotalInvoices)
		}
	})
}

func TestInvoiceErrors(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	valid := func() *api.InvoiceDraft {
		return &api.InvoiceDraft{Concept: "Kit RF", Amount: decimal.NewFromInt(1), DueDate: "2025-01-01"}
	}

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{"zero amount", func() error {
			d := valid()
			d.Amount = decimal.Zero
			_, err := env.dashboard.CreateInvoice(ctx, authed(token, &api.CreateInvoiceRequest{ClientID: "c1", Invoice: d}))
			return err
		}, connect.CodeInvalidArgument},
		{"bad date", func() error {
			d := valid()
			d.DueDate = "01/01/2025"
			_, err := env.dashboard.CreateInvoice(ctx, authed(token, &api.CreateInvoiceRequest{ClientID: "c1", Invoice: d}))
			return err
		}, connect.CodeInvalidArgument},
		{"missing draft", func() error {
			_, err := env.dashboard.CreateInvoice(ctx, authed(token, &api.CreateInvoiceRequest{ClientID: "c1"}))
			return err
		}, connect.CodeInvalidArgument},
		{"unknown client", func() error {
			_, err := env.dashboard.CreateInvoice(ctx, authed(token, &api.CreateInvoiceRequest{ClientID: "nope", Invoice: valid()}))
			return err
		}, connect.CodeNotFound},
		{"update missing invoice", func() error {
			_, err := env.dashboard.UpdateInvoice(ctx, authed(token, &api.UpdateInvoiceRequest{ClientID: "c1", InvoiceID: "ghost", Invoice: valid()}))
			return err
		}, connect.CodeNotFound},
		{"compose missing invoice", func() error {
			_, err := env.dashboard.ComposeNotification(ctx, authed(token, &api.ComposeNotificationRequest{InvoiceID: "ghost"}))
			return err
		}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.code)
		})
	}

	// None of the failures touched the store.
	stored, _ := env.store.ListClients(ctx)
	if len(stored[0].Invoices) != 2 {
		t.Errorf("client c1 changed: %+v", stored[0].Invoices)
	}
}

func TestSendNotification(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	resp, err := env.dashboard.SendNotification(ctx, authed(token, &api.SendNotificationRequest{
		ClientID: "c2",
		Message:  "Estimados Redes Moviles del Norte, ...",
		Channels: []string{"WhatsApp", "email", "WhatsApp"},
	}))
	if err != nil {
		t.Fatalf("SendNotification failed: %v", err)
	}
	if got := strings.Join(resp.Msg.ChannelsAttempted, ","); got != "Email,WhatsApp" {
		t.Errorf("ChannelsAttempted = %s", got)
	}

	_, err = env.dashboard.SendNotification(ctx, authed(token, &api.SendNotificationRequest{ClientID: "c2", Message: "hola"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.dashboard.SendNotification(ctx, authed(token, &api.SendNotificationRequest{ClientID: "c2", Message: "hola", Channels: []string{"Fax"}}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.dashboard.SendNotification(ctx, authed(token, &api.SendNotificationRequest{ClientID: "nope", Message: "hola", Channels: []string{"SMS"}}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGenerateReport(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)

	resp, err := env.dashboard.GenerateReport(context.Background(), authed(token, &api.GenerateReportRequest{}))
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	r := resp.Msg.Report
	if r.Date != "2024-03-01" || r.TotalClients != 4 || r.Overdue != 2 || len(r.Details) != 4 {
		t.Errorf("unexpected report: %+v", r)
	}
	if !r.Details[0].TotalAmount.Equal(decimal.NewFromInt(43500)) {
		t.Errorf("first detail amount = %s", r.Details[0].TotalAmount)
	}
}

func TestReportDownload(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)

	get := func(query, bearer string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, env.url+"/reports/billing"+query, nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := get("?format=csv", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "reporte_facturacion_2024-03-01.csv") {
		t.Errorf("Content-Disposition = %q", resp.Header.Get("Content-Disposition"))
	}
	body, _ := io.ReadAll(resp.Body)
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(body), "\ufeff"))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected header + 4 rows, got %d", len(records))
	}

	if resp := get("", token); resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("default format Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if resp := get("?format=pdf", token); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("pdf status = %d, want 400", resp.StatusCode)
	}
	if resp := get("?format=csv", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", resp.StatusCode)
	}
}

func TestSignOutClosesSession(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	if _, err := env.dashboard.Load(ctx, authed(token, &api.LoadRequest{})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if env.sessions.Len() != 1 {
		t.Fatalf("expected 1 session ledger, got %d", env.sessions.Len())
	}

	if _, err := env.auth.SignOut(ctx, authed(token, &api.SignOutRequest{})); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if env.sessions.Len() != 0 {
		t.Errorf("expected session ledger to be dropped, got %d", env.sessions.Len())
	}

	_, err := env.dashboard.Load(ctx, authed(token, &api.LoadRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestAuthService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: testEmail, Password: "wrong-password"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: "", Password: "x"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "new@telecomsupply.com", DisplayName: "New", Password: "password123"}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	token := env.signIn(t)
	me, err := env.auth.GetCurrentUser(ctx, authed(token, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.Email != testEmail || me.Msg.User.DisplayName != "Admin" {
		t.Errorf("unexpected user: %+v", me.Msg.User)
	}
}

// failingGateway always reports the store as unreachable.
type failingGateway struct{}

func (failingGateway) ListClients(context.Context) ([]models.Client, error) {
	return nil, fmt.Errorf("dial tcp: connection refused: %w", storage.ErrUnavailable)
}

func (failingGateway) ReplaceInvoices(context.Context, string, []models.Invoice) error {
	return storage.ErrUnavailable
}

func TestSessions_LoadFailureIsUnavailable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := NewSessions(failingGateway{}, time.Second, logger)
	defer sessions.Close()

	_, err := sessions.Load(context.Background(), "s1")
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if codeOf(err) != connect.CodeUnavailable {
		t.Errorf("code = %v, want unavailable", codeOf(err))
	}
}

func TestSessions_DroppedLedgerIsUnauthenticated(t *testing.T) {
	env := setupTestServer(t)
	token := env.signIn(t)
	ctx := context.Background()

	if _, err := env.dashboard.Load(ctx, authed(token, &api.LoadRequest{})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var sessionID string
	env.sessions.mu.Lock()
	for id := range env.sessions.ledgers {
		sessionID = id
	}
	env.sessions.mu.Unlock()

	// A request that fetched the ledger just before sign-out.
	l := env.sessions.Get(sessionID)
	env.sessions.Drop(sessionID)

	err := l.EnsureLoaded(ctx)
	if !errors.Is(err, ledger.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if got := connectError(err).Code(); got != connect.CodeUnauthenticated {
		t.Errorf("code = %v, want unauthenticated", got)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{auth.ErrSessionRevoked, connect.CodeUnauthenticated},
		{&ledger.ValidationError{Fields: []string{"amount"}}, connect.CodeInvalidArgument},
		{fmt.Errorf("wrapped: %w", ledger.ErrInvoiceNotFound), connect.CodeNotFound},
		{ledger.ErrBusy, connect.CodeAborted},
		{fmt.Errorf("failed to load: %w", ledger.ErrClosed), connect.CodeUnauthenticated},
		{fmt.Errorf("failed to save: %w", storage.ErrUnavailable), connect.CodeUnavailable},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{notify.ErrNoChannels, connect.CodeInvalidArgument},
		{errors.New("boom"), connect.CodeInternal},
	}
	for _, tt := range tests {
		if got := codeOf(tt.err); got != tt.want {
			t.Errorf("codeOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
