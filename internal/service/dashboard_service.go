package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/ledger"
	"github.com/mmynk/telecomsupply/internal/middleware"
	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/notify"
	"github.com/mmynk/telecomsupply/internal/report"
	"github.com/mmynk/telecomsupply/pkg/api"
)

// DashboardService implements the DashboardService RPC interface on top of
// the caller's session ledger.
type DashboardService struct {
	sessions     *Sessions
	notifier     *notify.Notifier
	writeTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(sessions *Sessions, notifier *notify.Notifier, writeTimeout time.Duration, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		sessions:     sessions,
		notifier:     notifier,
		writeTimeout: writeTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// ledgerFor returns the caller's loaded ledger.
func (s *DashboardService) ledgerFor(ctx context.Context) (*ledger.Ledger, error) {
	sessionID := middleware.GetSessionID(ctx)
	if sessionID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	l, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("Ledger load failed", "session_id", sessionID, "error", err)
		return nil, connectError(err)
	}
	return l, nil
}

// Load returns every client and the dashboard counters. Reload forces a
// fresh fetch and reconciliation.
func (s *DashboardService) Load(ctx context.Context, req *connect.Request[api.LoadRequest]) (*connect.Response[api.LoadResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	if req.Msg.Reload {
		loadCtx, cancel := context.WithTimeout(ctx, s.sessions.loadTimeout)
		defer cancel()
		if _, err := l.Load(loadCtx); err != nil {
			return nil, connectError(err)
		}
	}

	clients, err := l.Clients()
	if err != nil {
		return nil, connectError(err)
	}
	stats, err := l.Aggregate()
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.LoadResponse{
		Clients: toAPIClients(clients, l),
		Stats:   toAPIStats(stats),
		Today:   l.Today().String(),
	}), nil
}

// GetStats recomputes the dashboard counters.
func (s *DashboardService) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := l.Aggregate()
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetStatsResponse{Stats: toAPIStats(stats)}), nil
}

// SearchClients filters clients by name, email or category.
func (s *DashboardService) SearchClients(ctx context.Context, req *connect.Request[api.SearchClientsRequest]) (*connect.Response[api.SearchClientsResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := l.Search(req.Msg.Term)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.SearchClientsResponse{Clients: toAPIClients(clients, l)}), nil
}

// ListInvoices flattens invoices across clients, filtered by effective status.
func (s *DashboardService) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	filter, err := ledger.ParseFilter(req.Msg.Status)
	if err != nil {
		return nil, connectError(err)
	}
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := l.FilterInvoices(filter)
	if err != nil {
		return nil, connectError(err)
	}

	out := make([]*api.InvoiceEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, &api.InvoiceEntry{
			ClientID:       e.Client.ID,
			ClientName:     e.Client.Name,
			ClientCategory: e.Client.Category,
			Invoice:        toAPIInvoice(e.Invoice, l.EffectiveStatus(e.Invoice)),
		})
	}
	return connect.NewResponse(&api.ListInvoicesResponse{Entries: out}), nil
}

// CreateInvoice appends a new invoice to a client.
func (s *DashboardService) CreateInvoice(ctx context.Context, req *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	s.logger.Info("CreateInvoice request received", "client_id", req.Msg.ClientID)

	draft, err := toDraft(req.Msg.Invoice)
	if err != nil {
		return nil, connectError(err)
	}
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	created, err := l.AddInvoice(ctx, req.Msg.ClientID, draft)
	if err != nil {
		s.logger.Warn("CreateInvoice failed", "client_id", req.Msg.ClientID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CreateInvoiceResponse{
		Invoice: toAPIInvoice(created, l.EffectiveStatus(created)),
	}), nil
}

// UpdateInvoice replaces the editable fields of an invoice.
func (s *DashboardService) UpdateInvoice(ctx context.Context, req *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error) {
	s.logger.Info("UpdateInvoice request received", "client_id", req.Msg.ClientID, "invoice_id", req.Msg.InvoiceID)

	draft, err := toDraft(req.Msg.Invoice)
	if err != nil {
		return nil, connectError(err)
	}
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	updated, err := l.UpdateInvoice(ctx, req.Msg.ClientID, req.Msg.InvoiceID, draft)
	if err != nil {
		s.logger.Warn("UpdateInvoice failed", "invoice_id", req.Msg.InvoiceID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.UpdateInvoiceResponse{
		Invoice: toAPIInvoice(updated, l.EffectiveStatus(updated)),
	}), nil
}

// DeleteInvoice removes an invoice. Deleting an absent invoice succeeds.
func (s *DashboardService) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	s.logger.Info("DeleteInvoice request received", "client_id", req.Msg.ClientID, "invoice_id", req.Msg.InvoiceID)

	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := l.DeleteInvoice(ctx, req.Msg.ClientID, req.Msg.InvoiceID); err != nil {
		s.logger.Warn("DeleteInvoice failed", "invoice_id", req.Msg.InvoiceID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeleteInvoiceResponse{}), nil
}

// ComposeNotification returns the editable reminder text for an invoice.
func (s *DashboardService) ComposeNotification(ctx context.Context, req *connect.Request[api.ComposeNotificationRequest]) (*connect.Response[api.ComposeNotificationResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	client, invoice, err := l.FindInvoice(req.Msg.InvoiceID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.ComposeNotificationResponse{
		ClientID:   client.ID,
		ClientName: client.Name,
		Message:    notify.Compose(client, invoice),
	}), nil
}

// SendNotification delivers a (possibly edited) reminder to a client.
func (s *DashboardService) SendNotification(ctx context.Context, req *connect.Request[api.SendNotificationRequest]) (*connect.Response[api.SendNotificationResponse], error) {
	channels := make([]notify.Channel, 0, len(req.Msg.Channels))
	for _, name := range req.Msg.Channels {
		ch, err := notify.ParseChannel(name)
		if err != nil {
			return nil, connectError(err)
		}
		channels = append(channels, ch)
	}

	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	client, err := findClient(l, req.Msg.ClientID)
	if err != nil {
		return nil, connectError(err)
	}

	receipt, err := s.notifier.Send(ctx, client, req.Msg.Message, channels)
	if err != nil {
		return nil, connectError(err)
	}

	attempted := make([]string, 0, len(receipt.ChannelsAttempted))
	for _, ch := range receipt.ChannelsAttempted {
		attempted = append(attempted, string(ch))
	}
	return connect.NewResponse(&api.SendNotificationResponse{
		ClientName:        receipt.ClientName,
		ChannelsAttempted: attempted,
	}), nil
}

// GenerateReport builds the billing report from current state.
func (s *DashboardService) GenerateReport(ctx context.Context, req *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	r, err := buildReport(l, s.now())
	if err != nil {
		return nil, connectError(err)
	}

	s.logger.Info("Report generated", "clients", r.TotalClients, "session_id", middleware.GetSessionID(ctx))
	return connect.NewResponse(&api.GenerateReportResponse{Report: toAPIReport(r)}), nil
}

func buildReport(l *ledger.Ledger, now time.Time) (report.Report, error) {
	stats, err := l.Aggregate()
	if err != nil {
		return report.Report{}, err
	}
	clients, err := l.Clients()
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(stats, clients, now), nil
}

func findClient(l *ledger.Ledger, clientID string) (models.Client, error) {
	clients, err := l.Clients()
	if err != nil {
		return models.Client{}, err
	}
	for _, c := range clients {
		if c.ID == clientID {
			return c, nil
		}
	}
	return models.Client{}, ledger.ErrClientNotFound
}
