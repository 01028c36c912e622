package service

import (
	"time"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/calculator"
	"github.com/mmynk/telecomsupply/internal/ledger"
	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/report"
	"github.com/mmynk/telecomsupply/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func sessionExpiry(s *auth.Session) time.Time {
	if s.Claims.ExpiresAt == nil {
		return time.Time{}
	}
	return s.Claims.ExpiresAt.Time
}

func toAPIInvoice(inv models.Invoice, effective models.Status) *api.Invoice {
	out := &api.Invoice{
		ID:              inv.ID,
		ClientID:        inv.ClientID,
		ClientName:      inv.ClientName,
		Concept:         inv.Concept,
		Amount:          inv.Amount,
		DueDate:         inv.DueDate.String(),
		Status:          string(inv.Status),
		EffectiveStatus: string(effective),
		Category:        inv.Category,
	}
	if inv.PaidDate != nil {
		out.PaidDate = inv.PaidDate.String()
	}
	return out
}

func toAPIClient(c models.Client, l *ledger.Ledger) *api.Client {
	out := &api.Client{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Category: c.Category,
		Invoices: make([]*api.Invoice, 0, len(c.Invoices)),
	}
	for _, inv := range c.Invoices {
		out.Invoices = append(out.Invoices, toAPIInvoice(inv, l.EffectiveStatus(inv)))
	}
	return out
}

func toAPIClients(clients []models.Client, l *ledger.Ledger) []*api.Client {
	out := make([]*api.Client, 0, len(clients))
	for _, c := range clients {
		out = append(out, toAPIClient(c, l))
	}
	return out
}

func toAPIStats(s calculator.Stats) *api.Stats {
	return &api.Stats{
		TotalClients:  s.TotalClients,
		TotalInvoices: s.TotalInvoices,
		Paid:          s.Paid,
		DueSoon:       s.DueSoon,
		Overdue:       s.Overdue,
		TotalAmount:   s.TotalAmount,
		Outstanding:   s.Outstanding,
	}
}

// toDraft converts the wire draft. Unparseable dates are reported as
// validation failures on the offending field.
func toDraft(in *api.InvoiceDraft) (ledger.Draft, error) {
	if in == nil {
		return ledger.Draft{}, &ledger.ValidationError{Fields: []string{"invoice"}}
	}

	draft := ledger.Draft{
		Concept:    in.Concept,
		Amount:     in.Amount,
		Category:   in.Category,
		ClientName: in.ClientName,
		Status:     models.Status(in.Status),
	}

	var bad []string
	if in.DueDate != "" {
		due, err := models.ParseDate(in.DueDate)
		if err != nil {
			bad = append(bad, "due_date")
		}
		draft.DueDate = due
	}
	if in.PaidDate != "" {
		paid, err := models.ParseDate(in.PaidDate)
		if err != nil {
			bad = append(bad, "paid_date")
		} else {
			draft.PaidDate = &paid
		}
	}
	if len(bad) > 0 {
		return ledger.Draft{}, &ledger.ValidationError{Fields: bad}
	}
	return draft, nil
}

func toAPIReport(r report.Report) *api.Report {
	out := &api.Report{
		Date:         r.Date.String(),
		Company:      r.Company,
		TotalClients: r.TotalClients,
		PaidInvoices: r.PaidInvoices,
		DueSoon:      r.DueSoon,
		Overdue:      r.Overdue,
		TotalAmount:  r.TotalAmount,
		Details:      make([]*api.ReportDetail, 0, len(r.Details)),
	}
	for _, d := range r.Details {
		out.Details = append(out.Details, &api.ReportDetail{
			Name:        d.Name,
			Category:    d.Category,
			Email:       d.Email,
			Invoices:    d.Invoices,
			TotalAmount: d.TotalAmount,
		})
	}
	return out
}
