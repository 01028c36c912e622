package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/status"
)

// Stats summarizes every invoice the dashboard can see.
// Paid + DueSoon + Overdue always equals TotalInvoices.
type Stats struct {
	TotalClients  int
	TotalInvoices int
	Paid          int
	DueSoon       int
	Overdue       int

	// TotalAmount is the sum of all invoice amounts, paid or not.
	TotalAmount decimal.Decimal

	// Outstanding is the sum of amounts not yet paid.
	Outstanding decimal.Decimal
}

// CalculateStats counts invoices by effective status as of today.
func CalculateStats(clients []models.Client, today models.Date) Stats {
	stats := Stats{
		TotalClients: len(clients),
		TotalAmount:  decimal.Zero,
		Outstanding:  decimal.Zero,
	}

	for _, client := range clients {
		for _, inv := range client.Invoices {
			stats.TotalInvoices++
			stats.TotalAmount = stats.TotalAmount.Add(inv.Amount)

			switch status.Effective(inv, today) {
			case models.StatusPaid:
				stats.Paid++
			case models.StatusOverdue:
				stats.Overdue++
				stats.Outstanding = stats.Outstanding.Add(inv.Amount)
			default:
				stats.DueSoon++
				stats.Outstanding = stats.Outstanding.Add(inv.Amount)
			}
		}
	}

	return stats
}
