package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/telecomsupply/internal/models"
)

// ClientTotal is one client's line in the billing report.
type ClientTotal struct {
	ClientID string
	Name     string
	Category string
	Email    string
	Invoices int
	Amount   decimal.Decimal
}

// CalculateClientTotals sums each client's invoices, keeping client order.
func CalculateClientTotals(clients []models.Client) []ClientTotal {
	totals := make([]ClientTotal, len(clients))
	for i, client := range clients {
		sum := decimal.Zero
		for _, inv := range client.Invoices {
			sum = sum.Add(inv.Amount)
		}
		totals[i] = ClientTotal{
			ClientID: client.ID,
			Name:     client.Name,
			Category: client.Category,
			Email:    client.Email,
			Invoices: len(client.Invoices),
			Amount:   sum,
		}
	}
	return totals
}
