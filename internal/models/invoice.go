package models

import (
	"github.com/shopspring/decimal"
)

// Status is the persisted lifecycle status of an invoice.
type Status string

const (
	// StatusPaid is terminal: once paid an invoice is never reconciled away.
	StatusPaid Status = "pagado"
	// StatusDueSoon marks an unpaid invoice whose due date has not passed.
	StatusDueSoon Status = "por_vencer"
	// StatusOverdue marks an unpaid invoice whose due date has passed.
	StatusOverdue Status = "vencido"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPaid, StatusDueSoon, StatusOverdue}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusDueSoon, StatusOverdue:
		return true
	}
	return false
}

// Invoice categories used for display grouping. Other tags are allowed and
// fall back to a generic icon in the UI.
const (
	CategoryFiber          = "Fibra Óptica"
	CategoryAntennas       = "Antenas y RF"
	CategoryNetwork        = "Equipos de Red"
	CategoryTransmission   = "Equipos de Transmisión"
	CategoryConnectors     = "Conectores RF"
	CategoryInfrastructure = "Infraestructura"
)

// Invoice represents a billable line item owed by a client.
// It only exists inside its owning Client's Invoices list.
type Invoice struct {
	// ID is unique within the owning client and, in practice, globally
	// (UUID format).
	ID string `json:"id" yaml:"id"`

	// ClientID is the owning client's identifier.
	ClientID string `json:"client_id" yaml:"client_id"`

	// ClientName is a copy of the owning client's name taken at write time.
	ClientName string `json:"client_name" yaml:"client_name"`

	// Concept is the free-text description shown on the invoice row.
	Concept string `json:"concept" yaml:"concept"`

	// Amount is the non-negative monetary amount owed.
	Amount decimal.Decimal `json:"amount" yaml:"amount"`

	// DueDate is the calendar date payment is due.
	DueDate Date `json:"due_date" yaml:"due_date"`

	// PaidDate is set only when Status is StatusPaid.
	PaidDate *Date `json:"paid_date,omitempty" yaml:"paid_date,omitempty"`

	// Status is the stored status. Only authoritative when StatusPaid.
	Status Status `json:"status" yaml:"status"`

	// Category is a display grouping tag (see the Category constants).
	Category string `json:"category" yaml:"category"`
}
