package models

// Client partner types.
const (
	ClientDistributor = "Distribuidor"
	ClientOperator    = "Operador"
	ClientIntegrator  = "Integrador"
	ClientISP         = "ISP"
)

// Client represents a business partner that receives invoices.
// The client record is created out of band and never edited by the
// dashboard; only its Invoices list changes.
type Client struct {
	// ID is the store-assigned identifier (UUID format).
	ID string `json:"id" yaml:"id"`

	// Name is the company name.
	Name string `json:"name" yaml:"name"`

	// Email is the billing contact address. Used for email reminders.
	Email string `json:"email" yaml:"email"`

	// Phone is used for SMS and WhatsApp reminders.
	Phone string `json:"phone" yaml:"phone"`

	// Category is the partner type (see the Client* constants).
	Category string `json:"category" yaml:"category"`

	// Invoices in insertion order, which is also display order.
	Invoices []Invoice `json:"invoices" yaml:"invoices"`
}

// Clone returns a copy of c whose Invoices slice can be modified without
// affecting c.
func (c Client) Clone() Client {
	out := c
	out.Invoices = CloneInvoices(c.Invoices)
	return out
}

// CloneInvoices copies an invoice list, including PaidDate pointers.
func CloneInvoices(in []Invoice) []Invoice {
	out := make([]Invoice, len(in))
	for i, inv := range in {
		if inv.PaidDate != nil {
			paid := *inv.PaidDate
			inv.PaidDate = &paid
		}
		out[i] = inv
	}
	return out
}
