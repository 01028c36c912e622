package api

import "github.com/shopspring/decimal"

// Invoice is an invoice as shown on the dashboard. Dates use YYYY-MM-DD.
// Status is the stored status; EffectiveStatus is what the dashboard
// displays and filters on.
type Invoice struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name"`
	Concept         string          `json:"concept"`
	Amount          decimal.Decimal `json:"amount"`
	DueDate         string          `json:"due_date"`
	PaidDate        string          `json:"paid_date,omitempty"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effective_status"`
	Category        string          `json:"category"`
}

type Client struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Category string     `json:"category"`
	Invoices []*Invoice `json:"invoices"`
}

// Stats are the dashboard counters, always computed on effective status.
type Stats struct {
	TotalClients  int             `json:"total_clients"`
	TotalInvoices int             `json:"total_invoices"`
	Paid          int             `json:"paid"`
	DueSoon       int             `json:"due_soon"`
	Overdue       int             `json:"overdue"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// InvoiceDraft holds the editable invoice fields. Status and PaidDate are
// only honoured by UpdateInvoice.
type InvoiceDraft struct {
	Concept    string          `json:"concept"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    string          `json:"due_date"`
	Category   string          `json:"category"`
	ClientName string          `json:"client_name,omitempty"`
	Status     string          `json:"status,omitempty"`
	PaidDate   string          `json:"paid_date,omitempty"`
}

// InvoiceEntry pairs an invoice with its owning client.
type InvoiceEntry struct {
	ClientID       string   `json:"client_id"`
	ClientName     string   `json:"client_name"`
	ClientCategory string   `json:"client_category"`
	Invoice        *Invoice `json:"invoice"`
}

type LoadRequest struct {
	// Reload forces a fresh fetch even if the session is already loaded.
	Reload bool `json:"reload,omitempty"`
}

type LoadResponse struct {
	Clients []*Client `json:"clients"`
	Stats   *Stats    `json:"stats"`
	Today   string    `json:"today"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Stats *Stats `json:"stats"`
}

type SearchClientsRequest struct {
	Term string `json:"term"`
}

type SearchClientsResponse struct {
	Clients []*Client `json:"clients"`
}

type ListInvoicesRequest struct {
	// Status is "todos" (or empty) or one of pagado, por_vencer, vencido.
	Status string `json:"status"`
}

type ListInvoicesResponse struct {
	Entries []*InvoiceEntry `json:"entries"`
}

type CreateInvoiceRequest struct {
	ClientID string        `json:"client_id"`
	Invoice  *InvoiceDraft `json:"invoice"`
}

type CreateInvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type UpdateInvoiceRequest struct {
	ClientID  string        `json:"client_id"`
	InvoiceID string        `json:"invoice_id"`
	Invoice   *InvoiceDraft `json:"invoice"`
}

type UpdateInvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type DeleteInvoiceRequest struct {
	ClientID  string `json:"client_id"`
	InvoiceID string `json:"invoice_id"`
}

type DeleteInvoiceResponse struct{}

type ComposeNotificationRequest struct {
	InvoiceID string `json:"invoice_id"`
}

type ComposeNotificationResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Message    string `json:"message"`
}

type SendNotificationRequest struct {
	ClientID string   `json:"client_id"`
	Message  string   `json:"message"`
	Channels []string `json:"channels"`
}

type SendNotificationResponse struct {
	ClientName        string   `json:"client_name"`
	ChannelsAttempted []string `json:"channels_attempted"`
}

type GenerateReportRequest struct{}

// ReportDetail keeps the field names the dashboard has always exported.
type ReportDetail struct {
	Name        string          `json:"nombre"`
	Category    string          `json:"tipo"`
	Email       string          `json:"email"`
	Invoices    int             `json:"facturas"`
	TotalAmount decimal.Decimal `json:"montoTotal"`
}

type Report struct {
	Date         string          `json:"fecha"`
	Company      string          `json:"empresa"`
	TotalClients int             `json:"totalClientes"`
	PaidInvoices int             `json:"facturasPagadas"`
	DueSoon      int             `json:"facturasPorVencer"`
	Overdue      int             `json:"facturasVencidas"`
	TotalAmount  decimal.Decimal `json:"montoTotal"`
	Details      []*ReportDetail `json:"detalles"`
}

type GenerateReportResponse struct {
	Report *Report `json:"report"`
}
