// Package report builds the billing report and exports it as JSON or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/telecomsupply/internal/calculator"
	"github.com/mmynk/telecomsupply/internal/models"
)

// Company is the issuer line printed on every report.
const Company = "TelecomSupply - Insumos de Telecomunicaciones"

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat defaults to JSON when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// Detail is one client's row.
type Detail struct {
	Name        string          `json:"nombre"`
	Category    string          `json:"tipo"`
	Email       string          `json:"email"`
	Invoices    int             `json:"facturas"`
	TotalAmount decimal.Decimal `json:"montoTotal"`
}

// Report keeps the field names the dashboard has always exported.
type Report struct {
	Date         models.Date     `json:"fecha"`
	Company      string          `json:"empresa"`
	TotalClients int             `json:"totalClientes"`
	PaidInvoices int             `json:"facturasPagadas"`
	DueSoon      int             `json:"facturasPorVencer"`
	Overdue      int             `json:"facturasVencidas"`
	TotalAmount  decimal.Decimal `json:"montoTotal"`
	Details      []Detail        `json:"detalles"`
}

// Build assembles a report from current stats and clients. generatedAt is
// truncated to its calendar date.
func Build(stats calculator.Stats, clients []models.Client, generatedAt time.Time) Report {
	r := Report{
		Date:         models.DateOf(generatedAt),
		Company:      Company,
		TotalClients: stats.TotalClients,
		PaidInvoices: stats.Paid,
		DueSoon:      stats.DueSoon,
		Overdue:      stats.Overdue,
		TotalAmount:  stats.TotalAmount,
		Details:      make([]Detail, 0, len(clients)),
	}
	for _, t := range calculator.CalculateClientTotals(clients) {
		r.Details = append(r.Details, Detail{
			Name:        t.Name,
			Category:    t.Category,
			Email:       t.Email,
			Invoices:    t.Invoices,
			TotalAmount: t.Amount,
		})
	}
	return r
}

// Write encodes r in the given format.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, r)
	default:
		return WriteJSON(w, r)
	}
}

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var csvHeader = []string{"Cliente", "Tipo", "Email", "Facturas", "Monto Total"}

// WriteCSV writes one row per client after a header row. A UTF-8 BOM is
// emitted first so spreadsheet tools pick the right encoding for accents.
func WriteCSV(w io.Writer, r Report) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range r.Details {
		record := []string{
			d.Name,
			d.Category,
			d.Email,
			strconv.Itoa(d.Invoices),
			d.TotalAmount.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", d.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ContentType returns the HTTP content type of format.
func ContentType(format Format) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}
