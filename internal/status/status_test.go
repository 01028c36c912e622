package status

import (
	"testing"
	"time"

	"github.com/mmynk/telecomsupply/internal/models"
)

func TestEffective(t *testing.T) {
	today := models.MustParseDate("2024-06-01")

	tests := []struct {
		name   string
		stored models.Status
		due    string
		want   models.Status
	}{
		{"due soon stays due soon before due date", models.StatusDueSoon, "2024-06-15", models.StatusDueSoon},
		{"due date equal to today is not overdue", models.StatusDueSoon, "2024-06-01", models.StatusDueSoon},
		{"one day past due is overdue", models.StatusDueSoon, "2024-05-31", models.StatusOverdue},
		{"stale overdue flips back when due date moves out", models.StatusOverdue, "2024-07-01", models.StatusDueSoon},
		{"overdue stays overdue", models.StatusOverdue, "2024-01-20", models.StatusOverdue},
		{"paid with past due date stays paid", models.StatusPaid, "2024-01-20", models.StatusPaid},
		{"paid with future due date stays paid", models.StatusPaid, "2025-01-01", models.StatusPaid},
		{"unknown stored status is recomputed", models.Status(""), "2024-05-01", models.StatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := models.Invoice{Status: tt.stored, DueDate: models.MustParseDate(tt.due)}
			if got := Effective(inv, today); got != tt.want {
				t.Errorf("Effective() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToday(t *testing.T) {
	instant := time.Date(2024, time.June, 1, 23, 30, 0, 0, time.UTC)

	if got := Today(instant, nil); got.String() != "2024-06-01" {
		t.Errorf("Today(UTC) = %s, want 2024-06-01", got)
	}
	tokyo := time.FixedZone("JST", 9*60*60)
	if got := Today(instant, tokyo); got.String() != "2024-06-02" {
		t.Errorf("Today(JST) = %s, want 2024-06-02", got)
	}
}

func TestReconcile(t *testing.T) {
	today := models.MustParseDate("2024-06-01")
	invoices := []models.Invoice{
		{ID: "1", Status: models.StatusDueSoon, DueDate: models.MustParseDate("2024-01-20")},
		{ID: "2", Status: models.StatusPaid, DueDate: models.MustParseDate("2024-02-28")},
		{ID: "3", Status: models.StatusDueSoon, DueDate: models.MustParseDate("2024-12-01")},
	}

	if changed := Reconcile(invoices, today); changed != 1 {
		t.Errorf("Reconcile() changed %d invoices, want 1", changed)
	}
	if invoices[0].Status != models.StatusOverdue {
		t.Errorf("invoice 1 status = %s, want %s", invoices[0].Status, models.StatusOverdue)
	}
	if invoices[1].Status != models.StatusPaid {
		t.Errorf("invoice 2 status = %s, want %s", invoices[1].Status, models.StatusPaid)
	}

	if changed := Reconcile(invoices, today); changed != 0 {
		t.Errorf("second Reconcile() changed %d invoices, want 0", changed)
	}
}
