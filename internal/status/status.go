// Package status derives the effective status of an invoice from its stored
// status and due date.
package status

import (
	"time"

	"github.com/mmynk/telecomsupply/internal/models"
)

// Effective returns the status an invoice should be shown and filtered as.
//
// Paid is sticky. Any other stored status is recomputed: the invoice is
// overdue only when today is strictly after the due date, so an invoice due
// today is still due soon.
func Effective(inv models.Invoice, today models.Date) models.Status {
	if inv.Status == models.StatusPaid {
		return models.StatusPaid
	}
	if today.After(inv.DueDate) {
		return models.StatusOverdue
	}
	return models.StatusDueSoon
}

// Today returns the calendar date of now in loc. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) models.Date {
	if loc == nil {
		loc = time.UTC
	}
	return models.DateOf(now.In(loc))
}

// Reconcile overwrites each invoice's stored status with its effective
// status and returns how many invoices changed.
func Reconcile(invoices []models.Invoice, today models.Date) int {
	changed := 0
	for i := range invoices {
		eff := Effective(invoices[i], today)
		if invoices[i].Status != eff {
			invoices[i].Status = eff
			changed++
		}
	}
	return changed
}
