// Package notify composes payment reminders and hands them to delivery
// transports.
package notify

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmynk/telecomsupply/internal/models"
)

const reminderTemplate = "Estimados %s,\n\n" +
	"Les recordamos que su factura \"%s\" por $%s tiene vencimiento el %s.\n\n" +
	"Por favor, procedan con el pago para evitar interrupciones en el suministro de insumos de telecomunicaciones.\n\n" +
	"Saludos cordiales,\n" +
	"Equipo de Facturación - TelecomSupply"

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// Compose returns the editable reminder text for one invoice of client.
// It has no side effects.
func Compose(client models.Client, invoice models.Invoice) string {
	return fmt.Sprintf(reminderTemplate,
		client.Name,
		invoice.Concept,
		FormatAmount(invoice),
		invoice.DueDate.String(),
	)
}

// FormatAmount renders the invoice amount with thousands separators and at
// most two decimals, e.g. 8500 -> "8,500".
func FormatAmount(invoice models.Invoice) string {
	f, _ := invoice.Amount.Round(2).Float64()
	return amountPrinter.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(2)))
}
