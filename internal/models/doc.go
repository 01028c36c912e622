// Package models defines the core domain models for the TelecomSupply
// billing dashboard.
//
// # Models
//
//   - Client: a business partner (distributor, operator, integrator, ISP)
//     that owns an ordered list of invoices
//   - Invoice: a billable line item embedded in its owning client record
//   - User: a dashboard operator account
//
// # Design Principles
//
//  1. **Composition**: invoices live inside their client's document and have
//     no identity outside it. The store persists the whole list at once.
//  2. **Stored vs effective status**: Invoice.Status is only authoritative
//     when it is StatusPaid. Everything else is recomputed from the due date
//     (see package status).
//  3. **Denormalized client name**: invoices keep both ClientID and a copy
//     of the client name taken at write time.
package models
