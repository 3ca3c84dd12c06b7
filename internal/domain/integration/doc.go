// Package integration contains the EDI integration bounded context.
// It models the documents exchanged with the trading partner hub.
//
// Key concepts:
//   - PurchaseOrder850: inbound EDI-850 purchase order as received from the hub
//   - Invoice810: outbound EDI-810 invoice summary sent back to the partner
//   - InvoiceDispatcher: port for delivering invoices to the partner endpoint
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
