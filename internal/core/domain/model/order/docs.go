// Package order provides the Order aggregate of the confirmation service and the
// lifecycle rules that govern it.
//
// The package includes:
//   - Order: the aggregate root holding identity, status, deliverer and confirmation code
//   - Status: a state machine that enforces valid status transitions
//   - DeliveredEvent: the fact emitted when an order reaches Delivered
//
// Key business rules:
//   - Status follows Pending -> Assigned -> OutForDelivery -> Delivered, with
//     cancellation allowed from every non-terminal status
//   - A confirmation code exists only while the order is out for delivery and is
//     retained after delivery for audit
//   - Only the assigned deliverer may start the delivery
//
// Delivered is reached exclusively through a confirmed handover; the persistence
// layer performs that transition as a compare-and-set on the stored status.
package order
