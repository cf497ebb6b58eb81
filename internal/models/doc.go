// Package models defines the core domain models for Settleup.
//
// # Models
//
//   - User: a registered account; the ledger references users by ID only
//   - Bill: a shared expense with line items and a participant list
//   - Transaction: one directed debt edge (debtor -> creditor) in the ledger
//
// # Design Principles
//
//  1. Money is always an int64 number of cents. Splits distribute remainder
//     cents explicitly so sums are exact, never approximate.
//  2. Models reference each other by ID strings, never by pointers, to keep
//     them storage-friendly and free of circular references.
//  3. A paid Transaction is a frozen historical fact: its amount is never
//     mutated again. Partial settlements create a new record for the
//     remainder instead of shrinking the old one.
package models
