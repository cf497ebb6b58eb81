package ledger

import "github.com/tmodak/settleup/internal/models"

// Capability checks are pure functions over (actor, record) so they can be
// tested without a store and reused by any transport.

// CanSettle reports whether actor may pay down the transaction. Only the
// debtor settles their own debt.
func CanSettle(actorID string, t *models.Transaction) bool {
	return actorID != "" && actorID == t.FromUser
}

// CanMarkReceived reports whether actor may acknowledge receipt. Only the
// creditor can declare money arrived outside the system.
func CanMarkReceived(actorID string, t *models.Transaction) bool {
	return actorID != "" && actorID == t.ToUser
}
