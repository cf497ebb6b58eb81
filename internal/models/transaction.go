package models

// TypeDebt is the classification tag for transactions created by the bill
// splitter. The column is free-form so future record kinds (adjustments,
// corrections) can share the table.
const TypeDebt = "debt"

// Transaction is one directed debt edge in the ledger: FromUser owes ToUser
// the given amount for a bill.
//
// Once IsPaid is true the record is frozen; later operations may read it but
// never change it. A partial settlement rewrites the original's amount to the
// paid portion at the moment it is marked paid, and creates a fresh unpaid
// record holding the remainder, so paid + remainder always equals the
// original outstanding amount.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// BillID references the bill this debt originated from.
	BillID string

	// FromUser is the debtor: the user who owes.
	FromUser string

	// ToUser is the creditor: the user who is owed.
	ToUser string

	// Amount is the debt in cents. Always positive; a record is never
	// reduced to zero in place.
	Amount int64

	// IsPaid reports whether the debt has been settled.
	IsPaid bool

	// PaidAt is the Unix timestamp set exactly when IsPaid flips to true.
	// Zero while unpaid.
	PaidAt int64

	// Type classifies the record (see TypeDebt).
	Type string

	// CreatedAt is the Unix timestamp used as the sole ordering key for
	// oldest-first settlement. A remainder record inherits its parent's
	// CreatedAt so the debt keeps its age.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}

// Clone returns a copy of the transaction. The settlement engine plans
// against copies so a failed plan leaves loaded records untouched.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}
