package models

// Bill represents a shared expense to be split among participants.
//
// Bills are owned by the upstream bill component (upload, OCR, editing); the
// ledger keeps a snapshot so it can fall back to the stated total when no
// itemization is supplied and so regenerated transactions have a source of
// truth. The ledger never edits a bill outside of regeneration.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// OwnerID is the user who paid the bill. Every other participant
	// owes their share to this user.
	OwnerID string

	// ParticipantIDs lists everyone splitting the bill, owner included.
	ParticipantIDs []string

	// Items are the line items extracted for this bill. May be empty, in
	// which case Total is split directly.
	Items []Item

	// Total is the stated bill total in cents.
	Total int64

	// CreatedAt is the Unix timestamp when the bill was recorded.
	CreatedAt int64
}

// Item represents a single line item on a bill.
type Item struct {
	// Name is the item description (e.g., "Pizza").
	Name string

	// Price is the item price in cents.
	Price int64

	// Personal marks an item that belongs to one person alone and is
	// excluded from the shared split.
	Personal bool
}
