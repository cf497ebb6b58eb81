package models

// User represents a registered user account.
//
// The ledger itself only ever stores user IDs; the full record is loaded when
// balances are rendered. A transaction may outlive the account it references,
// so readers must tolerate an ID that no longer resolves (see Placeholder).
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Handle is the unique short name used for login (e.g., "alice").
	Handle string

	// Role is the account role ("member" or "admin").
	Role string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to API responses.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// RoleMember is the default role for new accounts.
const RoleMember = "member"

// Placeholder returns a stand-in identity for a user ID that no longer
// resolves. Balance views substitute it rather than failing the whole query.
func Placeholder(userID string) *User {
	return &User{
		ID:     userID,
		Name:   "Unknown user",
		Handle: "unknown",
		Role:   RoleMember,
	}
}
