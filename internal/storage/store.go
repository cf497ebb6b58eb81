// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/settlement"
)

// ErrHandleTaken is returned when registering a user handle that already
// exists.
var ErrHandleTaken = errors.New("handle already registered")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Ordering contract: every List method returns transactions sorted ascending
// by created_at, with the ID as tie-break, so FIFO settlement is
// deterministic.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store when empty. Returns ErrHandleTaken on a duplicate handle.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when the
	// user does not exist; balance views substitute a placeholder.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByHandle retrieves a user by login handle. Returns
	// (nil, nil) when the user does not exist.
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)

	// GetBill retrieves the stored snapshot of a bill. Returns
	// ledger.ErrNotFound when absent.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ReplaceBillSplit atomically upserts the bill snapshot, deletes the
	// bill's unpaid transactions, and inserts the regenerated set. Paid
	// transactions are history and survive regeneration.
	ReplaceBillSplit(ctx context.Context, bill *models.Bill, txns []*models.Transaction) error

	// GetTransaction retrieves a transaction by ID. Returns
	// ledger.ErrNotFound when absent.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListUnpaidFrom returns the user's unpaid debts (records where they
	// are the debtor).
	ListUnpaidFrom(ctx context.Context, fromUser string) ([]*models.Transaction, error)

	// ListUnpaidTo returns the user's unpaid credits (records where they
	// are the creditor).
	ListUnpaidTo(ctx context.Context, toUser string) ([]*models.Transaction, error)

	// ListUnpaidBetween returns unpaid debts from one user to another.
	ListUnpaidBetween(ctx context.Context, fromUser, toUser string) ([]*models.Transaction, error)

	// ApplyPlan commits a settlement plan as one atomic unit: every mark
	// and create lands, or none do. A mark targeting a record that is no
	// longer unpaid aborts the whole plan with ledger.ErrConflict.
	ApplyPlan(ctx context.Context, plan *settlement.Plan) error

	// Close releases any resources held by the store.
	Close() error
}
