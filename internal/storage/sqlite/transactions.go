package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/settlement"
)

// transactionColumns is the canonical column list scanned by scanTransaction.
const transactionColumns = "id, bill_id, from_user, to_user, amount, is_paid, paid_at, type, created_at, updated_at"

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id,
	)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %s", ledger.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListUnpaidFrom returns the user's unpaid debts, oldest first.
func (s *SQLiteStore) ListUnpaidFrom(ctx context.Context, fromUser string) ([]*models.Transaction, error) {
	return s.listUnpaid(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE from_user = ? AND is_paid = 0 ORDER BY created_at, id`,
		fromUser,
	)
}

// ListUnpaidTo returns the user's unpaid credits, oldest first.
func (s *SQLiteStore) ListUnpaidTo(ctx context.Context, toUser string) ([]*models.Transaction, error) {
	return s.listUnpaid(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE to_user = ? AND is_paid = 0 ORDER BY created_at, id`,
		toUser,
	)
}

// ListUnpaidBetween returns unpaid debts from one user to another, oldest
// first. The ID tie-break keeps same-second records in a stable order.
func (s *SQLiteStore) ListUnpaidBetween(ctx context.Context, fromUser, toUser string) ([]*models.Transaction, error) {
	return s.listUnpaid(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE from_user = ? AND to_user = ? AND is_paid = 0 ORDER BY created_at, id`,
		fromUser, toUser,
	)
}

func (s *SQLiteStore) listUnpaid(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// ApplyPlan commits a settlement plan atomically. Each mark is a guarded
// update: it only lands if the record is still unpaid. Zero rows affected
// means a concurrent settlement got there first, and the whole plan rolls
// back with ledger.ErrConflict.
func (s *SQLiteStore) ApplyPlan(ctx context.Context, plan *settlement.Plan) error {
	if plan.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mark := range plan.Marks {
		res, err := tx.ExecContext(ctx,
			`UPDATE transactions SET amount = ?, is_paid = 1, paid_at = ?, updated_at = ?
			 WHERE id = ? AND is_paid = 0`,
			mark.Amount, mark.PaidAt, mark.UpdatedAt, mark.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to mark transaction paid: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: transaction %s", ledger.ErrConflict, mark.ID)
		}
	}

	for _, t := range plan.Creates {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertTransaction writes one transaction inside an open SQL transaction,
// filling in ID, type and timestamps when unset.
func insertTransaction(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Type == "" {
		t.Type = models.TypeDebt
	}
	now := time.Now().Unix()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	if t.UpdatedAt == 0 {
		t.UpdatedAt = now
	}

	var paidAt any
	if t.PaidAt != 0 {
		paidAt = t.PaidAt
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, bill_id, from_user, to_user, amount, is_paid, paid_at, type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.BillID, t.FromUser, t.ToUser, t.Amount, boolToInt(t.IsPaid), paidAt, t.Type, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var isPaid int
	var paidAt sql.NullInt64
	err := row.Scan(
		&t.ID, &t.BillID, &t.FromUser, &t.ToUser, &t.Amount,
		&isPaid, &paidAt, &t.Type, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.IsPaid = isPaid != 0
	if paidAt.Valid {
		t.PaidAt = paidAt.Int64
	}
	return t, nil
}
