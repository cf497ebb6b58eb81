package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
)

// ReplaceBillSplit upserts the bill snapshot, deletes the bill's unpaid
// transactions, and inserts the regenerated set, all in one SQL transaction.
// Paid transactions for the bill are settled history and are left alone.
func (s *SQLiteStore) ReplaceBillSplit(ctx context.Context, bill *models.Bill, txns []*models.Transaction) error {
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Upsert bill snapshot
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, owner_id, total, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET owner_id = excluded.owner_id, total = excluded.total`,
		bill.ID, bill.OwnerID, bill.Total, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bill: %w", err)
	}

	// Replace participants and items with the current edit state
	if _, err = tx.ExecContext(ctx, "DELETE FROM bill_participants WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	for i, userID := range bill.ParticipantIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_participants (bill_id, user_id, position) VALUES (?, ?, ?)",
			bill.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM bill_items WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	for i, item := range bill.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_items (bill_id, position, name, price, personal) VALUES (?, ?, ?, ?, ?)",
			bill.ID, i, item.Name, item.Price, boolToInt(item.Personal),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	// Drop the unpaid debts from the previous split; paid ones are frozen
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM transactions WHERE bill_id = ? AND is_paid = 0", bill.ID,
	); err != nil {
		return fmt.Errorf("failed to delete unpaid transactions: %w", err)
	}

	for _, t := range txns {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill snapshot by ID, including items and participants.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, total, created_at FROM bills WHERE id = ?",
		billID,
	).Scan(&bill.ID, &bill.OwnerID, &bill.Total, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: bill %s", ledger.ErrNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM bill_participants WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		bill.ParticipantIDs = append(bill.ParticipantIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT name, price, personal FROM bill_items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.Item
		var personal int
		if err := itemRows.Scan(&item.Name, &item.Price, &personal); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Personal = personal != 0
		bill.Items = append(bill.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return bill, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
