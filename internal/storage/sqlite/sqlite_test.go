package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/settlement"
	"github.com/tmodak/settleup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "settleup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamps", func(t *testing.T) {
		user := &models.User{Name: "Alice", Handle: "alice", PasswordHash: "x"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if user.Role != models.RoleMember {
			t.Errorf("Expected default role, got %q", user.Role)
		}
	})

	t.Run("duplicate handle rejected", func(t *testing.T) {
		first := &models.User{Name: "Bob", Handle: "bob", PasswordHash: "x"}
		if err := store.CreateUser(ctx, first); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		err := store.CreateUser(ctx, &models.User{Name: "Bobby", Handle: "bob", PasswordHash: "y"})
		if !errors.Is(err, storage.ErrHandleTaken) {
			t.Errorf("got %v, want ErrHandleTaken", err)
		}
	})

	t.Run("lookups", func(t *testing.T) {
		user := &models.User{Name: "Carol", Handle: "carol", PasswordHash: "x"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil || byID == nil || byID.Handle != "carol" {
			t.Errorf("GetUserByID = %+v, %v", byID, err)
		}
		byHandle, err := store.GetUserByHandle(ctx, "carol")
		if err != nil || byHandle == nil || byHandle.ID != user.ID {
			t.Errorf("GetUserByHandle = %+v, %v", byHandle, err)
		}

		missing, err := store.GetUserByID(ctx, "nope")
		if err != nil || missing != nil {
			t.Errorf("missing user: got %+v, %v, want nil, nil", missing, err)
		}
	})
}

func seedSplit(t *testing.T, store *SQLiteStore, billID string, txns ...*models.Transaction) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		ID:             billID,
		OwnerID:        "owner",
		ParticipantIDs: []string{"owner", "alice", "bob"},
		Total:          9000,
	}
	if err := store.ReplaceBillSplit(context.Background(), bill, txns); err != nil {
		t.Fatalf("ReplaceBillSplit failed: %v", err)
	}
	return bill
}

func TestReplaceBillSplit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		bill := &models.Bill{
			ID:             "bill-rt",
			OwnerID:        "owner",
			ParticipantIDs: []string{"owner", "alice"},
			Items: []models.Item{
				{Name: "Pizza", Price: 2000},
				{Name: "Beer", Price: 1000, Personal: true},
			},
			Total: 3000,
		}
		if err := store.ReplaceBillSplit(ctx, bill, []*models.Transaction{
			{BillID: "bill-rt", FromUser: "alice", ToUser: "owner", Amount: 1000},
		}); err != nil {
			t.Fatalf("ReplaceBillSplit failed: %v", err)
		}

		got, err := store.GetBill(ctx, "bill-rt")
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.OwnerID != "owner" || got.Total != 3000 {
			t.Errorf("bill = %+v", got)
		}
		if len(got.ParticipantIDs) != 2 || got.ParticipantIDs[0] != "owner" {
			t.Errorf("participants = %v", got.ParticipantIDs)
		}
		if len(got.Items) != 2 || !got.Items[1].Personal {
			t.Errorf("items = %+v", got.Items)
		}
	})

	t.Run("missing bill", func(t *testing.T) {
		_, err := store.GetBill(ctx, "nope")
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("regeneration replaces unpaid but preserves paid", func(t *testing.T) {
		seedSplit(t, store, "bill-1",
			&models.Transaction{ID: "old-unpaid", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 3000, CreatedAt: 100},
			&models.Transaction{ID: "old-paid", BillID: "bill-1", FromUser: "bob", ToUser: "owner", Amount: 3000, IsPaid: true, PaidAt: 150, CreatedAt: 100},
		)

		seedSplit(t, store, "bill-1",
			&models.Transaction{ID: "new-1", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 2000, CreatedAt: 200},
		)

		if _, err := store.GetTransaction(ctx, "old-unpaid"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("old unpaid record should be gone, got %v", err)
		}
		paid, err := store.GetTransaction(ctx, "old-paid")
		if err != nil {
			t.Fatalf("paid history was deleted: %v", err)
		}
		if !paid.IsPaid || paid.Amount != 3000 {
			t.Errorf("paid record mutated: %+v", paid)
		}
		if _, err := store.GetTransaction(ctx, "new-1"); err != nil {
			t.Errorf("regenerated record missing: %v", err)
		}
	})
}

func TestListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedSplit(t, store, "bill-1",
		&models.Transaction{ID: "c", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 100, CreatedAt: 300},
		&models.Transaction{ID: "a", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 100, CreatedAt: 100},
		&models.Transaction{ID: "b", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 100, CreatedAt: 200},
		&models.Transaction{ID: "paid", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 100, IsPaid: true, PaidAt: 50, CreatedAt: 50},
		&models.Transaction{ID: "other", BillID: "bill-1", FromUser: "bob", ToUser: "owner", Amount: 100, CreatedAt: 100},
	)

	txns, err := store.ListUnpaidBetween(ctx, "alice", "owner")
	if err != nil {
		t.Fatalf("ListUnpaidBetween failed: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("got %d records, want 3 (paid and other-debtor excluded)", len(txns))
	}
	for i, want := range []string{"a", "b", "c"} {
		if txns[i].ID != want {
			t.Errorf("position %d = %s, want %s (oldest first)", i, txns[i].ID, want)
		}
	}

	debts, err := store.ListUnpaidFrom(ctx, "alice")
	if err != nil || len(debts) != 3 {
		t.Errorf("ListUnpaidFrom = %d records, %v, want 3", len(debts), err)
	}
	credits, err := store.ListUnpaidTo(ctx, "owner")
	if err != nil || len(credits) != 4 {
		t.Errorf("ListUnpaidTo = %d records, %v, want 4", len(credits), err)
	}
}

func TestApplyPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("marks and creates commit together", func(t *testing.T) {
		store := newTestStore(t)
		seedSplit(t, store, "bill-1",
			&models.Transaction{ID: "t1", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 3000, CreatedAt: 100},
		)

		plan := &settlement.Plan{
			Marks: []settlement.Mark{{ID: "t1", Amount: 1000, PaidAt: 500, UpdatedAt: 500}},
			Creates: []*models.Transaction{
				{ID: "r1", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 2000, CreatedAt: 100},
			},
		}
		if err := store.ApplyPlan(ctx, plan); err != nil {
			t.Fatalf("ApplyPlan failed: %v", err)
		}

		paid, _ := store.GetTransaction(ctx, "t1")
		if !paid.IsPaid || paid.Amount != 1000 || paid.PaidAt != 500 {
			t.Errorf("mark not applied: %+v", paid)
		}
		remainder, err := store.GetTransaction(ctx, "r1")
		if err != nil {
			t.Fatalf("remainder missing: %v", err)
		}
		if remainder.IsPaid || remainder.Amount != 2000 {
			t.Errorf("remainder wrong: %+v", remainder)
		}
		if remainder.PaidAt != 0 {
			t.Errorf("unpaid remainder has PaidAt = %d", remainder.PaidAt)
		}
	})

	t.Run("conflicting mark rolls back everything", func(t *testing.T) {
		store := newTestStore(t)
		seedSplit(t, store, "bill-1",
			&models.Transaction{ID: "t1", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 3000, CreatedAt: 100},
			&models.Transaction{ID: "t2", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 1000, IsPaid: true, PaidAt: 50, CreatedAt: 100},
		)

		plan := &settlement.Plan{
			Marks: []settlement.Mark{
				{ID: "t1", Amount: 3000, PaidAt: 500, UpdatedAt: 500},
				{ID: "t2", Amount: 1000, PaidAt: 500, UpdatedAt: 500}, // already paid
			},
			Creates: []*models.Transaction{
				{ID: "r1", BillID: "bill-1", FromUser: "alice", ToUser: "owner", Amount: 10, CreatedAt: 100},
			},
		}
		err := store.ApplyPlan(ctx, plan)
		if !errors.Is(err, ledger.ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}

		// Zero partial effect: t1 untouched, r1 never created.
		t1, _ := store.GetTransaction(ctx, "t1")
		if t1.IsPaid {
			t.Error("t1 was marked paid despite rollback")
		}
		if _, err := store.GetTransaction(ctx, "r1"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("r1 exists despite rollback: %v", err)
		}
	})

	t.Run("empty plan is a no-op", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.ApplyPlan(ctx, &settlement.Plan{}); err != nil {
			t.Errorf("ApplyPlan failed: %v", err)
		}
	})
}
