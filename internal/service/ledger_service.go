// Package service orchestrates the ledger: it loads records, runs the
// settlement engine and bill splitter, enforces authorization, and applies
// the resulting plans through the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmodak/settleup/internal/calculator"
	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/metrics"
	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/settlement"
	"github.com/tmodak/settleup/internal/storage"
)

// LedgerService exposes the ledger's read and write operations.
type LedgerService struct {
	store  storage.Store
	engine *settlement.Engine
	pairs  *settlement.PairLock
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{
		store:  store,
		engine: settlement.New(),
		pairs:  settlement.NewPairLock(),
	}
}

// newLedgerService wires an explicit engine; tests use it for fixed clocks.
func newLedgerService(store storage.Store, engine *settlement.Engine) *LedgerService {
	return &LedgerService{store: store, engine: engine, pairs: settlement.NewPairLock()}
}

// RegenerateForBill recomputes the debt records for a bill from its current
// item and participant state. Unpaid records from the previous split are
// replaced wholesale; paid ones stay as settled history. Rejects the split
// before any write when the item sum deviates from the stated total beyond
// tolerance.
func (s *LedgerService) RegenerateForBill(ctx context.Context, bill *models.Bill) error {
	if err := calculator.CheckItemTotal(bill.Items, bill.Total); err != nil {
		return err
	}
	if len(bill.ParticipantIDs) > 0 && !contains(bill.ParticipantIDs, bill.OwnerID) {
		return fmt.Errorf("%w: owner %s is not a participant", ledger.ErrInconsistentSplit, bill.OwnerID)
	}

	sharedTotal := calculator.SharedTotal(bill.Items, bill.Total)
	shares := calculator.Shares(sharedTotal, bill.ParticipantIDs)

	now := time.Now().Unix()
	var txns []*models.Transaction
	for _, userID := range bill.ParticipantIDs {
		if userID == bill.OwnerID {
			continue // the owner owes nothing to themself
		}
		amount := shares[userID]
		if amount <= 0 {
			// Nothing shared to owe, or a share that rounded down to
			// zero cents. A zero-amount debt is not a debt.
			continue
		}
		txns = append(txns, &models.Transaction{
			BillID:    bill.ID,
			FromUser:  userID,
			ToUser:    bill.OwnerID,
			Amount:    amount,
			Type:      models.TypeDebt,
			CreatedAt: now,
		})
	}

	if err := s.store.ReplaceBillSplit(ctx, bill, txns); err != nil {
		slog.Error("RegenerateForBill failed", "bill_id", bill.ID, "error", err)
		return err
	}

	metrics.TransactionsCreated.Add(float64(len(txns)))
	slog.Info("bill split regenerated",
		"bill_id", bill.ID,
		"shared_total", sharedTotal,
		"participants", len(bill.ParticipantIDs),
		"transactions", len(txns),
	)
	return nil
}

// SettleSingle pays amount cents against one transaction on behalf of actor.
// Only the debtor may pay; paying less than the outstanding amount splits the
// record into a paid portion and an unpaid remainder, committed together.
func (s *LedgerService) SettleSingle(ctx context.Context, actorID, transactionID string, amount int64) (*settlement.SingleResult, error) {
	defer observeDuration(time.Now())

	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !ledger.CanSettle(actorID, t) {
		return nil, fmt.Errorf("%w: only the debtor can settle", ledger.ErrUnauthorized)
	}

	plan, res, err := s.engine.PlanSingle(t, amount)
	if err != nil {
		return nil, err
	}
	if err := s.applyPlan(ctx, plan); err != nil {
		return nil, err
	}

	kind := settlement.KindPayment
	if !res.IsFullPayment {
		kind = settlement.KindPartialPayment
	}
	countSettlement(kind, res.PaidAmount)
	slog.Info("transaction settled",
		"transaction_id", transactionID,
		"paid", res.PaidAmount,
		"remaining", res.RemainingAmount,
	)
	return res, nil
}

// MarkReceived acknowledges that the debt was paid outside the system. Only
// the creditor may acknowledge; the amount is untouched.
func (s *LedgerService) MarkReceived(ctx context.Context, actorID, transactionID string) (int64, error) {
	defer observeDuration(time.Now())

	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return 0, err
	}
	if !ledger.CanMarkReceived(actorID, t) {
		return 0, fmt.Errorf("%w: only the creditor can acknowledge receipt", ledger.ErrUnauthorized)
	}

	plan, err := s.engine.PlanMarkReceived(t)
	if err != nil {
		return 0, err
	}
	if err := s.applyPlan(ctx, plan); err != nil {
		return 0, err
	}

	metrics.SettlementsTotal.WithLabelValues(metrics.KindReceived).Inc()
	metrics.SettledCents.WithLabelValues(metrics.KindReceived).Add(float64(t.Amount))
	slog.Info("receipt acknowledged", "transaction_id", transactionID, "amount", t.Amount)
	return plan.Marks[0].PaidAt, nil
}

// SettleBetweenUsers cancels mutual debt between the payer and counterpart,
// then amortizes the cash payment over the payer's remaining debts, oldest
// first. Runs under a per-pair lock and commits as one atomic unit.
func (s *LedgerService) SettleBetweenUsers(ctx context.Context, payerID, counterpartID string, payment int64) (*settlement.PairResult, error) {
	defer observeDuration(time.Now())

	if payerID == "" || counterpartID == "" || payerID == counterpartID {
		return nil, fmt.Errorf("%w: payer and counterpart must be distinct users", ledger.ErrInvalidAmount)
	}

	unlock := s.pairs.Lock(payerID, counterpartID)
	defer unlock()

	myDebts, err := s.store.ListUnpaidBetween(ctx, payerID, counterpartID)
	if err != nil {
		return nil, err
	}
	theirDebts, err := s.store.ListUnpaidBetween(ctx, counterpartID, payerID)
	if err != nil {
		return nil, err
	}

	plan, res, err := s.engine.PlanPair(myDebts, theirDebts, payment)
	if err != nil {
		return nil, err
	}
	if err := s.applyPlan(ctx, plan); err != nil {
		return nil, err
	}

	for _, p := range res.Processed {
		countSettlement(p.Kind, p.Amount)
	}
	slog.Info("pairwise settlement completed",
		"payer", payerID,
		"counterpart", counterpartID,
		"netted", res.NettingAmount,
		"paid", res.TotalPaid,
		"requested", res.PaymentAmount,
		"records", len(res.Processed),
	)
	return res, nil
}

func (s *LedgerService) applyPlan(ctx context.Context, plan *settlement.Plan) error {
	err := s.store.ApplyPlan(ctx, plan)
	if err != nil {
		if isConflict(err) {
			metrics.SettlementConflicts.Inc()
		}
		slog.Error("settlement plan failed", "marks", len(plan.Marks), "creates", len(plan.Creates), "error", err)
	}
	return err
}

func isConflict(err error) bool {
	return errors.Is(err, ledger.ErrConflict)
}

func countSettlement(kind settlement.Kind, amount int64) {
	metrics.SettlementsTotal.WithLabelValues(string(kind)).Inc()
	metrics.SettledCents.WithLabelValues(string(kind)).Add(float64(amount))
}

func observeDuration(start time.Time) {
	metrics.SettlementDuration.Observe(time.Since(start).Seconds())
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
