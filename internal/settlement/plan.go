// Package settlement implements the ledger's settlement state machine:
// single payments, receipt acknowledgements, and pairwise netting with
// oldest-first amortization.
//
// The engine never writes. It plans against copies of loaded records and
// emits a Plan: the exact set of mark-paid and create-remainder mutations the
// store must apply as one atomic unit. A failed plan therefore has zero
// effect on the ledger, and the planning logic is testable without a
// database.
package settlement

import "github.com/tmodak/settleup/internal/models"

// Kind classifies how a transaction was consumed during settlement.
type Kind string

const (
	// KindNetting: the record was fully canceled against mutual debt.
	KindNetting Kind = "netting"
	// KindPartialNetting: part of the record was canceled; a remainder
	// record holds the rest.
	KindPartialNetting Kind = "partial_netting"
	// KindPayment: the record was fully paid with cash.
	KindPayment Kind = "payment"
	// KindPartialPayment: part of the record was paid; a remainder record
	// holds the rest.
	KindPartialPayment Kind = "partial_payment"
)

// Mark is an instruction to flip one existing record to paid. For a partial
// consumption Amount is rewritten to the consumed portion at the same moment,
// so the record freezes as a historical fact of exactly what was settled.
type Mark struct {
	ID        string
	Amount    int64
	PaidAt    int64
	UpdatedAt int64
}

// Plan is the full set of mutations produced by one settlement operation.
// The store applies every mark and create in a single transaction; a mark
// that races with a concurrent settlement aborts the whole plan.
type Plan struct {
	Marks   []Mark
	Creates []*models.Transaction
}

// Empty reports whether the plan mutates nothing.
func (p *Plan) Empty() bool {
	return len(p.Marks) == 0 && len(p.Creates) == 0
}

// Processed describes one consumed record in a settlement result.
type Processed struct {
	TransactionID string
	Amount        int64
	Kind          Kind
	// RemainderID is set for partial consumptions: the new unpaid record
	// holding original - Amount.
	RemainderID string
}

// SingleResult is the outcome of settling one transaction.
type SingleResult struct {
	PaidAmount      int64
	RemainingAmount int64
	RemainderID     string
	IsFullPayment   bool
}

// PairResult is the outcome of a pairwise netting + amortization run.
type PairResult struct {
	// TotalPaid is the cash actually applied to debts; any excess of the
	// requested payment over outstanding debt stays with the caller.
	TotalPaid int64
	// NettingAmount is the mutual debt canceled symmetrically on both
	// sides before any cash moved.
	NettingAmount int64
	// PaymentAmount is the cash payment the caller requested.
	PaymentAmount int64
	Processed     []Processed
}
