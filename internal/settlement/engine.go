package settlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
)

// Engine plans settlement mutations. It holds no ledger state; callers load
// the relevant records, the engine decides what happens to them.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// New creates an engine using wall-clock time and random UUIDs.
func New() *Engine {
	return &Engine{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// NewForTest creates an engine with a fixed clock and ID sequence so plans
// are fully deterministic in tests.
func NewForTest(now func() time.Time, newID func() string) *Engine {
	return &Engine{now: now, newID: newID}
}

// PlanSingle settles amount cents against one transaction.
//
// Paying the full outstanding amount marks the record paid. Paying less
// splits it: the record freezes as paid for the portion, and a new unpaid
// record inherits the remainder (and the original's age).
func (e *Engine) PlanSingle(t *models.Transaction, amount int64) (*Plan, *SingleResult, error) {
	if t.IsPaid {
		return nil, nil, ledger.ErrAlreadyPaid
	}
	if amount <= 0 || amount > t.Amount {
		return nil, nil, ledger.ErrInvalidAmount
	}

	now := e.now().Unix()
	plan := &Plan{
		Marks: []Mark{{ID: t.ID, Amount: amount, PaidAt: now, UpdatedAt: now}},
	}
	res := &SingleResult{
		PaidAmount:    amount,
		IsFullPayment: amount == t.Amount,
	}
	if amount < t.Amount {
		remainder := e.remainderOf(t, t.Amount-amount, now)
		plan.Creates = append(plan.Creates, remainder)
		res.RemainingAmount = remainder.Amount
		res.RemainderID = remainder.ID
	}
	return plan, res, nil
}

// PlanMarkReceived acknowledges that the full amount changed hands outside
// the system. The amount is untouched; the record just flips to paid.
func (e *Engine) PlanMarkReceived(t *models.Transaction) (*Plan, error) {
	if t.IsPaid {
		return nil, ledger.ErrAlreadyPaid
	}
	now := e.now().Unix()
	return &Plan{
		Marks: []Mark{{ID: t.ID, Amount: t.Amount, PaidAt: now, UpdatedAt: now}},
	}, nil
}

// PlanPair runs the combined netting + FIFO amortization between two users.
//
// myDebts are the payer's unpaid debts to the counterpart, theirDebts the
// reverse direction; both must be ordered oldest first. Mutual debt is
// canceled symmetrically without cash, then the requested payment amortizes
// whatever the payer still owes, oldest first. A payment of zero performs
// pure netting; a payment exceeding the remaining debt leaves the excess with
// the caller.
func (e *Engine) PlanPair(myDebts, theirDebts []*models.Transaction, payment int64) (*Plan, *PairResult, error) {
	if payment < 0 {
		return nil, nil, ledger.ErrInvalidAmount
	}

	p := &planner{engine: e, now: e.now().Unix()}
	my := p.load(myDebts)
	their := p.load(theirDebts)

	var totalMy, totalTheir int64
	for _, t := range my {
		totalMy += t.Amount
	}
	for _, t := range their {
		totalTheir += t.Amount
	}

	mutual := totalMy
	if totalTheir < mutual {
		mutual = totalTheir
	}

	var netted int64
	if mutual > 0 {
		// Cancel their side first, then the same amount from ours.
		// Bounding the second pass by what the first actually consumed
		// keeps the cancellation symmetric by construction.
		netted, their = p.consume(their, mutual, KindNetting, KindPartialNetting)
		_, my = p.consume(my, netted, KindNetting, KindPartialNetting)
	}

	// Amortize the cash payment over whatever survived netting,
	// oldest first.
	paid, _ := p.consume(my, payment, KindPayment, KindPartialPayment)

	res := &PairResult{
		TotalPaid:     paid,
		NettingAmount: netted,
		PaymentAmount: payment,
		Processed:     p.processed,
	}
	return p.plan(), res, nil
}

// planner accumulates mutations while an algorithm walks debt queues.
type planner struct {
	engine    *Engine
	now       int64
	existing  []*models.Transaction // clones of loaded records
	created   []*models.Transaction
	processed []Processed
}

// load clones records so planning never touches the caller's copies.
func (p *planner) load(recs []*models.Transaction) []*models.Transaction {
	out := make([]*models.Transaction, 0, len(recs))
	for _, r := range recs {
		c := r.Clone()
		p.existing = append(p.existing, c)
		out = append(out, c)
	}
	return out
}

// consume walks queue oldest-first, settling up to limit cents. It returns
// the amount actually consumed and the queue of surviving unpaid records;
// a partial consumption replaces the record with its remainder in place, so
// the queue stays ordered.
func (p *planner) consume(queue []*models.Transaction, limit int64, full, partial Kind) (int64, []*models.Transaction) {
	var consumed int64
	remaining := make([]*models.Transaction, 0, len(queue))
	for _, t := range queue {
		if limit <= 0 {
			remaining = append(remaining, t)
			continue
		}
		take := t.Amount
		if take > limit {
			take = limit
		}
		if take == t.Amount {
			p.markPaid(t, t.Amount)
			p.processed = append(p.processed, Processed{
				TransactionID: t.ID,
				Amount:        take,
				Kind:          full,
			})
		} else {
			remainder := p.engine.remainderOf(t, t.Amount-take, p.now)
			p.markPaid(t, take)
			p.created = append(p.created, remainder)
			p.processed = append(p.processed, Processed{
				TransactionID: t.ID,
				Amount:        take,
				Kind:          partial,
				RemainderID:   remainder.ID,
			})
			remaining = append(remaining, remainder)
		}
		limit -= take
		consumed += take
	}
	return consumed, remaining
}

func (p *planner) markPaid(t *models.Transaction, amount int64) {
	t.Amount = amount
	t.IsPaid = true
	t.PaidAt = p.now
	t.UpdatedAt = p.now
}

// plan diffs the working copies into store mutations. A remainder that was
// itself consumed later in the same run is inserted already paid, exactly as
// if the steps had committed one by one.
func (p *planner) plan() *Plan {
	plan := &Plan{}
	for _, t := range p.existing {
		if t.IsPaid {
			plan.Marks = append(plan.Marks, Mark{
				ID:        t.ID,
				Amount:    t.Amount,
				PaidAt:    t.PaidAt,
				UpdatedAt: t.UpdatedAt,
			})
		}
	}
	plan.Creates = p.created
	return plan
}

// remainderOf builds the unpaid record holding what is left of t after a
// partial consumption. It inherits the parent's CreatedAt so the debt keeps
// its place in the oldest-first order.
func (e *Engine) remainderOf(t *models.Transaction, amount, now int64) *models.Transaction {
	return &models.Transaction{
		ID:        e.newID(),
		BillID:    t.BillID,
		FromUser:  t.FromUser,
		ToUser:    t.ToUser,
		Amount:    amount,
		Type:      t.Type,
		CreatedAt: t.CreatedAt,
		UpdatedAt: now,
	}
}
