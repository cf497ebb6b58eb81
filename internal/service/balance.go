package service

import (
	"context"
	"sort"

	"github.com/tmodak/settleup/internal/models"
)

// NetStatus classifies a pairwise net position.
type NetStatus string

const (
	StatusOwesMe NetStatus = "owes_me"
	StatusIOwe   NetStatus = "i_owe"
	StatusEven   NetStatus = "even"
)

// CounterpartyAmount is one counterparty's summed unpaid amount.
type CounterpartyAmount struct {
	User   *models.User
	Amount int64
	Count  int
}

// Balance summarizes a user's outstanding position.
type Balance struct {
	TotalDebt   int64
	TotalCredit int64
	Debts       []CounterpartyAmount // what the user owes, per creditor
	Credits     []CounterpartyAmount // what the user is owed, per debtor
}

// UserNet is the net position against one counterparty.
type UserNet struct {
	User            *models.User
	DebtsToThem     int64
	CreditsFromThem int64
	// NetAmount is credits minus debts: positive means they owe me.
	NetAmount int64
	Status    NetStatus
}

// Statistics carries aggregate numbers for the summary view.
type Statistics struct {
	DebtCount     int
	CreditCount   int
	LargestDebt   int64
	LargestCredit int64
}

// DebtSummary is the full per-counterparty breakdown of a user's position.
type DebtSummary struct {
	Summary    Balance
	MyDebts    []*models.Transaction
	DebtsToMe  []*models.Transaction
	ByUser     []UserNet
	Statistics Statistics
}

// GetBalance summarizes the user's unpaid debts and credits grouped by
// counterparty. Strictly read-only. A counterparty whose account no longer
// resolves gets a placeholder identity instead of failing the query.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	debts, err := s.store.ListUnpaidFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	credits, err := s.store.ListUnpaidTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	bal := &Balance{}
	bal.TotalDebt, bal.Debts, err = s.groupByCounterparty(ctx, debts, func(t *models.Transaction) string { return t.ToUser })
	if err != nil {
		return nil, err
	}
	bal.TotalCredit, bal.Credits, err = s.groupByCounterparty(ctx, credits, func(t *models.Transaction) string { return t.FromUser })
	if err != nil {
		return nil, err
	}
	return bal, nil
}

// GetDebtSummary returns the balance data with per-counterparty net amounts
// and aggregate statistics. Strictly read-only.
func (s *LedgerService) GetDebtSummary(ctx context.Context, userID string) (*DebtSummary, error) {
	debts, err := s.store.ListUnpaidFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	credits, err := s.store.ListUnpaidTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &DebtSummary{MyDebts: debts, DebtsToMe: credits}

	summary.Summary.TotalDebt, summary.Summary.Debts, err = s.groupByCounterparty(ctx, debts, func(t *models.Transaction) string { return t.ToUser })
	if err != nil {
		return nil, err
	}
	summary.Summary.TotalCredit, summary.Summary.Credits, err = s.groupByCounterparty(ctx, credits, func(t *models.Transaction) string { return t.FromUser })
	if err != nil {
		return nil, err
	}

	// Net per counterparty: credits from them minus debts to them.
	type pair struct {
		user           *models.User
		debts, credits int64
	}
	nets := make(map[string]*pair)
	for _, d := range summary.Summary.Debts {
		nets[d.User.ID] = &pair{user: d.User, debts: d.Amount}
	}
	for _, c := range summary.Summary.Credits {
		if p, ok := nets[c.User.ID]; ok {
			p.credits = c.Amount
		} else {
			nets[c.User.ID] = &pair{user: c.User, credits: c.Amount}
		}
	}
	for _, p := range nets {
		net := p.credits - p.debts
		status := StatusEven
		if net > 0 {
			status = StatusOwesMe
		} else if net < 0 {
			status = StatusIOwe
		}
		summary.ByUser = append(summary.ByUser, UserNet{
			User:            p.user,
			DebtsToThem:     p.debts,
			CreditsFromThem: p.credits,
			NetAmount:       net,
			Status:          status,
		})
	}
	sort.Slice(summary.ByUser, func(i, j int) bool {
		return summary.ByUser[i].User.ID < summary.ByUser[j].User.ID
	})

	summary.Statistics.DebtCount = len(debts)
	summary.Statistics.CreditCount = len(credits)
	for _, t := range debts {
		if t.Amount > summary.Statistics.LargestDebt {
			summary.Statistics.LargestDebt = t.Amount
		}
	}
	for _, t := range credits {
		if t.Amount > summary.Statistics.LargestCredit {
			summary.Statistics.LargestCredit = t.Amount
		}
	}

	return summary, nil
}

// groupByCounterparty sums transactions per counterparty, resolving each
// counterparty's user record once. Groups come back sorted by counterparty ID
// so responses are stable.
func (s *LedgerService) groupByCounterparty(ctx context.Context, txns []*models.Transaction, counterparty func(*models.Transaction) string) (int64, []CounterpartyAmount, error) {
	var total int64
	sums := make(map[string]*CounterpartyAmount)
	for _, t := range txns {
		total += t.Amount
		id := counterparty(t)
		g, ok := sums[id]
		if !ok {
			user, err := s.resolveUser(ctx, id)
			if err != nil {
				return 0, nil, err
			}
			g = &CounterpartyAmount{User: user}
			sums[id] = g
		}
		g.Amount += t.Amount
		g.Count++
	}

	groups := make([]CounterpartyAmount, 0, len(sums))
	for _, g := range sums {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].User.ID < groups[j].User.ID })
	return total, groups, nil
}

// resolveUser loads a user record, substituting a placeholder identity when
// the account has vanished. A debt is still a debt even if the counterparty
// deleted their account.
func (s *LedgerService) resolveUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return models.Placeholder(userID), nil
	}
	// Strip credentials before the record leaves the service.
	user.PasswordHash = ""
	return user, nil
}
