package api

import (
	"fmt"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/service"
)

var errNotBillOwner = fmt.Errorf("%w: only the bill owner can regenerate its split", ledger.ErrUnauthorized)

type userView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

type counterpartyView struct {
	User   userView `json:"user"`
	Amount int64    `json:"amount"`
	Count  int      `json:"count"`
}

type balanceResponse struct {
	TotalDebt   int64              `json:"total_debt"`
	TotalCredit int64              `json:"total_credit"`
	Debts       []counterpartyView `json:"debts"`
	Credits     []counterpartyView `json:"credits"`
}

type transactionView struct {
	ID        string `json:"id"`
	BillID    string `json:"bill_id"`
	FromUser  string `json:"from_user"`
	ToUser    string `json:"to_user"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

type userNetView struct {
	User            userView `json:"user"`
	DebtsToThem     int64    `json:"debts_to_them"`
	CreditsFromThem int64    `json:"credits_from_them"`
	NetAmount       int64    `json:"net_amount"`
	Status          string   `json:"status"`
}

type statisticsView struct {
	DebtCount     int   `json:"debt_count"`
	CreditCount   int   `json:"credit_count"`
	LargestDebt   int64 `json:"largest_debt"`
	LargestCredit int64 `json:"largest_credit"`
}

type debtSummaryResponse struct {
	Summary           balanceResponse   `json:"summary"`
	MyDebts           []transactionView `json:"my_debts"`
	DebtsToMe         []transactionView `json:"debts_to_me"`
	DebtSummaryByUser []userNetView     `json:"debt_summary_by_user"`
	Statistics        statisticsView    `json:"statistics"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Handle: u.Handle}
}

func toCounterpartyViews(groups []service.CounterpartyAmount) []counterpartyView {
	views := make([]counterpartyView, len(groups))
	for i, g := range groups {
		views[i] = counterpartyView{User: toUserView(g.User), Amount: g.Amount, Count: g.Count}
	}
	return views
}

func toTransactionViews(txns []*models.Transaction) []transactionView {
	views := make([]transactionView, len(txns))
	for i, t := range txns {
		views[i] = transactionView{
			ID:        t.ID,
			BillID:    t.BillID,
			FromUser:  t.FromUser,
			ToUser:    t.ToUser,
			Amount:    t.Amount,
			CreatedAt: t.CreatedAt,
		}
	}
	return views
}

func toBalanceResponse(b *service.Balance) balanceResponse {
	return balanceResponse{
		TotalDebt:   b.TotalDebt,
		TotalCredit: b.TotalCredit,
		Debts:       toCounterpartyViews(b.Debts),
		Credits:     toCounterpartyViews(b.Credits),
	}
}

func toDebtSummaryResponse(s *service.DebtSummary) debtSummaryResponse {
	byUser := make([]userNetView, len(s.ByUser))
	for i, n := range s.ByUser {
		byUser[i] = userNetView{
			User:            toUserView(n.User),
			DebtsToThem:     n.DebtsToThem,
			CreditsFromThem: n.CreditsFromThem,
			NetAmount:       n.NetAmount,
			Status:          string(n.Status),
		}
	}
	return debtSummaryResponse{
		Summary:           toBalanceResponse(&s.Summary),
		MyDebts:           toTransactionViews(s.MyDebts),
		DebtsToMe:         toTransactionViews(s.DebtsToMe),
		DebtSummaryByUser: byUser,
		Statistics: statisticsView{
			DebtCount:     s.Statistics.DebtCount,
			CreditCount:   s.Statistics.CreditCount,
			LargestDebt:   s.Statistics.LargestDebt,
			LargestCredit: s.Statistics.LargestCredit,
		},
	}
}
