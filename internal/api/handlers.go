package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmodak/settleup/internal/middleware"
	"github.com/tmodak/settleup/internal/models"
)

// All amounts on the wire are integer cents.

type settleSingleRequest struct {
	Amount int64 `json:"amount"`
}

type settleSingleResponse struct {
	PaidAmount      int64  `json:"paid_amount"`
	RemainingAmount int64  `json:"remaining_amount,omitempty"`
	RemainderID     string `json:"remainder_id,omitempty"`
	IsFullPayment   bool   `json:"is_full_payment"`
}

func (s *Server) handleSettleSingle(w http.ResponseWriter, r *http.Request) {
	var req settleSingleRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	actorID := middleware.GetUserID(r.Context())
	res, err := s.ledger.SettleSingle(r.Context(), actorID, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settleSingleResponse{
		PaidAmount:      res.PaidAmount,
		RemainingAmount: res.RemainingAmount,
		RemainderID:     res.RemainderID,
		IsFullPayment:   res.IsFullPayment,
	})
}

type markReceivedResponse struct {
	PaidAt int64 `json:"paid_at"`
}

func (s *Server) handleMarkReceived(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	paidAt, err := s.ledger.MarkReceived(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markReceivedResponse{PaidAt: paidAt})
}

type settleBetweenRequest struct {
	CounterpartID string `json:"counterpart_id"`
	Amount        int64  `json:"amount"`
}

type processedTransaction struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Kind          string `json:"kind"`
	RemainderID   string `json:"remainder_id,omitempty"`
}

type settleBetweenResponse struct {
	TotalPaid             int64                  `json:"total_paid"`
	NettingAmount         int64                  `json:"netting_amount"`
	PaymentAmount         int64                  `json:"payment_amount"`
	ProcessedTransactions []processedTransaction `json:"processed_transactions"`
}

func (s *Server) handleSettleBetweenUsers(w http.ResponseWriter, r *http.Request) {
	var req settleBetweenRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	payerID := middleware.GetUserID(r.Context())
	res, err := s.ledger.SettleBetweenUsers(r.Context(), payerID, req.CounterpartID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	processed := make([]processedTransaction, len(res.Processed))
	for i, p := range res.Processed {
		processed[i] = processedTransaction{
			TransactionID: p.TransactionID,
			Amount:        p.Amount,
			Kind:          string(p.Kind),
			RemainderID:   p.RemainderID,
		}
	}
	writeJSON(w, http.StatusOK, settleBetweenResponse{
		TotalPaid:             res.TotalPaid,
		NettingAmount:         res.NettingAmount,
		PaymentAmount:         res.PaymentAmount,
		ProcessedTransactions: processed,
	})
}

type billItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Personal bool   `json:"personal"`
}

type regenerateBillRequest struct {
	OwnerID        string     `json:"owner_id"`
	ParticipantIDs []string   `json:"participant_ids"`
	Items          []billItem `json:"items"`
	Total          int64      `json:"total"`
}

func (s *Server) handleRegenerateBill(w http.ResponseWriter, r *http.Request) {
	var req regenerateBillRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// The upstream bill component supplies the owner; the caller must be
	// that owner to rewrite the bill's debts.
	actorID := middleware.GetUserID(r.Context())
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = actorID
	}
	if ownerID != actorID {
		writeError(w, errNotBillOwner)
		return
	}

	items := make([]models.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.Item{Name: item.Name, Price: item.Price, Personal: item.Personal}
	}

	bill := &models.Bill{
		ID:             chi.URLParam(r, "id"),
		OwnerID:        ownerID,
		ParticipantIDs: req.ParticipantIDs,
		Items:          items,
		Total:          req.Total,
	}
	if err := s.ledger.RegenerateForBill(r.Context(), bill); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bal, err := s.ledger.GetBalance(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceResponse(bal))
}

func (s *Server) handleGetDebtSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	summary, err := s.ledger.GetDebtSummary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtSummaryResponse(summary))
}
