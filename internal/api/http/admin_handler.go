package http

import (
	"fmt"
	"net/http"
	"strconv"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/service"

	"github.com/gorilla/mux"
)

// AdminHandler is the operator dashboard surface: withdrawal review and
// settlement, plus dispute arbitration.
type AdminHandler struct {
	withdrawals service.WithdrawalService
	disputes    service.DisputeService
	wallet      service.WalletService
}

func NewAdminHandler(withdrawals service.WithdrawalService, disputes service.DisputeService, wallet service.WalletService) *AdminHandler {
	return &AdminHandler{withdrawals: withdrawals, disputes: disputes, wallet: wallet}
}

func (h *AdminHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := domain.WithdrawalStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.WithdrawalStatusPending
	}
	page, pageSize := pagination(r)
	txs, count, err := h.withdrawals.ListByStatus(r.Context(), status, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"withdrawals": txs, "total_count": count})
}

func (h *AdminHandler) ReviewWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in struct {
		Approve bool `json:"approve"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := h.withdrawals.Review(r.Context(), callerID(r), id, in.Approve)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": tx})
}

func (h *AdminHandler) CompleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := h.withdrawals.Complete(r.Context(), callerID(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": tx})
}

func (h *AdminHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	status := domain.DisputeStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.DisputeStatusPending
	}
	page, pageSize := pagination(r)
	ds, count, err := h.disputes.ListByStatus(r.Context(), status, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"disputes": ds, "total_count": count})
}

func (h *AdminHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in struct {
		Decision    string `json:"decision"`
		RefundCents int64  `json:"refund_cents"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	dispute, order, err := h.disputes.Resolve(r.Context(), callerID(r), id, in.Decision, in.RefundCents)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// The resolver only records the decision; the refund itself goes
	// through the wallet ledger with the stated amount.
	if dispute.RefundCents > 0 {
		desc := fmt.Sprintf("Refund for disputed order %s", order.GUID)
		if _, err := h.wallet.Credit(r.Context(), order.RenterID, dispute.RefundCents, domain.TransactionTypeRefund, &order.ID, desc); err != nil {
			logger.ErrorContext(r.Context(), "dispute resolved but refund credit failed",
				"dispute_id", dispute.ID, "order", order.GUID, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"dispute": dispute, "order": order})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, domain.ErrValidation("invalid %s", name)
	}
	return id, nil
}
