package http

import (
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/payment"
	"renthub-backend/internal/service"
)

type WalletHandler struct {
	wallet      service.WalletService
	withdrawals service.WithdrawalService
}

func NewWalletHandler(wallet service.WalletService, withdrawals service.WithdrawalService) *WalletHandler {
	return &WalletHandler{wallet: wallet, withdrawals: withdrawals}
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.wallet.GetWallet(r.Context(), callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"wallet": wallet})
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	txs, count, err := h.wallet.ListTransactions(r.Context(), callerID(r), page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txs, "total_count": count})
}

type depositResponse struct {
	Transaction *domain.WalletTransaction `json:"transaction"`
	Checkout    *payment.Link             `json:"checkout"`
}

func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	tx, link, err := h.wallet.RequestDeposit(r.Context(), callerID(r), in.AmountCents)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, depositResponse{Transaction: tx, Checkout: link})
}

func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AmountCents   int64 `json:"amount_cents"`
		BankAccountID int64 `json:"bank_account_id"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := h.withdrawals.Request(r.Context(), callerID(r), in.AmountCents, in.BankAccountID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"transaction": tx})
}

func (h *WalletHandler) AddBankAccount(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BankName      string `json:"bank_name"`
		AccountNumber string `json:"account_number"`
		AccountHolder string `json:"account_holder"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	acct, err := h.wallet.AddBankAccount(r.Context(), callerID(r), in.BankName, in.AccountNumber, in.AccountHolder)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"bank_account": acct})
}

func (h *WalletHandler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := h.wallet.ListBankAccounts(r.Context(), callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"bank_accounts": accts})
}
