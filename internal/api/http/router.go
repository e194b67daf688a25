package http

import (
	"net/http"

	"renthub-backend/internal/security"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Orders        *OrderHandler
	Wallet        *WalletHandler
	Admin         *AdminHandler
	Webhooks      *WebhookHandler
	Notifications *NotificationHandler
}

// NewRouter wires the full HTTP surface. The webhook receiver is outside
// the auth middleware: the gateway signs payloads instead of carrying a
// user token.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/webhooks/payment", h.Webhooks.HandlePayment).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/orders", h.Orders.Create).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.Orders.List).Methods(http.MethodGet)
	api.HandleFunc("/orders/{guid}", h.Orders.Get).Methods(http.MethodGet)
	api.HandleFunc("/orders/{guid}/confirm", h.Orders.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/orders/{guid}/start", h.Orders.Start).Methods(http.MethodPost)
	api.HandleFunc("/orders/{guid}/return", h.Orders.Return).Methods(http.MethodPost)
	api.HandleFunc("/orders/{guid}/complete", h.Orders.Complete).Methods(http.MethodPost)
	api.HandleFunc("/orders/{guid}/cancel", h.Orders.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/orders/{guid}/dispute", h.Orders.Dispute).Methods(http.MethodPost)

	api.HandleFunc("/wallet", h.Wallet.GetWallet).Methods(http.MethodGet)
	api.HandleFunc("/wallet/transactions", h.Wallet.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/wallet/deposits", h.Wallet.Deposit).Methods(http.MethodPost)
	api.HandleFunc("/wallet/withdrawals", h.Wallet.Withdraw).Methods(http.MethodPost)
	api.HandleFunc("/wallet/bank-accounts", h.Wallet.AddBankAccount).Methods(http.MethodPost)
	api.HandleFunc("/wallet/bank-accounts", h.Wallet.ListBankAccounts).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkAsRead).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireOperator)
	admin.HandleFunc("/withdrawals", h.Admin.ListWithdrawals).Methods(http.MethodGet)
	admin.HandleFunc("/withdrawals/{id}/review", h.Admin.ReviewWithdrawal).Methods(http.MethodPost)
	admin.HandleFunc("/withdrawals/{id}/complete", h.Admin.CompleteWithdrawal).Methods(http.MethodPost)
	admin.HandleFunc("/disputes", h.Admin.ListDisputes).Methods(http.MethodGet)
	admin.HandleFunc("/disputes/{id}/resolve", h.Admin.ResolveDispute).Methods(http.MethodPost)

	return r
}
