package service

import (
	"context"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/payment"
	"renthub-backend/internal/repository"
)

type paymentCallbackService struct {
	tx      repository.TxManager
	wallets repository.WalletRepository
}

func NewPaymentCallbackService(tx repository.TxManager, wallets repository.WalletRepository) PaymentCallbackService {
	return &paymentCallbackService{tx: tx, wallets: wallets}
}

// ProcessCallback reconciles one gateway notification. The gateway
// delivers at least once and possibly out of order, so the order code is
// treated as an idempotency key: the "already settled" check and the
// credit run in one atomic unit against a locked transaction row.
// Unknown and duplicate callbacks are no-ops that still return success,
// because the gateway retries on anything else.
func (s *paymentCallbackService) ProcessCallback(ctx context.Context, cb payment.Webhook) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.wallets.GetTransactionByOrderCodeForUpdate(ctx, cb.OrderCode)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				logger.WarnContext(ctx, "payment callback for unknown order code", "order_code", cb.OrderCode)
				return nil
			}
			return err
		}
		// Every ledger entry carries an order code, but only deposits are
		// settled by the gateway. A callback quoting a withdrawal's code
		// must never credit the wallet or flip the withdrawal's status.
		if entry.Type != domain.TransactionTypeDeposit {
			logger.WarnContext(ctx, "payment callback for non-deposit transaction ignored",
				"order_code", cb.OrderCode, "type", entry.Type)
			return nil
		}
		if entry.Settled() {
			logger.InfoContext(ctx, "duplicate payment callback ignored", "order_code", cb.OrderCode)
			return nil
		}

		if cb.Code != payment.CodeSuccess {
			entry.Status = domain.WithdrawalStatusFailed
			if err := s.wallets.UpdateTransaction(ctx, entry); err != nil {
				return err
			}
			logger.InfoContext(ctx, "payment failed at gateway", "order_code", cb.OrderCode, "code", cb.Code)
			return nil
		}

		if cb.AmountCents != 0 && cb.AmountCents != entry.AmountCents {
			logger.WarnContext(ctx, "payment callback amount mismatch, crediting recorded amount",
				"order_code", cb.OrderCode, "recorded", entry.AmountCents, "reported", cb.AmountCents)
		}
		balance, err := s.wallets.AddBalance(ctx, entry.WalletID, entry.AmountCents)
		if err != nil {
			return err
		}
		entry.BalanceAfterCents = &balance
		entry.Status = domain.WithdrawalStatusCompleted
		if err := s.wallets.UpdateTransaction(ctx, entry); err != nil {
			return err
		}
		logger.InfoContext(ctx, "deposit settled", "order_code", cb.OrderCode, "amount_cents", entry.AmountCents)
		return nil
	})
}
