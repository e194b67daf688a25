package jobs

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/logger"
)

// ExpireStaleDeposits is the manual reconciliation backstop for deposits
// whose checkout link was never paid: pending entries older than the TTL
// with no settled balance are marked failed. A webhook that lands
// concurrently wins, because the expiry statement is guarded on the
// balance-after column still being unset.
func (jr *JobRunner) ExpireStaleDeposits() {
	jr.runWithRecovery("expire_stale_deposits", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-jr.cfg.Scheduler.DepositTTL)
		expired, err := jr.wallets.ExpireStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("expire stale deposits failed", "error", err)
			return
		}
		if expired > 0 {
			logger.Info("expired stale pending deposits", "count", expired, "cutoff", cutoff)
		}
	})
}

// MarkOverdueOrders notifies both parties of rentals still in progress
// past their end date. Purely advisory: the state machine is untouched.
func (jr *JobRunner) MarkOverdueOrders() {
	jr.runWithRecovery("mark_overdue_orders", func() {
		ctx := context.Background()
		overdue, err := jr.orders.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("list overdue orders failed", "error", err)
			return
		}
		for _, o := range overdue {
			attrs := map[string]string{"type": "ORDER_OVERDUE", "order_guid": o.GUID}
			jr.notifier.Notify(ctx, o.RenterID, "Rental overdue",
				fmt.Sprintf("Your rental of %s ended on %s; please return it", o.ItemTitle, o.EndAt.Format("2006-01-02")), attrs)
			jr.notifier.Notify(ctx, o.OwnerID, "Rental overdue",
				fmt.Sprintf("The rental of %s ended on %s and has not been returned", o.ItemTitle, o.EndAt.Format("2006-01-02")), attrs)
		}
		if len(overdue) > 0 {
			logger.Info("overdue order reminders sent", "count", len(overdue))
		}
	})
}
