package service

import (
	"context"
	"testing"
	"time"

	"renthub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type disputeFixture struct {
	disputes *mockDisputeRepo
	orders   *mockOrderRepo
	items    *mockItemRepo
	notifier *recordingNotifier
	svc      *disputeService
}

func newDisputeFixture() *disputeFixture {
	f := &disputeFixture{
		disputes: &mockDisputeRepo{},
		orders:   &mockOrderRepo{},
		items:    &mockItemRepo{},
		notifier: &recordingNotifier{},
	}
	f.svc = NewDisputeService(&passthroughTx{}, f.disputes, f.orders, f.items, f.notifier).(*disputeService)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func pendingDispute() *domain.Dispute {
	return &domain.Dispute{
		ID:       21,
		OrderID:  11,
		OpenedBy: 1,
		Reason:   "item was never delivered",
		Status:   domain.DisputeStatusPending,
	}
}

func disputedOrder() *domain.Order {
	o := pendingOrder()
	o.Status = domain.OrderStatusDisputed
	confirmed := testNow.Add(-72 * time.Hour)
	o.ConfirmedAt = &confirmed
	return o
}

func TestDisputeService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("RefundDecision", func(t *testing.T) {
		f := newDisputeFixture()
		d := pendingDispute()
		o := disputedOrder()
		f.disputes.On("GetByIDForUpdate", mock.Anything, int64(21)).Return(d, nil)
		f.orders.On("GetByIDForUpdate", mock.Anything, int64(11)).Return(o, nil)
		f.items.On("Release", mock.Anything, int64(7)).Return(nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.disputes.On("Update", mock.Anything, d).Return(nil)

		dispute, order, err := f.svc.Resolve(ctx, 9, 21, "refund the renter in full", 330000)
		assert.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusResolved, dispute.Status)
		assert.Equal(t, int64(330000), dispute.RefundCents)
		assert.Equal(t, int64(9), *dispute.ResolvedBy)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		assert.Equal(t, domain.PaymentStatusRefunded, order.PaymentStatus)
		// Both parties hear the outcome.
		assert.Len(t, f.notifier.sent, 2)
		f.items.AssertExpectations(t)
	})

	t.Run("NoRefundDecision", func(t *testing.T) {
		f := newDisputeFixture()
		d := pendingDispute()
		o := disputedOrder()
		f.disputes.On("GetByIDForUpdate", mock.Anything, int64(21)).Return(d, nil)
		f.orders.On("GetByIDForUpdate", mock.Anything, int64(11)).Return(o, nil)
		f.items.On("Release", mock.Anything, int64(7)).Return(nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.disputes.On("Update", mock.Anything, d).Return(nil)

		_, order, err := f.svc.Resolve(ctx, 9, 21, "claim rejected, item matches listing", 0)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	})

	t.Run("NeverConfirmedOrderReleasesNothing", func(t *testing.T) {
		f := newDisputeFixture()
		d := pendingDispute()
		o := disputedOrder()
		o.ConfirmedAt = nil
		f.disputes.On("GetByIDForUpdate", mock.Anything, int64(21)).Return(d, nil)
		f.orders.On("GetByIDForUpdate", mock.Anything, int64(11)).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.disputes.On("Update", mock.Anything, d).Return(nil)

		_, _, err := f.svc.Resolve(ctx, 9, 21, "refund", 1000)
		assert.NoError(t, err)
		f.items.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		f := newDisputeFixture()
		d := pendingDispute()
		d.Status = domain.DisputeStatusResolved
		f.disputes.On("GetByIDForUpdate", mock.Anything, int64(21)).Return(d, nil)

		_, _, err := f.svc.Resolve(ctx, 9, 21, "refund again", 330000)
		assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
		f.orders.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("DecisionRequired", func(t *testing.T) {
		f := newDisputeFixture()
		_, _, err := f.svc.Resolve(ctx, 9, 21, "", 0)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("NegativeRefund", func(t *testing.T) {
		f := newDisputeFixture()
		_, _, err := f.svc.Resolve(ctx, 9, 21, "refund", -1)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}
