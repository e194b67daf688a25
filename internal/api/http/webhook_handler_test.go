package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCallbackService struct {
	mock.Mock
}

func (m *mockCallbackService) ProcessCallback(ctx context.Context, cb payment.Webhook) error {
	args := m.Called(ctx, cb)
	return args.Error(0)
}

func TestWebhookHandler_HandlePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &mockCallbackService{}
		svc.On("ProcessCallback", mock.Anything, mock.MatchedBy(func(cb payment.Webhook) bool {
			return cb.OrderCode == "1749556800042" && cb.Code == payment.CodeSuccess
		})).Return(nil)
		h := NewWebhookHandler(svc)

		body := `{"orderCode":"1749556800042","amount":100000,"code":"00"}`
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandlePayment(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		svc := &mockCallbackService{}
		h := NewWebhookHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.HandlePayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ProcessCallback", mock.Anything, mock.Anything)
	})

	t.Run("ProcessingFailureTriggersGatewayRetry", func(t *testing.T) {
		svc := &mockCallbackService{}
		svc.On("ProcessCallback", mock.Anything, mock.Anything).
			Return(domain.ErrInternal("persist settlement", assert.AnError))
		h := NewWebhookHandler(svc)

		body := `{"orderCode":"1749556800042","code":"00"}`
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandlePayment(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
