package http

import (
	"net/http"
	"strconv"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/service"

	"github.com/gorilla/mux"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderResponse struct {
	Order *domain.Order `json:"order"`
}

type orderListResponse struct {
	Orders     []domain.Order `json:"orders"`
	TotalCount int32          `json:"total_count"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOrderInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	order, err := h.orders.Create(r.Context(), callerID(r), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, orderResponse{Order: order})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), callerID(r), mux.Vars(r)["guid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse{Order: order})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	page, pageSize := pagination(r)

	var (
		orders []domain.Order
		count  int32
		err    error
	)
	if r.URL.Query().Get("role") == "owner" {
		orders, count, err = h.orders.ListByOwner(r.Context(), callerID(r), status, page, pageSize)
	} else {
		orders, count, err = h.orders.ListByRenter(r.Context(), callerID(r), status, page, pageSize)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderListResponse{Orders: orders, TotalCount: count})
}

func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(guid string) (*domain.Order, error) {
		return h.orders.Confirm(r.Context(), callerID(r), guid)
	})
}

func (h *OrderHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(guid string) (*domain.Order, error) {
		return h.orders.Start(r.Context(), callerID(r), guid)
	})
}

func (h *OrderHandler) Return(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Notes string `json:"notes"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	h.transition(w, r, func(guid string) (*domain.Order, error) {
		return h.orders.RenterReturn(r.Context(), callerID(r), guid, in.Notes)
	})
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var in service.CompleteOrderInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	h.transition(w, r, func(guid string) (*domain.Order, error) {
		return h.orders.OwnerComplete(r.Context(), callerID(r), guid, in)
	})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	h.transition(w, r, func(guid string) (*domain.Order, error) {
		return h.orders.Cancel(r.Context(), callerID(r), guid, in.Reason)
	})
}

func (h *OrderHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	h.transition(w, r, func(guid string) (*domain.Order, error) {
		return h.orders.Dispute(r.Context(), callerID(r), guid, in.Reason)
	})
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, op func(guid string) (*domain.Order, error)) {
	order, err := op(mux.Vars(r)["guid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse{Order: order})
}

func pagination(r *http.Request) (int32, int32) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return int32(page), int32(pageSize)
}
