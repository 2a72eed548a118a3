package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/internal/order/usecase/command"
	"github.com/tair/food-delivery/internal/order/usecase/query"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// OrderHandler exposes the order service's HTTP surface: lifecycle
// transitions plus payment orchestration.
type OrderHandler struct {
	createHandler     *command.CreateOrderHandler
	transitionHandler *command.TransitionOrderHandler
	initiateHandler   *command.InitiatePaymentHandler
	callbackHandler   *command.HandleCallbackHandler
	retryHandler      *command.RetryPaymentHandler
	refundHandler     *command.RefundOrderHandler

	getHandler     *query.GetOrderHandler
	historyHandler *query.OrderHistoryHandler
	listHandler    *query.ListOrdersHandler
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(
	createHandler *command.CreateOrderHandler,
	transitionHandler *command.TransitionOrderHandler,
	initiateHandler *command.InitiatePaymentHandler,
	callbackHandler *command.HandleCallbackHandler,
	retryHandler *command.RetryPaymentHandler,
	refundHandler *command.RefundOrderHandler,
	getHandler *query.GetOrderHandler,
	historyHandler *query.OrderHistoryHandler,
	listHandler *query.ListOrdersHandler,
) *OrderHandler {
	return &OrderHandler{
		createHandler:     createHandler,
		transitionHandler: transitionHandler,
		initiateHandler:   initiateHandler,
		callbackHandler:   callbackHandler,
		retryHandler:      retryHandler,
		refundHandler:     refundHandler,
		getHandler:        getHandler,
		historyHandler:    historyHandler,
		listHandler:       listHandler,
	}
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// RegisterRoutes mounts the order API on the router.
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders", h.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/api/orders", h.ListOrders).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id}/history", h.GetHistory).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id}/status", h.TransitionOrder).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{id}/payment", h.InitiatePayment).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{id}/payment/retry", h.RetryPayment).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{id}/payment/refund", h.RefundOrder).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{id}/payment/callback", h.PaymentCallback).Methods(http.MethodPost)
}

type createOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address"`
	Items           []struct {
		MenuItemID uint `json:"menu_item_id"`
		Quantity   int  `json:"quantity"`
	} `json:"items"`
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	items := make([]command.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, command.CreateOrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	order, err := h.createHandler.Handle(r.Context(), command.CreateOrderCommand{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Order created", Data: order})
}

type transitionRequest struct {
	Status string `json:"status"`
}

// TransitionOrder handles POST /api/orders/{id}/status.
func (h *OrderHandler) TransitionOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	order, err := h.transitionHandler.Handle(r.Context(), command.TransitionOrderCommand{
		OrderID: orderID,
		Target:  domain.Status(req.Status),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Order transitioned", Data: order})
}

type initiatePaymentRequest struct {
	Method   string `json:"method"`
	Currency string `json:"currency"`
}

// InitiatePayment handles POST /api/orders/{id}/payment.
func (h *OrderHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.initiateHandler.Handle(r.Context(), command.InitiatePaymentCommand{
		OrderID:  orderID,
		Method:   req.Method,
		Currency: req.Currency,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Payment initiated", Data: result})
}

// RetryPayment handles POST /api/orders/{id}/payment/retry.
func (h *OrderHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	result, err := h.retryHandler.Handle(r.Context(), command.RetryPaymentCommand{OrderID: orderID})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment retried", Data: result})
}

type refundOrderRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

// RefundOrder handles POST /api/orders/{id}/payment/refund.
func (h *OrderHandler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	var req refundOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid amount"})
		return
	}

	result, err := h.refundHandler.Handle(r.Context(), command.RefundOrderCommand{
		OrderID: orderID,
		Amount:  amount,
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Refund requested", Data: result})
}

type callbackRequest struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// PaymentCallback handles POST /api/orders/{id}/payment/callback.
func (h *OrderHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err := h.callbackHandler.Handle(r.Context(), command.HandleCallbackCommand{
		OrderID:   orderID,
		PaymentID: req.PaymentID,
		Status:    req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Callback recorded"})
}

// GetOrder handles GET /api/orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	order, err := h.getHandler.Handle(r.Context(), query.GetOrderQuery{ID: orderID})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// GetHistory handles GET /api/orders/{id}/history.
func (h *OrderHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFrom(w, r)
	if !ok {
		return
	}

	rows, err := h.historyHandler.Handle(r.Context(), query.OrderHistoryQuery{OrderID: orderID})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if rows == nil {
		rows = []domain.OrderStatusHistory{}
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// ListOrders handles GET /api/orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	orders, err := h.listHandler.Handle(r.Context(), query.ListOrdersQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		// Clamp: gorm treats a non-positive limit as "no limit".
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func orderIDFrom(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return 0, false
	}
	return uint(id), true
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
		Code:    apperrors.KindOf(err).String(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
