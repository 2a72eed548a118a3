package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/internal/payment/usecase/command"
	"github.com/tair/food-delivery/internal/payment/usecase/query"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// IdempotencyKeyHeader carries the caller-supplied creation token.
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler exposes the payment component's HTTP boundary.
type PaymentHandler struct {
	createHandler  *command.CreatePaymentHandler
	processHandler *command.ProcessPaymentHandler
	refundHandler  *command.RefundPaymentHandler

	getHandler         *query.GetPaymentHandler
	listHandler        *query.ListPaymentsHandler
	listRefundsHandler *query.ListRefundsHandler
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	createHandler *command.CreatePaymentHandler,
	processHandler *command.ProcessPaymentHandler,
	refundHandler *command.RefundPaymentHandler,
	getHandler *query.GetPaymentHandler,
	listHandler *query.ListPaymentsHandler,
	listRefundsHandler *query.ListRefundsHandler,
) *PaymentHandler {
	return &PaymentHandler{
		createHandler:      createHandler,
		processHandler:     processHandler,
		refundHandler:      refundHandler,
		getHandler:         getHandler,
		listHandler:        listHandler,
		listRefundsHandler: listRefundsHandler,
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

// RegisterRoutes mounts the payment API on the router. The auth middleware
// wraps every payment route.
func (h *PaymentHandler) RegisterRoutes(router *mux.Router, auth func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/payments", auth(h.CreatePayment)).Methods(http.MethodPost)
	router.HandleFunc("/api/payments", auth(h.ListPayments)).Methods(http.MethodGet)
	router.HandleFunc("/api/payments/{id}", auth(h.GetPayment)).Methods(http.MethodGet)
	router.HandleFunc("/api/payments/{id}/process", auth(h.ProcessPayment)).Methods(http.MethodPost)
	router.HandleFunc("/api/payments/{id}/refund", auth(h.RefundPayment)).Methods(http.MethodPost)
	router.HandleFunc("/api/payments/{id}/refunds", auth(h.ListRefunds)).Methods(http.MethodGet)
}

type createPaymentRequest struct {
	OrderID       uint   `json:"order_id"`
	Method        string `json:"method"`
	Currency      string `json:"currency"`
	TotalAmount   string `json:"total_amount"`
	TaxAmount     string `json:"tax_amount"`
	PayableAmount string `json:"payable_amount"`
}

// CreatePayment handles POST /api/payments.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	token := r.Header.Get(IdempotencyKeyHeader)
	if token == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Idempotency-Key header is required",
		})
		return
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid total_amount"})
		return
	}
	tax, err := decimal.NewFromString(req.TaxAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid tax_amount"})
		return
	}
	payable, err := decimal.NewFromString(req.PayableAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid payable_amount"})
		return
	}

	payment, err := h.createHandler.Handle(r.Context(), command.CreatePaymentCommand{
		OrderID:          req.OrderID,
		Method:           req.Method,
		Currency:         req.Currency,
		TotalAmount:      total,
		TaxAmount:        tax,
		PayableAmount:    payable,
		IdempotencyToken: token,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Payment created",
		Data:    payment,
	})
}

// ProcessPayment handles POST /api/payments/{id}/process.
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	payment, err := h.processHandler.Handle(r.Context(), command.ProcessPaymentCommand{PaymentID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment processed",
		Data:    payment,
	})
}

type refundRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

// RefundPayment handles POST /api/payments/{id}/refund.
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid amount"})
		return
	}

	refund, err := h.refundHandler.Handle(r.Context(), command.RefundPaymentCommand{
		PaymentID: id,
		Amount:    amount,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Refund recorded",
		Data:    refund,
	})
}

// GetPayment handles GET /api/payments/{id}.
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	payment, err := h.getHandler.Handle(r.Context(), query.GetPaymentQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payment})
}

// ListPayments handles GET /api/payments.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	payments, err := h.listHandler.Handle(r.Context(), query.ListPaymentsQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payments})
}

// ListRefunds handles GET /api/payments/{id}/refunds.
func (h *PaymentHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	refunds, err := h.listRefundsHandler.Handle(r.Context(), query.ListRefundsQuery{PaymentID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if refunds == nil {
		refunds = []domain.Refund{}
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: refunds})
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
