package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitoko/coffee-pos/internal/core/domain"
	"github.com/vitoko/coffee-pos/internal/core/service"
)

type HTTPHandler struct {
	orders    *service.OrderService
	catalog   *service.CatalogService
	customers *service.CustomerService
	logger    *zap.Logger
}

func NewHTTPHandler(orders *service.OrderService, catalog *service.CatalogService, customers *service.CustomerService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{orders: orders, catalog: catalog, customers: customers, logger: logger}
}

func (h *HTTPHandler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.requestLogger)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", h.GetOrder).Methods(http.MethodGet)

	api.HandleFunc("/products", h.RegisterProduct).Methods(http.MethodPost)
	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/top-weekly", h.TopProductsThisWeek).Methods(http.MethodGet)
	api.HandleFunc("/products/yearly-sales", h.YearlySales).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.DeactivateProduct).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id:[0-9]+}/price", h.UpdatePrice).Methods(http.MethodPut)
	api.HandleFunc("/products/{id:[0-9]+}/stock", h.AddStock).Methods(http.MethodPut)

	api.HandleFunc("/customers", h.RegisterCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", h.DeactivateCustomer).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id:[0-9]+}/status", h.UpdateCustomerStatus).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id:[0-9]+}/orders", h.CustomerOrders).Methods(http.MethodGet)

	return r
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type orderLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type placeOrderRequest struct {
	RequestID  string             `json:"request_id,omitempty"`
	CustomerID int64              `json:"customer_id"`
	WorkerID   int64              `json:"worker_id,omitempty"`
	Lines      []orderLineRequest `json:"lines"`
}

type placeOrderResponse struct {
	OrderID       int64           `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	Customer      string          `json:"customer"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Total         decimal.Decimal `json:"total"`
	LineCount     int             `json:"line_count"`
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	lines := make([]service.OrderLineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, service.OrderLineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	result, err := h.orders.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		RequestID:  req.RequestID,
		CustomerID: req.CustomerID,
		WorkerID:   req.WorkerID,
		Lines:      lines,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "order placed successfully",
		Data: placeOrderResponse{
			OrderID:       result.OrderID,
			OrderNumber:   result.OrderNumber,
			Customer:      result.CustomerName,
			Subtotal:      result.Subtotal,
			Discount:      result.Discount,
			ServiceCharge: result.ServiceCharge,
			Total:         result.Total,
			LineCount:     result.LineCount,
		},
	})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: orders})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	detail, err := h.orders.GetOrder(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: detail})
}

type registerProductRequest struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock,omitempty"`
}

func (h *HTTPHandler) RegisterProduct(w http.ResponseWriter, r *http.Request) {
	var req registerProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	product, err := h.catalog.RegisterProduct(r.Context(), req.Code, req.Name, req.Price, req.Stock)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Message: "product registered successfully", Data: product})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: products})
}

func (h *HTTPHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeactivateProduct(r.Context(), pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "product deactivated"})
}

func (h *HTTPHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	if err := h.catalog.UpdatePrice(r.Context(), pathID(r), req.Price); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "price updated"})
}

func (h *HTTPHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	if err := h.catalog.AddStock(r.Context(), pathID(r), req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "stock added"})
}

func (h *HTTPHandler) TopProductsThisWeek(w http.ResponseWriter, r *http.Request) {
	sales, err := h.catalog.ProductsSoldThisWeek(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: sales})
}

func (h *HTTPHandler) YearlySales(w http.ResponseWriter, r *http.Request) {
	report, err := h.catalog.YearlySales(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: report})
}

type registerCustomerRequest struct {
	Name string              `json:"name"`
	Tier domain.CustomerTier `json:"tier,omitempty"`
}

func (h *HTTPHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	customer, err := h.customers.RegisterCustomer(r.Context(), req.Name, req.Tier)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Message: "customer registered successfully", Data: customer})
}

func (h *HTTPHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	tier := domain.CustomerTier(r.URL.Query().Get("tier"))

	customers, err := h.customers.ListCustomers(r.Context(), tier)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: customers})
}

func (h *HTTPHandler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.DeactivateCustomer(r.Context(), pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "customer deactivated"})
}

func (h *HTTPHandler) UpdateCustomerStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	if err := h.customers.SetActive(r.Context(), pathID(r), req.Active); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "customer status updated"})
}

// CustomerOrders lists a customer's orders for the date given in the "date"
// query parameter (YYYY-MM-DD, default today).
func (h *HTTPHandler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	orders, err := h.orders.CustomerOrdersOn(r.Context(), pathID(r), day)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: orders})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID reads the {id} path variable; the route patterns guarantee digits.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrDuplicateCode):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrDuplicateRequest):
		status = http.StatusConflict
		message = err.Error()
	default:
		h.logger.Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
