// Package handler содержит HTTP-обработчики API сервиса фотосалона.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/printshop-system/internal/engine"
	"github.com/mmeshcher/printshop-system/internal/middleware"
	"github.com/mmeshcher/printshop-system/internal/model"
	"github.com/mmeshcher/printshop-system/internal/service"
	"github.com/mmeshcher/printshop-system/internal/sms"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, in engine.ProductInput) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, patch engine.ProductPatch) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ReplaceProducts(ctx context.Context, products []model.Product) error

	ListOrders(ctx context.Context) ([]model.Order, error)
	PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (model.Order, error)
	SettleOrder(ctx context.Context, id string) (model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	ReplaceOrders(ctx context.Context, orders []model.Order) error

	Stats(ctx context.Context) (*model.Stats, error)
	OrdersCSV(ctx context.Context) (string, error)
}

// SMSSender определяет контракт клиента SMS-провайдеров.
type SMSSender interface {
	Send(ctx context.Context, req sms.Request) (string, error)
}

// Credentials содержит учётные данные единственного сотрудника сервиса.
type Credentials struct {
	Username string
	Password string
}

// Handler реализует HTTP-обработчики API сервиса фотосалона.
type Handler struct {
	service        Service
	smsClient      SMSSender
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	credentials    Credentials
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, smsClient SMSSender, logger *zap.Logger, auth *middleware.AuthMiddleware, creds Credentials) *Handler {
	return &Handler{
		service:        s,
		smsClient:      smsClient,
		logger:         logger,
		authMiddleware: auth,
		credentials:    creds,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login проверяет учётные данные сотрудника и устанавливает cookie авторизации.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Username != h.credentials.Username || req.Password != h.credentials.Password {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.authMiddleware.SetAuthCookie(w, req.Username)
	w.WriteHeader(http.StatusOK)
}

// GetProducts возвращает полный снимок каталога.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("list products error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, products)
}

// ReplaceProducts заменяет снимок каталога. Тело запроса обязано быть
// JSON-массивом: испорченный импорт отклоняется на границе, до ядра.
func (h *Handler) ReplaceProducts(w http.ResponseWriter, r *http.Request) {
	var products []model.Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.ReplaceProducts(r.Context(), products); err != nil {
		h.logger.Error("replace products error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

type productCreateRequest struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	Description  string `json:"description"`
	ImageDataURL string `json:"imageDataUrl"`
}

// CreateProduct добавляет новый товар в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.CreateProduct(r.Context(), engine.ProductInput{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		ImageDataURL: req.ImageDataURL,
	})
	if err != nil {
		h.respondServiceError(w, err, "create product")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.logger.Error("encode product error", zap.Error(err))
	}
}

type productPatchRequest struct {
	Name         *string `json:"name"`
	Price        *string `json:"price"`
	Description  *string `json:"description"`
	ImageDataURL *string `json:"imageDataUrl"`
}

// UpdateProduct применяет частичное обновление к товару каталога.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), id, engine.ProductPatch{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		ImageDataURL: req.ImageDataURL,
	})
	if err != nil {
		h.respondServiceError(w, err, "update product")
		return
	}

	writeJSON(w, p)
}

// DeleteProduct убирает товар из каталога.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOrders возвращает полный снимок истории заказов.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("list orders error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, orders)
}

// ReplaceOrders заменяет снимок истории заказов; каждый заказ пересчитывается.
func (h *Handler) ReplaceOrders(w http.ResponseWriter, r *http.Request) {
	var orders []model.Order
	if err := json.NewDecoder(r.Body).Decode(&orders); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.ReplaceOrders(r.Context(), orders); err != nil {
		h.logger.Error("replace orders error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

// PlaceOrder оформляет новый заказ из данных формы.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "place order")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		h.logger.Error("encode order error", zap.Error(err))
	}
}

// SettleOrder отмечает заказ полностью оплаченным.
func (h *Handler) SettleOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.SettleOrder(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "settle order")
		return
	}

	writeJSON(w, order)
}

// DeleteOrder убирает заказ из истории.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats возвращает сводные показатели для панели управления.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats)
}

// ExportOrdersCSV возвращает табличную выгрузку истории заказов.
func (h *Handler) ExportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	csv, err := h.service.OrdersCSV(r.Context())
	if err != nil {
		h.logger.Error("export orders csv error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filename := "orders_" + time.Now().UTC().Format("2006-01-02") + ".csv"

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

// SendSMS передаёт сообщение внешнему SMS-провайдеру.
func (h *Handler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req sms.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	resp, err := h.smsClient.Send(r.Context(), req)
	if err != nil {
		if errors.Is(err, sms.ErrMissingFields) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.logger.Error("send sms error", zap.Error(err), zap.String("apiType", req.APIType))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]any{"success": true, "response": resp})
}

// respondServiceError отображает ошибку сервиса в HTTP-статус: ошибки
// валидации ядра — 422, отсутствующие сущности — 404, остальное — 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, engine.ErrProductNameRequired),
		errors.Is(err, engine.ErrPriceNotPositive),
		errors.Is(err, engine.ErrLastNameRequired),
		errors.Is(err, engine.ErrPhoneInvalid),
		errors.Is(err, engine.ErrCartEmpty),
		errors.Is(err, engine.ErrDepositExceedsTotal):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		h.logger.Error(op+" error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
