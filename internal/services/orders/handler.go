package orders

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"coffee-order-system/internal/apperr"
	"coffee-order-system/internal/logger"
	"coffee-order-system/internal/models"
	"coffee-order-system/internal/web"
)

// Handler handles HTTP requests for the order pipeline
type Handler struct {
	store  Store
	logger *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log,
	}
}

// RegisterRoutes mounts the order routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id/status", h.SetStatus)
}

// List handles GET /api/orders
func (h *Handler) List(c *gin.Context) {
	orders, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("orders_fetch_failed", web.RequestID(c), "Failed to list orders", err, nil)
		web.Fail(c, err)
		return
	}
	web.OK(c, 200, orders)
}

// Get handles GET /api/orders/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindStoreFailure {
			h.logger.Error("order_fetch_failed", web.RequestID(c), "Failed to load order", err,
				map[string]interface{}{"order_id": id})
		}
		web.Fail(c, err)
		return
	}
	web.OK(c, 200, order)
}

// Create handles POST /api/orders
func (h *Handler) Create(c *gin.Context) {
	requestID := web.RequestID(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, createBindError(err))
		return
	}

	order, err := h.store.Create(c.Request.Context(), &req)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindStoreFailure {
			h.logger.Error("order_creation_failed", requestID, "Failed to create order", err,
				map[string]interface{}{"total_amount": req.TotalAmount, "item_count": len(req.Items)})
		}
		web.Fail(c, err)
		return
	}

	h.logger.Info("order_created", requestID, "Order created",
		map[string]interface{}{
			"order_id":     order.ID,
			"total_amount": order.TotalAmount,
			"item_count":   len(order.Items),
		})
	web.OK(c, 201, order)
}

// SetStatus handles PUT /api/orders/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req models.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, apperr.Invalid(apperr.CodeInvalidStatus, "invalid order status",
			map[string]interface{}{"valid_statuses": models.ValidStatuses}))
		return
	}

	update, err := h.store.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindStoreFailure {
			h.logger.Error("status_update_failed", web.RequestID(c), "Failed to update order status", err,
				map[string]interface{}{"order_id": id, "status": req.Status})
		}
		web.Fail(c, err)
		return
	}

	h.logger.Info("status_updated", web.RequestID(c), "Order status updated",
		map[string]interface{}{"order_id": update.ID, "status": update.Status})
	web.OK(c, 200, update)
}

// createBindError maps a create-order binding failure to the field it
// concerns: a wrongly typed items or total_amount field keeps its own error
// code, anything else is a malformed body.
func createBindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch {
		case typeErr.Field == "items" || strings.HasPrefix(typeErr.Field, "items."):
			return apperr.Invalid(apperr.CodeInvalidItems,
				"order items must be a non-empty array",
				map[string]interface{}{"error": err.Error()})
		case typeErr.Field == "total_amount":
			return apperr.Invalid(apperr.CodeInvalidTotalAmount,
				"total amount must be a positive number",
				map[string]interface{}{"error": err.Error()})
		}
	}
	return apperr.Invalid(apperr.CodeInvalidRequestBody,
		"request body must be valid JSON",
		map[string]interface{}{"error": err.Error()})
}

// orderID parses the :id path parameter. A non-numeric id cannot reference
// any order, so it resolves to not found.
func (h *Handler) orderID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		web.Fail(c, apperr.NotFound(apperr.CodeOrderNotFound, "order not found",
			map[string]interface{}{"order_id": c.Param("id")}))
		return 0, false
	}
	return id, true
}
