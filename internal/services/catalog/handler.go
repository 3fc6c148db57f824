package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"coffee-order-system/internal/apperr"
	"coffee-order-system/internal/logger"
	"coffee-order-system/internal/models"
	"coffee-order-system/internal/web"
)

// Handler handles HTTP requests for the menu catalog
type Handler struct {
	store  Store
	logger *logger.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log,
	}
}

// RegisterRoutes mounts the catalog routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/stock", h.SetStock)
}

// List handles GET /api/menus
func (h *Handler) List(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("menus_fetch_failed", web.RequestID(c), "Failed to list menu items", err, nil)
		web.Fail(c, err)
		return
	}
	web.OK(c, 200, items)
}

// Get handles GET /api/menus/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.menuID(c)
	if !ok {
		return
	}

	item, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindStoreFailure {
			h.logger.Error("menu_fetch_failed", web.RequestID(c), "Failed to load menu item", err,
				map[string]interface{}{"menu_id": id})
		}
		web.Fail(c, err)
		return
	}
	web.OK(c, 200, item)
}

// SetStock handles PUT /api/menus/:id/stock
func (h *Handler) SetStock(c *gin.Context) {
	id, ok := h.menuID(c)
	if !ok {
		return
	}

	var req models.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil {
		web.Fail(c, apperr.Invalid(apperr.CodeInvalidStockValue,
			"stock must be a number of zero or greater", nil))
		return
	}

	update, err := h.store.SetStock(c.Request.Context(), id, *req.Stock)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindStoreFailure {
			h.logger.Error("stock_update_failed", web.RequestID(c), "Failed to update stock", err,
				map[string]interface{}{"menu_id": id})
		}
		web.Fail(c, err)
		return
	}

	h.logger.Info("stock_updated", web.RequestID(c), "Stock updated",
		map[string]interface{}{"menu_id": update.ID, "stock": update.Stock})
	web.OK(c, 200, update)
}

// menuID parses the :id path parameter. A non-numeric id cannot reference
// any menu item, so it resolves to not found.
func (h *Handler) menuID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		web.Fail(c, apperr.NotFound(apperr.CodeMenuNotFound, "menu item not found",
			map[string]interface{}{"menu_id": c.Param("id")}))
		return 0, false
	}
	return id, true
}
