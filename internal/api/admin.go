package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/repository"
	"github.com/himalayanBull/RameshOrchards/internal/service"
)

// AdminHandler exposes the JWT-protected fulfillment surface the orchard
// uses to move paid orders through shipping and to restock the catalog.
type AdminHandler struct {
	fulfillment *service.FulfillmentService
	products    *service.ProductService
}

func NewAdminHandler(fulfillment *service.FulfillmentService, products *service.ProductService) *AdminHandler {
	return &AdminHandler{fulfillment: fulfillment, products: products}
}

// AdvanceOrderStatus moves an order forward --> PUT /admin/orders/:invoice/status
func (h *AdminHandler) AdvanceOrderStatus(c echo.Context) error {
	req := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	status := entity.OrderStatus(req.Status)
	if !status.IsValid() {
		return c.JSON(400, map[string]string{"error": "unknown status"})
	}

	order, err := h.fulfillment.AdvanceStatus(c.Request().Context(), c.Param("invoice"), status)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(400, verr)
		}
		if errors.Is(err, entity.ErrNotFound) {
			return c.JSON(404, map[string]string{"error": "order not found"})
		}
		return c.JSON(500, map[string]string{"error": "failed to update order"})
	}

	return c.JSON(200, order)
}

// RestockProduct adds stock --> POST /admin/products/:id/restock
func (h *AdminHandler) RestockProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	req := struct {
		Kilograms int `json:"kilograms"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if req.Kilograms <= 0 {
		return c.JSON(400, map[string]string{"error": "kilograms must be positive"})
	}

	product, err := h.products.Restock(c.Request().Context(), id, req.Kilograms)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(404, map[string]string{"error": "product not found"})
		}
		return c.JSON(500, map[string]string{"error": "failed to restock product"})
	}

	return c.JSON(200, product)
}
