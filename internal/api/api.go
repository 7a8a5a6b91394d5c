package api

import (
	"errors"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/himalayanBull/RameshOrchards/internal/cart"
	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/payment"
	"github.com/himalayanBull/RameshOrchards/internal/repository"
	"github.com/himalayanBull/RameshOrchards/internal/service"
)

// CartSessionHeader carries the browsing session's cart token.
const CartSessionHeader = "X-Cart-Session"

// StorefrontHandler exposes the public storefront surface: catalog, cart,
// checkout, payment webhook, and order tracking.
type StorefrontHandler struct {
	carts    *cart.Registry
	products *service.ProductService
	checkout *service.CheckoutService
	webhooks *service.WebhookService
	tracking *service.TrackingService
}

func NewStorefrontHandler(
	carts *cart.Registry,
	products *service.ProductService,
	checkout *service.CheckoutService,
	webhooks *service.WebhookService,
	tracking *service.TrackingService,
) *StorefrontHandler {
	return &StorefrontHandler{
		carts:    carts,
		products: products,
		checkout: checkout,
		webhooks: webhooks,
		tracking: tracking,
	}
}

// ListProducts returns the catalog --> GET /products
func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	products, err := h.products.ListProducts(c.Request().Context(), c.QueryParam("category"), c.QueryParam("fruit_type"))
	if err != nil {
		return c.JSON(500, map[string]string{"error": "failed to load products"})
	}
	return c.JSON(200, products)
}

// GetProduct returns one product --> GET /products/:id
func (h *StorefrontHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	product, err := h.products.GetProduct(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(404, map[string]string{"error": "product not found"})
		}
		return c.JSON(500, map[string]string{"error": "failed to load product"})
	}
	return c.JSON(200, product)
}

type cartView struct {
	SessionToken string      `json:"session_token"`
	Lines        []cart.Line `json:"lines"`
	TotalPrice   float64     `json:"total_price"`
	TotalItems   int         `json:"total_items"`
}

func (h *StorefrontHandler) viewCart(token string, bag *cart.Cart) cartView {
	return cartView{
		SessionToken: token,
		Lines:        bag.Lines(),
		TotalPrice:   bag.TotalPrice(),
		TotalItems:   bag.TotalItems(),
	}
}

// AddCartItem adds a (product, package size) line --> POST /cart/items
func (h *StorefrontHandler) AddCartItem(c echo.Context) error {
	req := struct {
		ProductID   int `json:"product_id"`
		PackageSize int `json:"package_size"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	product, err := h.products.GetProduct(c.Request().Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(404, map[string]string{"error": "product not found"})
		}
		return c.JSON(500, map[string]string{"error": "failed to load product"})
	}
	if !product.InStock {
		return c.JSON(409, map[string]string{"error": "product is out of stock"})
	}

	token, bag := h.carts.GetOrCreate(c.Request().Header.Get(CartSessionHeader))
	if err := bag.Add(*product, req.PackageSize); err != nil {
		return c.JSON(400, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, h.viewCart(token, bag))
}

// UpdateCartItem sets a line's quantity --> PUT /cart/items
func (h *StorefrontHandler) UpdateCartItem(c echo.Context) error {
	req := struct {
		ProductID   int `json:"product_id"`
		PackageSize int `json:"package_size"`
		Quantity    int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token := c.Request().Header.Get(CartSessionHeader)
	bag, ok := h.carts.Get(token)
	if !ok {
		return c.JSON(404, map[string]string{"error": "cart session not found"})
	}

	bag.UpdateQuantity(req.ProductID, req.PackageSize, req.Quantity)
	return c.JSON(200, h.viewCart(token, bag))
}

// RemoveCartItem drops a line --> DELETE /cart/items/:productID/:packageSize
func (h *StorefrontHandler) RemoveCartItem(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}
	packageSize, err := strconv.Atoi(c.Param("packageSize"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid package size"})
	}

	token := c.Request().Header.Get(CartSessionHeader)
	bag, ok := h.carts.Get(token)
	if !ok {
		return c.JSON(404, map[string]string{"error": "cart session not found"})
	}

	bag.Remove(productID, packageSize)
	return c.JSON(200, h.viewCart(token, bag))
}

// GetCart returns the session's cart --> GET /cart
func (h *StorefrontHandler) GetCart(c echo.Context) error {
	token := c.Request().Header.Get(CartSessionHeader)
	bag, ok := h.carts.Get(token)
	if !ok {
		return c.JSON(404, map[string]string{"error": "cart session not found"})
	}
	return c.JSON(200, h.viewCart(token, bag))
}

// ClearCart empties the session's cart --> DELETE /cart
func (h *StorefrontHandler) ClearCart(c echo.Context) error {
	token := c.Request().Header.Get(CartSessionHeader)
	bag, ok := h.carts.Get(token)
	if !ok {
		return c.JSON(404, map[string]string{"error": "cart session not found"})
	}
	bag.Clear()
	return c.JSON(200, h.viewCart(token, bag))
}

// Checkout validates the delivery form and starts a payment session
// --> POST /checkout
func (h *StorefrontHandler) Checkout(c echo.Context) error {
	customer := entity.CustomerInfo{}
	if err := c.Bind(&customer); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token := c.Request().Header.Get(CartSessionHeader)
	bag, ok := h.carts.Get(token)
	if !ok {
		return c.JSON(400, map[string]string{"error": "cart session not found"})
	}

	idempotencyKey := c.Request().Header.Get("Idempotent-Key")

	result, err := h.checkout.InitiateCheckout(c.Request().Context(), customer, bag, idempotencyKey)
	if err != nil {
		return writeCheckoutError(c, err)
	}

	// The cart's job is done once the order exists.
	h.carts.Drop(token)

	return c.JSON(200, result)
}

func writeCheckoutError(c echo.Context, err error) error {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(400, verr)
	}
	if errors.Is(err, entity.ErrEmptyCart) {
		return c.JSON(400, map[string]string{"error": "cart is empty"})
	}
	if errors.Is(err, entity.ErrDuplicateCheckout) {
		return c.JSON(409, map[string]string{"error": "checkout already submitted"})
	}

	var perr *entity.PaymentSessionError
	if errors.As(err, &perr) {
		return c.JSON(502, map[string]string{"error": "payment session could not be created, please retry"})
	}
	return c.JSON(500, map[string]string{"error": "checkout failed, please retry"})
}

// PaymentWebhook receives signed processor events --> POST /webhooks/payment
func (h *StorefrontHandler) PaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "unreadable body"})
	}

	err = h.webhooks.HandleEvent(c.Request().Context(), body, c.Request().Header.Get(payment.SignatureHeader))
	if err != nil {
		var perr *entity.PersistenceError
		if errors.As(err, &perr) {
			// 5xx signals the processor to retry the delivery.
			return c.JSON(500, map[string]string{"error": "internal error"})
		}
		return c.JSON(400, map[string]string{"error": "rejected"})
	}

	return c.JSON(200, map[string]bool{"received": true})
}

// TrackOrder serves the two-factor tracking lookup --> GET /orders/track
func (h *StorefrontHandler) TrackOrder(c echo.Context) error {
	invoiceNumber := c.QueryParam("invoice")
	phone := c.QueryParam("phone")

	tracked, err := h.tracking.TrackOrder(c.Request().Context(), invoiceNumber, phone)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return c.JSON(404, map[string]string{"error": "Order not found. Please check your invoice number and try again."})
		}
		return c.JSON(500, map[string]string{"error": "tracking lookup failed"})
	}

	return c.JSON(200, tracked)
}

// CheckoutSuccess is the landing target after a completed hosted payment
// --> GET /checkout/success. It never mutates order state; the webhook is
// the sole authority on payment truth.
func (h *StorefrontHandler) CheckoutSuccess(c echo.Context) error {
	return c.JSON(200, map[string]string{
		"invoice_number": c.QueryParam("invoice"),
		"message":        "Payment received. You can track your order with your invoice number and phone number.",
	})
}

// CheckoutCancel is the landing target after an abandoned hosted payment
// --> GET /checkout/cancel
func (h *StorefrontHandler) CheckoutCancel(c echo.Context) error {
	return c.JSON(200, map[string]string{
		"invoice_number": c.QueryParam("invoice"),
		"message":        "Payment was not completed. Your order will be cancelled if the session expires.",
	})
}
