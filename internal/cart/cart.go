package cart

import (
	"errors"
	"sync"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// ErrInvalidPackageSize rejects package sizes the orchard does not ship.
var ErrInvalidPackageSize = errors.New("package size must be 5, 10 or 20 kg")

// Line is one cart entry, uniquely keyed by (product id, package size).
type Line struct {
	Product     entity.Product `json:"product"`
	PackageSize int            `json:"package_size"`
	Quantity    int            `json:"quantity"`
}

// Cart is the in-memory bag for one browsing session. It lives only for the
// session and is destroyed on clear or on successful order placement.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges into an existing line when the (product, package size) key
// matches, otherwise appends a new line with quantity 1.
func (c *Cart) Add(product entity.Product, packageSize int) error {
	if !entity.ValidPackageSize(packageSize) {
		return ErrInvalidPackageSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID && c.lines[i].PackageSize == packageSize {
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, Line{Product: product, PackageSize: packageSize, Quantity: 1})
	return nil
}

// UpdateQuantity sets the quantity of a line exactly; a quantity of zero or
// less removes the line.
func (c *Cart) UpdateQuantity(productID, packageSize, quantity int) {
	if quantity <= 0 {
		c.Remove(productID, packageSize)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == productID && c.lines[i].PackageSize == packageSize {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove drops the line keyed by (product id, package size), if present.
func (c *Cart) Remove(productID, packageSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Product.ID == productID && line.PackageSize == packageSize {
			continue
		}
		kept = append(kept, line)
	}
	c.lines = kept
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalPrice is the sum of pricePerKg * packageSize * quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for _, line := range c.lines {
		total += line.Product.PricePerKg * float64(line.PackageSize) * float64(line.Quantity)
	}
	return total
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Snapshot freezes the cart into order item records with computed subtotals
// and the frozen total. The snapshot is decoupled from the live catalog.
func (c *Cart) Snapshot() ([]entity.OrderItem, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]entity.OrderItem, 0, len(c.lines))
	total := 0.0
	for _, line := range c.lines {
		subtotal := line.Product.PricePerKg * float64(line.PackageSize) * float64(line.Quantity)
		items = append(items, entity.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			PricePerKg:  line.Product.PricePerKg,
			PackageSize: line.PackageSize,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
		total += subtotal
	}
	return items, total
}
