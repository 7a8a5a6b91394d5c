package entity

// Product is a catalog entity. The storefront never mutates anything here
// besides stock, which the order event consumer adjusts.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	PricePerKg  float64 `json:"price_per_kg"`
	Category    string  `json:"category"`
	FruitType   string  `json:"fruit_type"`
	Stock       int     `json:"stock"` // kilograms available
	InStock     bool    `json:"in_stock"`
}

// PackageSizes are the box sizes, in kilograms, the orchard ships.
var PackageSizes = []int{5, 10, 20}

// ValidPackageSize reports whether size is one of the offered box sizes.
func ValidPackageSize(size int) bool {
	for _, s := range PackageSizes {
		if s == size {
			return true
		}
	}
	return false
}

/*
Schema MySQL for products table:
CREATE TABLE `products` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `name` varchar(255) NOT NULL,
  `description` text NOT NULL,
  `image` varchar(512) NOT NULL,
  `price_per_kg` double NOT NULL,
  `category` varchar(100) NOT NULL,
  `fruit_type` varchar(50) NOT NULL,
  `stock` int(11) NOT NULL,
  PRIMARY KEY (`id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
