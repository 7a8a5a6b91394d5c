package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrateOrders creates the orders table if it does not exist.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			invoice_number VARCHAR(16) NOT NULL UNIQUE,
			customer_name VARCHAR(255) NOT NULL,
			customer_email VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(10) NOT NULL,
			customer_address TEXT NOT NULL,
			customer_city VARCHAR(100) NOT NULL,
			customer_state VARCHAR(100) NOT NULL,
			customer_postal_code VARCHAR(6) NOT NULL,
			total_amount DOUBLE NOT NULL,
			status VARCHAR(20) NOT NULL,
			payment_session_id VARCHAR(255),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			INDEX idx_payment_session (payment_session_id),
			INDEX idx_phone (customer_phone)
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrderItems creates the order_items table if it does not exist.
func AutoMigrateOrderItems(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			price_per_kg DOUBLE NOT NULL,
			package_size INT NOT NULL,
			quantity INT NOT NULL,
			subtotal DOUBLE NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateProducts creates the products table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			image VARCHAR(512) NOT NULL,
			price_per_kg DOUBLE NOT NULL,
			category VARCHAR(100) NOT NULL,
			fruit_type VARCHAR(50) NOT NULL,
			stock INT NOT NULL
		);
	`
	return execWithRetry(db, query, retries)
}

// SeedProducts loads the orchard's catalog when the products table is empty.
func SeedProducts(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO products (name, description, image, price_per_kg, category, fruit_type, stock) VALUES
		('Royal Delicious Apples', 'Crisp, sweet apples from high-altitude Himalayan orchards', '/images/royal-delicious.jpg', 180, 'Premium', 'apple', 500),
		('Golden Delicious Apples', 'Mellow, honeyed apples picked at peak ripeness', '/images/golden-delicious.jpg', 160, 'Premium', 'apple', 400),
		('Granny Smith Apples', 'Tart green apples, ideal for baking', '/images/granny-smith.jpg', 150, 'Classic', 'apple', 300),
		('Bartlett Pears', 'Juicy, aromatic pears from the valley slopes', '/images/bartlett-pear.jpg', 140, 'Classic', 'pear', 250),
		('Santa Rosa Plums', 'Deep crimson plums with a sweet-tart bite', '/images/santa-rosa-plum.jpg', 220, 'Seasonal', 'plum', 200),
		('July Elberta Peaches', 'Fragrant freestone peaches, tree ripened', '/images/elberta-peach.jpg', 240, 'Seasonal', 'peach', 150),
		('New Castle Apricots', 'Small, intensely flavoured hill apricots', '/images/new-castle-apricot.jpg', 260, 'Seasonal', 'apricot', 120),
		('Black Heart Cherries', 'Dark, firm cherries from the upper orchard', '/images/black-heart-cherry.jpg', 450, 'Premium', 'cherry', 80);
	`
	_, err := db.Exec(query)
	return err
}

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	if err != nil {
		// Retry creating the table
		for i := 0; i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
			if err == nil {
				break
			}
		}
	}
	return err
}
