package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// ErrProductNotFound is returned when a catalog lookup matches no row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository reads and adjusts the static catalog.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT id, name, description, image, price_per_kg, category, fruit_type, stock FROM products WHERE id = ?`

	product := &entity.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Image,
		&product.PricePerKg, &product.Category, &product.FruitType, &product.Stock,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	product.InStock = product.Stock > 0

	return product, nil
}

// ListProducts returns the catalog, optionally filtered by category and
// fruit type.
func (r *ProductRepository) ListProducts(ctx context.Context, category, fruitType string) ([]entity.Product, error) {
	query := `SELECT id, name, description, image, price_per_kg, category, fruit_type, stock FROM products WHERE 1=1`
	var args []interface{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	if fruitType != "" {
		query += ` AND fruit_type = ?`
		args = append(args, fruitType)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		product := entity.Product{}
		err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Image,
			&product.PricePerKg, &product.Category, &product.FruitType, &product.Stock,
		)
		if err != nil {
			return nil, err
		}
		product.InStock = product.Stock > 0
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// AdjustStock adds delta kilograms to a product's stock, clamped at zero.
func (r *ProductRepository) AdjustStock(ctx context.Context, id, delta int) error {
	query := `UPDATE products SET stock = GREATEST(stock + ?, 0) WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, delta, id)
	return err
}
