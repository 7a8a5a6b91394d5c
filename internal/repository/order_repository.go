package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// OrderRepository persists orders and their item snapshots in MySQL.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

const orderColumns = `id, invoice_number, customer_name, customer_email, customer_phone,
	customer_address, customer_city, customer_state, customer_postal_code,
	total_amount, status, COALESCE(payment_session_id, ''), created_at, updated_at`

// CreateOrder inserts the order row and its item rows in one transaction so
// a half-written order is never observable. A duplicate invoice number is
// reported as entity.ErrDuplicateInvoice so the caller can regenerate.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	orderQuery := `
		INSERT INTO orders (invoice_number, customer_name, customer_email, customer_phone,
			customer_address, customer_city, customer_state, customer_postal_code,
			total_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery,
		order.InvoiceNumber,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		order.Customer.Address, order.Customer.City, order.Customer.State, order.Customer.PostalCode,
		order.TotalAmount, string(order.Status), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %s", entity.ErrDuplicateInvoice, order.InvoiceNumber)
		}
		return err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return err
	}

	// Insert items with batch
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, price_per_kg, package_size, quantity, subtotal)
		VALUES `

	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.ProductName, item.PricePerKg, item.PackageSize, item.Quantity, item.Subtotal)
	}

	// Remove the trailing comma
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	order.ID = int(orderID)
	return nil
}

// AttachPaymentSession records the processor's session handle on the order.
func (r *OrderRepository) AttachPaymentSession(ctx context.Context, invoiceNumber, sessionID string) error {
	query := `UPDATE orders SET payment_session_id = ?, updated_at = ? WHERE invoice_number = ?`
	_, err := r.db.ExecContext(ctx, query, sessionID, time.Now().UTC(), invoiceNumber)
	return err
}

// GetByInvoiceAndPhone fetches one order by the two-factor tracking key. A
// missing invoice and a phone mismatch are indistinguishable: both return
// entity.ErrNotFound.
func (r *OrderRepository) GetByInvoiceAndPhone(ctx context.Context, invoiceNumber, phone string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE invoice_number = ? AND customer_phone = ?`
	return r.getOrder(ctx, query, invoiceNumber, phone)
}

// GetBySessionID fetches one order by its payment session handle.
func (r *OrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_session_id = ?`
	return r.getOrder(ctx, query, sessionID)
}

// GetByInvoice fetches one order by invoice number alone. Internal use only;
// the public tracking path always goes through GetByInvoiceAndPhone.
func (r *OrderRepository) GetByInvoice(ctx context.Context, invoiceNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE invoice_number = ?`
	return r.getOrder(ctx, query, invoiceNumber)
}

// AdvanceStatusBySession moves the matched order to the given status only if
// its current status is an allowed predecessor. The guard lives in the WHERE
// clause, so duplicate or out-of-order webhook deliveries fall through as
// no-ops. Returns whether a row was updated.
func (r *OrderRepository) AdvanceStatusBySession(ctx context.Context, sessionID string, to entity.OrderStatus) (bool, error) {
	return r.advanceStatus(ctx, "payment_session_id", sessionID, to)
}

// AdvanceStatusByInvoice is the fulfillment-side variant of the same guarded
// transition.
func (r *OrderRepository) AdvanceStatusByInvoice(ctx context.Context, invoiceNumber string, to entity.OrderStatus) (bool, error) {
	return r.advanceStatus(ctx, "invoice_number", invoiceNumber, to)
}

func (r *OrderRepository) advanceStatus(ctx context.Context, keyColumn, key string, to entity.OrderStatus) (bool, error) {
	froms := entity.TransitionsInto(to)
	if len(froms) == 0 {
		return false, fmt.Errorf("no transition leads to status %s", to)
	}

	query := fmt.Sprintf(
		`UPDATE orders SET status = ?, updated_at = ? WHERE %s = ? AND status IN (?%s)`,
		keyColumn,
		repeatPlaceholder(len(froms)-1),
	)

	args := []interface{}{string(to), time.Now().UTC(), key}
	for _, from := range froms {
		args = append(args, string(from))
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *OrderRepository) getOrder(ctx context.Context, query string, args ...interface{}) (*entity.Order, error) {
	order := &entity.Order{}
	var status string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&order.ID, &order.InvoiceNumber,
		&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.Customer.Address, &order.Customer.City, &order.Customer.State, &order.Customer.PostalCode,
		&order.TotalAmount, &status, &order.PaymentSessionID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	order.Status = entity.OrderStatus(status)

	itemQuery := `SELECT product_id, product_name, price_per_kg, package_size, quantity, subtotal
		FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, itemQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.OrderItem{}
		err := rows.Scan(&item.ProductID, &item.ProductName, &item.PricePerKg, &item.PackageSize, &item.Quantity, &item.Subtotal)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
