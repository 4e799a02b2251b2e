package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

const mysqlErrDuplicateEntry = 1062

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders
 (id,user_id,restaurant_id,items_json,total_cents,currency,delivery_address,
  payment_status,delivery_status,gateway_order_id,gateway_payment_id,gateway_signature,
  paid_at,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
`, o.ID, o.UserID, o.RestaurantID, itemsJSON, o.TotalCents, o.Currency, o.DeliveryAddress,
		o.PaymentStatus, o.DeliveryStatus, o.GatewayOrderID, o.GatewayPaymentID, o.GatewaySignature,
		o.PaidAt)
	if err != nil {
		var me *mysql.MySQLError
		// unique key on gateway_order_id: second verification of one session
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return usecase.ErrDuplicate
		}
		return err
	}
	return nil
}

const orderColumns = `
id,user_id,restaurant_id,items_json,total_cents,currency,delivery_address,
payment_status,delivery_status,gateway_order_id,gateway_payment_id,gateway_signature,
paid_at,created_at`

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) GetByGatewayOrderID(ctx context.Context, gwOrderID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE gateway_order_id=?`, gwOrderID)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderColumns+` FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *MySQLOrderRepo) UpdateDeliveryStatusIf(ctx context.Context, id string, fromStatus, toStatus domain.DeliveryStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET delivery_status = ?, updated_at = NOW()
        WHERE id = ? AND delivery_status = ?`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 -> nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	o, err := scanOrderRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrNotFound
	}
	return o, err
}

func scanOrderRows(s rowScanner) (*domain.Order, error) {
	var (
		o         domain.Order
		itemsJSON []byte
		paidAt    sql.NullTime
	)
	if err := s.Scan(&o.ID, &o.UserID, &o.RestaurantID, &itemsJSON, &o.TotalCents, &o.Currency,
		&o.DeliveryAddress, &o.PaymentStatus, &o.DeliveryStatus, &o.GatewayOrderID,
		&o.GatewayPaymentID, &o.GatewaySignature, &paidAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if paidAt.Valid {
		o.PaidAt = paidAt.Time
	}
	return &o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
