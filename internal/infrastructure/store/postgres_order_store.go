package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/webstore/internal/model"
	"github.com/lib/pq"
)

// PostgresOrderStore implements OrderStore on the orders and order_items tables.
type PostgresOrderStore struct {
	*Postgres
}

func NewPostgresOrderStore(pg *Postgres) *PostgresOrderStore {
	return &PostgresOrderStore{Postgres: pg}
}

func (s *PostgresOrderStore) Create(ctx context.Context, order *model.Order) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		row, err := s.queryRow(ctx, s.sb.
			Insert("orders").
			Columns("created_at", "status", "client_id", "user_id").
			Values(order.CreatedAt, string(order.Status), order.ClientID, order.UserID).
			Suffix("RETURNING id"))
		if err != nil {
			return err
		}
		if err := row.Scan(&order.ID); err != nil {
			return fmt.Errorf("insert order: %w", mapPQError(err))
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			row, err := s.queryRow(ctx, s.sb.
				Insert("order_items").
				Columns("order_id", "product_id", "quantity").
				Values(item.OrderID, item.ProductID, item.Quantity).
				Suffix("RETURNING id"))
			if err != nil {
				return err
			}
			if err := row.Scan(&item.ID); err != nil {
				return fmt.Errorf("insert order item: %w", mapPQError(err))
			}
		}
		return nil
	})
}

func (s *PostgresOrderStore) Get(ctx context.Context, id int) (*model.Order, error) {
	row, err := s.queryRow(ctx, s.sb.
		Select("id", "created_at", "status", "client_id", "user_id").
		From("orders").
		Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, []int{order.ID}, false)
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (s *PostgresOrderStore) GetDetailed(ctx context.Context, id int) (*model.Order, error) {
	orders, err := s.listDetailed(ctx, sq.Eq{"o.id": id})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}
	return &orders[0], nil
}

func (s *PostgresOrderStore) ListDetailed(ctx context.Context) ([]model.Order, error) {
	return s.listDetailed(ctx, nil)
}

func (s *PostgresOrderStore) listDetailed(ctx context.Context, where sq.Sqlizer) ([]model.Order, error) {
	b := s.sb.
		Select("o.id", "o.created_at", "o.status", "o.client_id", "o.user_id", "c.full_name", "c.email").
		From("orders o").
		Join("clients c ON c.id = o.client_id").
		OrderBy("o.id")
	if where != nil {
		b = b.Where(where)
	}

	rows, err := s.query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []int
	for rows.Next() {
		var (
			o      model.Order
			status string
			userID sql.NullInt64
			client model.Client
		)
		if err := rows.Scan(&o.ID, &o.CreatedAt, &status, &o.ClientID, &userID, &client.FullName, &client.Email); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.CreatedAt = o.CreatedAt.UTC()
		o.Status = model.OrderStatus(status)
		o.UserID = nullableInt(userID)
		client.ID = o.ClientID
		o.Client = &client
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := s.loadItems(ctx, ids, true)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// loadItems fetches the items of the given orders keyed by order id.
func (s *PostgresOrderStore) loadItems(ctx context.Context, orderIDs []int, withProducts bool) (map[int][]model.OrderItem, error) {
	cols := []string{"oi.id", "oi.order_id", "oi.product_id", "oi.quantity"}
	b := s.sb.Select().From("order_items oi").
		Where("oi.order_id = ANY(?)", pq.Array(orderIDs)).
		OrderBy("oi.order_id", "oi.id")
	if withProducts {
		b = b.Join("products p ON p.id = oi.product_id")
		cols = append(cols, prefixed("p.", productColumns)...)
	}
	b = b.Columns(cols...)

	rows, err := s.query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var item model.OrderItem
		dest := []any{&item.ID, &item.OrderID, &item.ProductID, &item.Quantity}
		var p *model.Product
		var pd productDest
		if withProducts {
			p = &model.Product{}
			dest = append(dest, pd.targets(p)...)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if p != nil {
			pd.apply(p)
			item.Product = p
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}
	return out, rows.Err()
}

func (s *PostgresOrderStore) UpdateStatus(ctx context.Context, id int, status model.OrderStatus) error {
	return s.execOne(ctx, s.sb.
		Update("orders").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}))
}

func (s *PostgresOrderStore) ReservedQuantity(ctx context.Context, productID int) (int, error) {
	return s.sumQuantity(ctx, s.reservedQuery(productID))
}

func (s *PostgresOrderStore) SoldQuantity(ctx context.Context, productID int) (int, error) {
	return s.sumQuantity(ctx, s.soldQuery(productID))
}

// reservedQuery counts every order that is not Cancelled.
func (s *PostgresOrderStore) reservedQuery(productID int) sq.SelectBuilder {
	return s.quantityQuery(productID).Where(sq.NotEq{"o.status": string(model.OrderCancelled)})
}

// soldQuery counts Confirmed orders only.
func (s *PostgresOrderStore) soldQuery(productID int) sq.SelectBuilder {
	return s.quantityQuery(productID).Where(sq.Eq{"o.status": string(model.OrderConfirmed)})
}

func (s *PostgresOrderStore) quantityQuery(productID int) sq.SelectBuilder {
	return s.sb.
		Select("COALESCE(SUM(oi.quantity), 0)").
		From("order_items oi").
		Join("orders o ON o.id = oi.order_id").
		Where(sq.Eq{"oi.product_id": productID})
}

func (s *PostgresOrderStore) sumQuantity(ctx context.Context, b sq.SelectBuilder) (int, error) {
	row, err := s.queryRow(ctx, b)
	if err != nil {
		return 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum order quantity: %w", err)
	}
	return total, nil
}

func (s *PostgresOrderStore) ConfirmedSales(ctx context.Context, from, to time.Time) ([]model.SalesLine, error) {
	rows, err := s.query(ctx, s.sb.
		Select("o.id", "p.id", "p.name", "p.price", "p.discount_percent", "oi.quantity").
		From("orders o").
		Join("order_items oi ON oi.order_id = o.id").
		Join("products p ON p.id = oi.product_id").
		Where(sq.Eq{"o.status": string(model.OrderConfirmed)}).
		Where(sq.GtOrEq{"o.created_at": from}).
		Where(sq.LtOrEq{"o.created_at": to}).
		OrderBy("o.id", "oi.id"))
	if err != nil {
		return nil, fmt.Errorf("confirmed sales: %w", err)
	}
	defer rows.Close()

	var lines []model.SalesLine
	for rows.Next() {
		var l model.SalesLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Price, &l.DiscountPercent, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan sales line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o      model.Order
		status string
		userID sql.NullInt64
	)
	if err := row.Scan(&o.ID, &o.CreatedAt, &status, &o.ClientID, &userID); err != nil {
		return nil, mapPQError(err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.Status = model.OrderStatus(status)
	o.UserID = nullableInt(userID)
	return &o, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func prefixed(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return out
}
