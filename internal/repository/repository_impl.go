package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alimikegami/ppob-storefront/internal/domain"
	pkgdto "github.com/alimikegami/ppob-storefront/pkg/dto"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type OrderRepositoryImpl struct {
	db *sqlx.DB
}

func CreateOrderRepository(db *sqlx.DB) OrderRepository {
	return &OrderRepositoryImpl{
		db: db,
	}
}

func (r *OrderRepositoryImpl) AddOrder(ctx context.Context, data domain.Order) (err error) {
	_, err = r.db.NamedExecContext(ctx, `INSERT INTO orders(order_id, category, buyer_sku_code, product_name, customer_no, base_price, fee_amount, total_amount, payment_method, payment_type, status, expired_at, created_at, updated_at)
		VALUES (:order_id, :category, :buyer_sku_code, :product_name, :customer_no, :base_price, :fee_amount, :total_amount, :payment_method, :payment_type, :status, :expired_at, :created_at, :updated_at)`, data)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errs.ErrDuplicateOrder
		}

		log.Error().Err(err).Str("component", "AddOrder").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *OrderRepositoryImpl) GetOrderByOrderID(ctx context.Context, orderID string) (data domain.Order, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM orders WHERE order_id = $1 AND deleted_at IS NULL", orderID)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrNotFound
		}

		log.Error().Err(err).Str("component", "GetOrderByOrderID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *OrderRepositoryImpl) MarkCharged(ctx context.Context, data domain.Order) (err error) {
	data.Status = domain.OrderStatusCharged
	data.UpdatedAt = time.Now().Unix()

	_, err = r.db.NamedExecContext(ctx, `UPDATE orders SET status = :status, payment_type = :payment_type, qr_string = :qr_string, payment_code = :payment_code, redirect_url = :redirect_url, gateway_transaction_id = :gateway_transaction_id, expired_at = :expired_at, updated_at = :updated_at
		WHERE order_id = :order_id AND status = 'created' AND deleted_at IS NULL`, data)
	if err != nil {
		log.Error().Err(err).Str("component", "MarkCharged").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *OrderRepositoryImpl) ClaimPaid(ctx context.Context, orderID string, paidAt int64) (claimed bool, err error) {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET status = 'paid', paid_at = $2, updated_at = $2 WHERE order_id = $1 AND status = 'charged' AND deleted_at IS NULL`, orderID, paidAt)
	if err != nil {
		log.Error().Err(err).Str("component", "ClaimPaid").Msg("")
		return false, errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "ClaimPaid").Msg("")
		return false, errs.ErrInternalServer
	}

	return affected == 1, nil
}

func (r *OrderRepositoryImpl) RecordFulfillment(ctx context.Context, orderID string, refID string, serialNumber string) (err error) {
	_, err = r.db.ExecContext(ctx, `UPDATE orders SET status = 'fulfilled', ref_id = $2, serial_number = $3, updated_at = $4 WHERE order_id = $1 AND deleted_at IS NULL`, orderID, refID, serialNumber, time.Now().Unix())
	if err != nil {
		log.Error().Err(err).Str("component", "RecordFulfillment").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *OrderRepositoryImpl) RecordFailure(ctx context.Context, orderID string, refID string, reason string, status domain.OrderStatus) (err error) {
	_, err = r.db.ExecContext(ctx, `UPDATE orders SET status = $2, ref_id = NULLIF($3, ''), failure_reason = $4, updated_at = $5 WHERE order_id = $1 AND deleted_at IS NULL`, orderID, status, refID, reason, time.Now().Unix())
	if err != nil {
		log.Error().Err(err).Str("component", "RecordFailure").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *OrderRepositoryImpl) GetOrders(ctx context.Context, filter pkgdto.Filter) (data []domain.Order, total int, err error) {
	query := "SELECT * FROM orders WHERE deleted_at IS NULL"
	countQuery := "SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Status != "" {
		query += " AND status = :status"
		countQuery += " AND status = :status"
		args["status"] = filter.Status
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return nil, 0, errs.ErrInternalServer
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return nil, 0, errs.ErrInternalServer
	}

	countStmt, err := r.db.PrepareNamedContext(ctx, countQuery)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return nil, 0, errs.ErrInternalServer
	}
	defer countStmt.Close()

	err = countStmt.GetContext(ctx, &total, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return nil, 0, errs.ErrInternalServer
	}

	return
}

func (r *OrderRepositoryImpl) ExpireStaleOrders(ctx context.Context, now int64) (count int64, err error) {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET status = 'expired', updated_at = $1 WHERE status IN ('created', 'charged') AND expired_at < $1 AND deleted_at IS NULL`, now)
	if err != nil {
		log.Error().Err(err).Str("component", "ExpireStaleOrders").Msg("")
		return 0, errs.ErrInternalServer
	}

	count, err = result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "ExpireStaleOrders").Msg("")
		return 0, errs.ErrInternalServer
	}

	return count, nil
}
