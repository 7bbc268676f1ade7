package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"workerbull/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

// CreateOrder → insert new order
func (d *DB) CreateOrder(order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

// UpdateOrder → update the mutable reconciliation fields
func (d *DB) UpdateOrder(order models.Order) error {
	_, err := d.Bun.NewUpdate().
		Model(&order).
		Column("payment_status", "stripe_session_id", "status", "meeting_link", "notes", "updated_at").
		Where("id = ?", order.ID).
		Exec(context.Background())
	return err
}

// GetOrderByID → fetch one order, nil when absent
func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderBySessionID → the single indexed lookup webhook reconciliation
// uses, regardless of order kind
func (d *DB) GetOrderBySessionID(sessionID string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("stripe_session_id = ?", sessionID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetBookingBySlot → find a consultation holding the slot. Cancelled
// bookings release their slot.
func (d *DB) GetBookingBySlot(date, timeSlot string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("kind = ?", models.KindConsultation).
		Where("slot_date = ?", date).
		Where("slot_time = ?", timeSlot).
		Where("status IN (?)", bun.In([]models.BookingStatus{models.BookingScheduled, models.BookingCompleted})).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByKind → newest first for the admin dashboard
func (d *DB) ListOrdersByKind(kind models.OrderKind, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("kind = ?", kind).
		Order("created_at DESC").
		Limit(limit).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrderStats → totals for one order kind. Revenue counts completed
// payments only.
func (d *DB) GetOrderStats(kind models.OrderKind) (*models.OrderStats, error) {
	ctx := context.Background()
	stats := &models.OrderStats{}

	total, err := d.Bun.NewSelect().
		Model((*models.Order)(nil)).
		Where("kind = ?", kind).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Total = total

	completed, err := d.Bun.NewSelect().
		Model((*models.Order)(nil)).
		Where("kind = ?", kind).
		Where("payment_status = ?", models.PaymentCompleted).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Completed = completed

	pending, err := d.Bun.NewSelect().
		Model((*models.Order)(nil)).
		Where("kind = ?", kind).
		Where("payment_status = ?", models.PaymentPending).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Pending = pending

	err = d.Bun.NewSelect().
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Model((*models.Order)(nil)).
		Where("kind = ?", kind).
		Where("payment_status = ?", models.PaymentCompleted).
		Scan(ctx, &stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// ListOrphanedPendingOrders → pending orders that never got a checkout
// session and are older than the cutoff
func (d *DB) ListOrphanedPendingOrders(olderThan time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("payment_status = ?", models.PaymentPending).
		Where("stripe_session_id = ''").
		Where("created_at < ?", olderThan).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}
