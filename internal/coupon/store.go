package coupon

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"workerbull/internal/models"
)

type Store struct {
	Bun *bun.DB
}

func (s *Store) CreateCoupon(c models.Coupon) error {
	_, err := s.Bun.NewInsert().Model(&c).Exec(context.Background())
	return err
}

// GetCouponByCode → nil when the code is unknown
func (s *Store) GetCouponByCode(code string) (*models.Coupon, error) {
	var c models.Coupon
	err := s.Bun.NewSelect().
		Model(&c).
		Where("code = ?", code).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CodeExists(code string) (bool, error) {
	return s.Bun.NewSelect().
		Model((*models.Coupon)(nil)).
		Where("code = ?", code).
		Exists(context.Background())
}

func (s *Store) ListCoupons() ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.Bun.NewSelect().
		Model(&coupons).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	return coupons, nil
}
