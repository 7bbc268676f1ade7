package coupon

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/notify"
	"workerbull/internal/utils"
)

const maxCodeAttempts = 10

// ErrCodeTaken is returned when an explicitly requested code already exists.
var ErrCodeTaken = fmt.Errorf("coupon code already exists")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^[A-Z0-9]{4,12}$`)
)

type StoreLayer interface {
	CreateCoupon(c models.Coupon) error
	GetCouponByCode(code string) (*models.Coupon, error)
	CodeExists(code string) (bool, error)
	ListCoupons() ([]models.Coupon, error)
}

type Mailer interface {
	Send(to, subject, html string) error
}

type Service struct {
	Store  StoreLayer
	Cache  *Cache
	Mailer Mailer
	Logger *logger.Logger
}

func NewService(store StoreLayer, cache *Cache, mailer Mailer, log *logger.Logger) *Service {
	return &Service{Store: store, Cache: cache, Mailer: mailer, Logger: log}
}

// Create issues a coupon for an affiliate. When no code is requested a
// unique 6-character code is generated, retrying on collision.
func (s *Service) Create(req models.CouponCreateRequest) (*models.Coupon, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, &ValidationError{msg: "First name, last name and email are required"}
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, &ValidationError{msg: "Invalid email address"}
	}
	if req.Discount <= 0 || req.Discount > 100 {
		return nil, &ValidationError{msg: "Discount must be between 1 and 100"}
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code != "" {
		if !codePattern.MatchString(code) {
			return nil, &ValidationError{msg: "Coupon code must be 4-12 uppercase letters or digits"}
		}
		exists, err := s.Store.CodeExists(code)
		if err != nil {
			return nil, fmt.Errorf("code lookup failed: %w", err)
		}
		if exists {
			return nil, ErrCodeTaken
		}
	} else {
		var err error
		code, err = s.generateUniqueCode()
		if err != nil {
			return nil, err
		}
	}

	c := models.Coupon{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Code:      code,
		Discount:  req.Discount,
		CreatedAt: time.Now(),
	}
	if err := s.Store.CreateCoupon(c); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	s.Cache.Set(context.Background(), c)
	s.Logger.Info("COUPON", fmt.Sprintf("issued code %s to %s", c.Code, c.Email))

	subject, html := notify.CouponIssued(c.FirstName, c.Code, c.Discount)
	if err := s.Mailer.Send(c.Email, subject, html); err != nil {
		s.Logger.Error("EMAIL", fmt.Sprintf("failed to send coupon email to %s: %v", c.Email, err))
	}

	return &c, nil
}

func (s *Service) generateUniqueCode() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := utils.GenerateCouponCode()
		exists, err := s.Store.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("code lookup failed: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique coupon code after %d attempts", maxCodeAttempts)
}

// Lookup resolves a code through the cache, falling back to the store.
// Returns nil for unknown codes.
func (s *Service) Lookup(code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	ctx := context.Background()
	if cached := s.Cache.Get(ctx, code); cached != nil {
		return cached, nil
	}

	c, err := s.Store.GetCouponByCode(code)
	if err != nil {
		return nil, err
	}
	if c != nil {
		s.Cache.Set(ctx, *c)
	}
	return c, nil
}

func (s *Service) List() ([]models.Coupon, error) {
	return s.Store.ListCoupons()
}
