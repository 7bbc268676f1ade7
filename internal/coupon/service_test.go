package coupon_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workerbull/internal/coupon"
	"workerbull/internal/logger"
	"workerbull/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateCoupon(c models.Coupon) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStore) GetCouponByCode(code string) (*models.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockStore) CodeExists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListCoupons() ([]models.Coupon, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coupon), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, html string) error {
	args := m.Called(to, subject, html)
	return args.Error(0)
}

func newTestService(store *MockStore, mailer *MockMailer) *coupon.Service {
	return coupon.NewService(store, nil, mailer, logger.NewLogger())
}

func validRequest() models.CouponCreateRequest {
	return models.CouponCreateRequest{
		FirstName: "Sam",
		LastName:  "Porter",
		Email:     "sam@example.com",
		Discount:  10,
	}
}

func TestCreate_GeneratesSixCharCodeAndEmailsOwner(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	svc := newTestService(store, mailer)

	store.On("CodeExists", mock.Anything).Return(false, nil)
	store.On("CreateCoupon", mock.MatchedBy(func(c models.Coupon) bool {
		return len(c.Code) == 6 && c.Email == "sam@example.com" && c.Discount == 10
	})).Return(nil)
	mailer.On("Send", "sam@example.com", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.Create(validRequest())

	assert.NoError(t, err)
	assert.Len(t, c.Code, 6)
	store.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestCreate_RetriesOnCodeCollision(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	svc := newTestService(store, mailer)

	store.On("CodeExists", mock.Anything).Return(true, nil).Once()
	store.On("CodeExists", mock.Anything).Return(false, nil).Once()
	store.On("CreateCoupon", mock.Anything).Return(nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(validRequest())

	assert.NoError(t, err)
	store.AssertNumberOfCalls(t, "CodeExists", 2)
}

func TestCreate_ExplicitCodeIsUppercasedAndChecked(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	svc := newTestService(store, mailer)

	req := validRequest()
	req.Code = "launch25"

	store.On("CodeExists", "LAUNCH25").Return(false, nil)
	store.On("CreateCoupon", mock.MatchedBy(func(c models.Coupon) bool {
		return c.Code == "LAUNCH25"
	})).Return(nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	c, err := svc.Create(req)

	assert.NoError(t, err)
	assert.Equal(t, "LAUNCH25", c.Code)
}

func TestCreate_RejectsTakenExplicitCode(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store, new(MockMailer))

	req := validRequest()
	req.Code = "TAKEN1"
	store.On("CodeExists", "TAKEN1").Return(true, nil)

	_, err := svc.Create(req)

	assert.ErrorIs(t, err, coupon.ErrCodeTaken)
	store.AssertNotCalled(t, "CreateCoupon", mock.Anything)
}

func TestCreate_RejectsBadDiscount(t *testing.T) {
	svc := newTestService(new(MockStore), new(MockMailer))

	for _, discount := range []int{0, -5, 101} {
		req := validRequest()
		req.Discount = discount
		_, err := svc.Create(req)

		var vErr *coupon.ValidationError
		assert.ErrorAs(t, err, &vErr, "discount %d", discount)
	}
}

func TestCreate_MailFailureDoesNotFailCreation(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	svc := newTestService(store, mailer)

	store.On("CodeExists", mock.Anything).Return(false, nil)
	store.On("CreateCoupon", mock.Anything).Return(nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	_, err := svc.Create(validRequest())

	assert.NoError(t, err)
}

func TestLookup_NormalizesCode(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store, new(MockMailer))

	known := &models.Coupon{Code: "SAVE10", Discount: 10}
	store.On("GetCouponByCode", "SAVE10").Return(known, nil)

	c, err := svc.Lookup("  save10 ")

	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
}

func TestLookup_UnknownCodeReturnsNil(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store, new(MockMailer))

	store.On("GetCouponByCode", "NOPE99").Return(nil, nil)

	c, err := svc.Lookup("NOPE99")

	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestLookup_EmptyCodeShortCircuits(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store, new(MockMailer))

	c, err := svc.Lookup("")

	assert.NoError(t, err)
	assert.Nil(t, c)
	store.AssertNotCalled(t, "GetCouponByCode", mock.Anything)
}
