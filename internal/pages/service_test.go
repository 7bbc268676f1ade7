package pages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/pages"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreatePage(p models.Page) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStore) UpdatePage(p models.Page) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStore) DeletePage(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) GetPageByID(id string) (*models.Page, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockStore) GetPageBySlug(slug string) (*models.Page, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockStore) ListPages() ([]models.Page, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Page), args.Error(1)
}

func newTestService(store *MockStore) *pages.Service {
	return pages.NewService(store, logger.NewLogger())
}

func TestCreate_NormalizesSlug(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store)

	store.On("GetPageBySlug", "about-us").Return(nil, nil)
	store.On("CreatePage", mock.MatchedBy(func(p models.Page) bool {
		return p.Slug == "about-us" && p.LastEditedBy == "admin"
	})).Return(nil)

	p, err := svc.Create(models.PageRequest{Title: "About", Slug: " /About-Us/ "}, "admin")

	assert.NoError(t, err)
	assert.Equal(t, "about-us", p.Slug)
}

func TestCreate_RejectsDuplicateSlug(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store)

	store.On("GetPageBySlug", "about-us").Return(&models.Page{ID: "existing"}, nil)

	_, err := svc.Create(models.PageRequest{Title: "About", Slug: "about-us"}, "admin")

	assert.ErrorIs(t, err, pages.ErrSlugTaken)
	store.AssertNotCalled(t, "CreatePage", mock.Anything)
}

func TestCreate_RejectsInvalidSlug(t *testing.T) {
	svc := newTestService(new(MockStore))

	for _, slug := range []string{"has spaces", "UPPER_case!", "-leading", "trailing-"} {
		_, err := svc.Create(models.PageRequest{Title: "T", Slug: slug}, "admin")

		var vErr *pages.ValidationError
		assert.ErrorAs(t, err, &vErr, "slug %q", slug)
	}
}

func TestUpdate_AllowsKeepingOwnSlug(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store)

	current := &models.Page{ID: "page-1", Slug: "about-us", Title: "About"}
	store.On("GetPageByID", "page-1").Return(current, nil)
	store.On("UpdatePage", mock.MatchedBy(func(p models.Page) bool {
		return p.Slug == "about-us" && p.Title == "About Us"
	})).Return(nil)

	p, err := svc.Update("page-1", models.PageRequest{Title: "About Us", Slug: "about-us"}, "admin")

	assert.NoError(t, err)
	assert.Equal(t, "About Us", p.Title)
	// Slug unchanged, no uniqueness lookup needed.
	store.AssertNotCalled(t, "GetPageBySlug", mock.Anything)
}

func TestUpdate_UnknownPageReturnsNil(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store)

	store.On("GetPageByID", "missing").Return(nil, nil)

	p, err := svc.Update("missing", models.PageRequest{Title: "T", Slug: "t"}, "admin")

	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetPublished_HidesDrafts(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store)

	draft := &models.Page{ID: "page-1", Slug: "secret", Published: false}
	store.On("GetPageBySlug", "secret").Return(draft, nil)

	p, err := svc.GetPublished("secret")

	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetPublished_ServesPublishedPages(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store)

	live := &models.Page{ID: "page-1", Slug: "about-us", Published: true}
	store.On("GetPageBySlug", "about-us").Return(live, nil)

	p, err := svc.GetPublished("/About-Us")

	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, "page-1", p.ID)
}
