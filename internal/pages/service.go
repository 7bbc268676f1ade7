package pages

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"workerbull/internal/logger"
	"workerbull/internal/models"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// ErrSlugTaken is returned when another page already owns the slug.
var ErrSlugTaken = fmt.Errorf("slug already in use")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type StoreLayer interface {
	CreatePage(p models.Page) error
	UpdatePage(p models.Page) error
	DeletePage(id string) error
	GetPageByID(id string) (*models.Page, error)
	GetPageBySlug(slug string) (*models.Page, error)
	ListPages() ([]models.Page, error)
}

type Service struct {
	Store  StoreLayer
	Logger *logger.Logger
}

func NewService(store StoreLayer, log *logger.Logger) *Service {
	return &Service{Store: store, Logger: log}
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(slug), "/"))
}

func (s *Service) validate(req models.PageRequest) (string, error) {
	if req.Title == "" || req.Slug == "" {
		return "", &ValidationError{msg: "Title and slug are required"}
	}
	slug := normalizeSlug(req.Slug)
	if !slugPattern.MatchString(slug) {
		return "", &ValidationError{msg: "Slug may contain lowercase letters, digits and hyphens only"}
	}
	return slug, nil
}

func (s *Service) Create(req models.PageRequest, editor string) (*models.Page, error) {
	slug, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.GetPageBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("slug lookup failed: %w", err)
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	p := models.Page{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		Published:       req.Published,
		LastEditedBy:    editor,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.Store.CreatePage(p); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.Logger.Info("PAGES", fmt.Sprintf("created page %s (/%s)", p.ID, p.Slug))
	return &p, nil
}

func (s *Service) Update(id string, req models.PageRequest, editor string) (*models.Page, error) {
	slug, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	current, err := s.Store.GetPageByID(id)
	if err != nil {
		return nil, fmt.Errorf("page lookup failed: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	if slug != current.Slug {
		existing, err := s.Store.GetPageBySlug(slug)
		if err != nil {
			return nil, fmt.Errorf("slug lookup failed: %w", err)
		}
		if existing != nil {
			return nil, ErrSlugTaken
		}
	}

	current.Title = req.Title
	current.Slug = slug
	current.Content = req.Content
	current.MetaDescription = req.MetaDescription
	current.Published = req.Published
	current.LastEditedBy = editor
	current.UpdatedAt = time.Now()

	if err := s.Store.UpdatePage(*current); err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	return current, nil
}

func (s *Service) Delete(id string) error {
	return s.Store.DeletePage(id)
}

func (s *Service) Get(id string) (*models.Page, error) {
	return s.Store.GetPageByID(id)
}

// GetPublished resolves a slug for public rendering. Drafts stay hidden.
func (s *Service) GetPublished(slug string) (*models.Page, error) {
	p, err := s.Store.GetPageBySlug(normalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Published {
		return nil, nil
	}
	return p, nil
}

func (s *Service) List() ([]models.Page, error) {
	return s.Store.ListPages()
}
