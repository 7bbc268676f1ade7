package pages

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

func (s *Store) CreatePage(p models.Page) error {
	_, err := s.Bun.NewInsert().Model(&p).Exec(context.Background())
	return err
}

func (s *Store) UpdatePage(p models.Page) error {
	res, err := s.Bun.NewUpdate().
		Model(&p).
		Column("title", "slug", "content", "meta_description", "published", "last_edited_by", "updated_at").
		Where("id = ?", p.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) DeletePage(id string) error {
	res, err := s.Bun.NewDelete().
		Model((*models.Page)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) GetPageByID(id string) (*models.Page, error) {
	var p models.Page
	err := s.Bun.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPageBySlug(slug string) (*models.Page, error) {
	var p models.Page
	err := s.Bun.NewSelect().
		Model(&p).
		Where("slug = ?", slug).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPages() ([]models.Page, error) {
	var pages []models.Page
	err := s.Bun.NewSelect().
		Model(&pages).
		Order("updated_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []models.Page{}
	}
	return pages, nil
}
