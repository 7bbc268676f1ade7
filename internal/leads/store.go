package leads

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

// ---------------- WAITLIST ----------------

func (s *Store) CreateWaitlistEntry(e models.WaitlistEntry) error {
	_, err := s.Bun.NewInsert().Model(&e).Exec(context.Background())
	return err
}

func (s *Store) GetWaitlistEntryByEmail(email string) (*models.WaitlistEntry, error) {
	var e models.WaitlistEntry
	err := s.Bun.NewSelect().
		Model(&e).
		Where("email = ?", email).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListWaitlist() ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.Bun.NewSelect().
		Model(&entries).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}
	return entries, nil
}

// ---------------- CONTACT ----------------

func (s *Store) CreateContactMessage(m models.ContactMessage) error {
	_, err := s.Bun.NewInsert().Model(&m).Exec(context.Background())
	return err
}

func (s *Store) ListContactMessages() ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := s.Bun.NewSelect().
		Model(&messages).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	return messages, nil
}

func (s *Store) UpdateContactStatus(id string, status models.ContactStatus) error {
	res, err := s.Bun.NewUpdate().
		Model((*models.ContactMessage)(nil)).
		Set("status = ?", status).
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

// ---------------- AFFILIATES ----------------

func (s *Store) CreateAffiliateRequest(a models.AffiliateRequest) error {
	_, err := s.Bun.NewInsert().Model(&a).Exec(context.Background())
	return err
}

func (s *Store) ListAffiliateRequests() ([]models.AffiliateRequest, error) {
	var requests []models.AffiliateRequest
	err := s.Bun.NewSelect().
		Model(&requests).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.AffiliateRequest{}
	}
	return requests, nil
}

func (s *Store) UpdateAffiliateStatus(id string, status models.AffiliateStatus) error {
	res, err := s.Bun.NewUpdate().
		Model((*models.AffiliateRequest)(nil)).
		Set("status = ?", status).
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
