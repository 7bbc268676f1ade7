package leads

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/notify"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type StoreLayer interface {
	CreateWaitlistEntry(e models.WaitlistEntry) error
	GetWaitlistEntryByEmail(email string) (*models.WaitlistEntry, error)
	ListWaitlist() ([]models.WaitlistEntry, error)
	CreateContactMessage(m models.ContactMessage) error
	ListContactMessages() ([]models.ContactMessage, error)
	UpdateContactStatus(id string, status models.ContactStatus) error
	CreateAffiliateRequest(a models.AffiliateRequest) error
	ListAffiliateRequests() ([]models.AffiliateRequest, error)
	UpdateAffiliateStatus(id string, status models.AffiliateStatus) error
}

type Mailer interface {
	Send(to, subject, html string) error
}

type Service struct {
	Store      StoreLayer
	Mailer     Mailer
	AdminInbox string
	Logger     *logger.Logger
}

func NewService(store StoreLayer, mailer Mailer, adminInbox string, log *logger.Logger) *Service {
	return &Service{Store: store, Mailer: mailer, AdminInbox: adminInbox, Logger: log}
}

type WaitlistRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
}

// JoinWaitlist stores a signup and sends the welcome email. Signing up
// twice with the same address is rejected.
func (s *Service) JoinWaitlist(req WaitlistRequest) (*models.WaitlistEntry, error) {
	if req.Name == "" || req.Email == "" {
		return nil, &ValidationError{msg: "Name and email are required"}
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, &ValidationError{msg: "Invalid email address"}
	}

	email := strings.ToLower(req.Email)
	existing, err := s.Store.GetWaitlistEntryByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("waitlist lookup failed: %w", err)
	}
	if existing != nil {
		return nil, &ValidationError{msg: "You're already on the waitlist"}
	}

	e := models.WaitlistEntry{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		Source:    req.Source,
		CreatedAt: time.Now(),
	}
	if err := s.Store.CreateWaitlistEntry(e); err != nil {
		return nil, fmt.Errorf("failed to save waitlist entry: %w", err)
	}

	subject, html := notify.WaitlistWelcome(e.Name)
	if err := s.Mailer.Send(e.Email, subject, html); err != nil {
		s.Logger.Error("EMAIL", fmt.Sprintf("waitlist welcome failed for %s: %v", e.Email, err))
	}
	return &e, nil
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContact stores the message and sends two emails: an acknowledgement
// to the sender and a notice to the team inbox.
func (s *Service) SubmitContact(req ContactRequest) (*models.ContactMessage, error) {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return nil, &ValidationError{msg: "Name, email and message are required"}
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, &ValidationError{msg: "Invalid email address"}
	}

	m := models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     strings.ToLower(req.Email),
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.ContactNew,
		CreatedAt: time.Now(),
	}
	if err := s.Store.CreateContactMessage(m); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	subject, html := notify.ContactAcknowledgement(m.Name)
	if err := s.Mailer.Send(m.Email, subject, html); err != nil {
		s.Logger.Error("EMAIL", fmt.Sprintf("contact acknowledgement failed for %s: %v", m.Email, err))
	}
	if s.AdminInbox != "" {
		subject, html = notify.ContactAdminNotice(m.Name, m.Email, m.Subject, m.Message)
		if err := s.Mailer.Send(s.AdminInbox, subject, html); err != nil {
			s.Logger.Error("EMAIL", fmt.Sprintf("contact admin notice failed: %v", err))
		}
	}
	return &m, nil
}

type AffiliateApplyRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
}

func (s *Service) ApplyAffiliate(req AffiliateApplyRequest) (*models.AffiliateRequest, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, &ValidationError{msg: "First name, last name and email are required"}
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, &ValidationError{msg: "Invalid email address"}
	}

	a := models.AffiliateRequest{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Reason:    req.Reason,
		Status:    models.AffiliatePending,
		CreatedAt: time.Now(),
	}
	if err := s.Store.CreateAffiliateRequest(a); err != nil {
		return nil, fmt.Errorf("failed to save affiliate request: %w", err)
	}

	subject, html := notify.AffiliateReceived(a.FirstName)
	if err := s.Mailer.Send(a.Email, subject, html); err != nil {
		s.Logger.Error("EMAIL", fmt.Sprintf("affiliate acknowledgement failed for %s: %v", a.Email, err))
	}
	return &a, nil
}

func (s *Service) ListWaitlist() ([]models.WaitlistEntry, error) {
	return s.Store.ListWaitlist()
}

func (s *Service) ListContacts() ([]models.ContactMessage, error) {
	return s.Store.ListContactMessages()
}

func (s *Service) MarkContact(id string, status models.ContactStatus) error {
	switch status {
	case models.ContactNew, models.ContactRead, models.ContactReplied:
	default:
		return &ValidationError{msg: "Unknown contact status"}
	}
	return s.Store.UpdateContactStatus(id, status)
}

func (s *Service) ListAffiliates() ([]models.AffiliateRequest, error) {
	return s.Store.ListAffiliateRequests()
}

func (s *Service) ReviewAffiliate(id string, status models.AffiliateStatus) error {
	switch status {
	case models.AffiliateApproved, models.AffiliateRejected:
	default:
		return &ValidationError{msg: "Status must be approved or rejected"}
	}
	return s.Store.UpdateAffiliateStatus(id, status)
}
