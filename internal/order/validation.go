package order

import (
	"fmt"
	"regexp"
	"time"

	"workerbull/internal/models"
)

// ValidationError marks intake failures the client caused. Handlers map it
// to a 400 instead of a 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func errValidation(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func validateRegistration(req models.RegistrationRequest) error {
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return errValidation("Name, email and phone are required")
	}
	if !emailPattern.MatchString(req.Email) {
		return errValidation("Invalid email address")
	}
	if !phonePattern.MatchString(req.Phone) || len(req.Phone) < 7 {
		return errValidation("Invalid phone number")
	}
	return nil
}

func validateBooking(req models.BookingRequest) error {
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return errValidation("Name, email and phone are required")
	}
	if !emailPattern.MatchString(req.Email) {
		return errValidation("Invalid email address")
	}
	if !phonePattern.MatchString(req.Phone) || len(req.Phone) < 7 {
		return errValidation("Invalid phone number")
	}
	if req.ConsultationType != models.ConsultationFree && req.ConsultationType != models.ConsultationPaid {
		return errValidation("Consultation type must be free or paid")
	}
	if req.Date == "" || req.Time == "" {
		return errValidation("Date and time are required")
	}
	slotDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return errValidation("Invalid date format, expected YYYY-MM-DD")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if slotDate.Before(today) {
		return errValidation("Booking date must be in the future")
	}
	if !timePattern.MatchString(req.Time) {
		return errValidation("Invalid time format, expected HH:MM")
	}
	if req.Duration != "" {
		if _, ok := consultationPrices[req.Duration]; !ok {
			return errValidation("Duration must be 30, 60 or 90 minutes")
		}
	}
	return nil
}
