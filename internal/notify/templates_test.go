package notify_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workerbull/internal/notify"
)

func TestCourseConfirmation_IncludesNameAndStartDate(t *testing.T) {
	subject, html := notify.CourseConfirmation("Jordan", "Monday, June 1st 2026")

	assert.NotEmpty(t, subject)
	assert.Contains(t, html, "Jordan")
	assert.Contains(t, html, "Monday, June 1st 2026")
}

func TestMasterclassConfirmation_EmbedsCheckInQR(t *testing.T) {
	date := time.Date(2026, time.July, 4, 10, 0, 0, 0, time.UTC)
	subject, html, err := notify.MasterclassConfirmation("Jordan", "order-123", date)

	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "July")
}

func TestBookingConfirmation_PaidMentionsPayment(t *testing.T) {
	details := notify.BookingDetails{
		Date:     "2026-10-05",
		Time:     "14:00",
		Duration: "60 minutes",
		Topic:    "Pricing strategy",
		Type:     "paid",
	}
	_, paidHTML := notify.BookingConfirmation("Jordan", details)
	assert.Contains(t, paidHTML, "payment has been received")

	details.Type = "free"
	_, freeHTML := notify.BookingConfirmation("Jordan", details)
	assert.False(t, strings.Contains(freeHTML, "payment has been received"))
}

func TestCheckInQR_ProducesDataURI(t *testing.T) {
	uri, err := notify.CheckInQR("order-123")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}
