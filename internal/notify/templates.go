package notify

import (
	"fmt"
	"time"
)

// BookingDetails is the slot summary echoed back in consultation emails.
type BookingDetails struct {
	Date     string
	Time     string
	Duration string
	Topic    string
	Type     string
}

const emailFooter = `<p style="color:#888;font-size:12px">WorkerBull · Business Education for Blue-Collar Entrepreneurs</p>`

func wrap(body string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">%s%s</div>`, body, emailFooter)
}

// CourseConfirmation is sent once a course registration payment completes.
func CourseConfirmation(name, startDate string) (subject, html string) {
	subject = "Welcome to the Course! Your Registration is Confirmed"
	html = wrap(fmt.Sprintf(`
<h2>You're in, %s!</h2>
<p>Your payment has been received and your seat is confirmed.</p>
<p><strong>Your cohort starts on %s.</strong></p>
<p>You'll receive your login credentials and the week-one schedule a few days before the start date.</p>`,
		name, startDate))
	return subject, html
}

// MasterclassConfirmation includes a check-in QR code for the live session.
func MasterclassConfirmation(name, orderID string, date time.Time) (subject, html string, err error) {
	qr, err := CheckInQR(orderID)
	if err != nil {
		return "", "", err
	}
	subject = "Your Masterclass Seat is Confirmed"
	html = wrap(fmt.Sprintf(`
<h2>See you there, %s!</h2>
<p>Your payment has been received and your masterclass seat is confirmed.</p>
<p><strong>Date: %s</strong></p>
<p>Show this code at check-in:</p>
<img src="%s" alt="check-in code" width="200" height="200"/>
<p>A calendar invite and the joining link will follow closer to the date.</p>`,
		name, date.Format("Monday, January 2, 2006 at 3:04 PM MST"), qr))
	return subject, html, nil
}

// BookingConfirmation is sent for consultations, both free and paid.
func BookingConfirmation(name string, d BookingDetails) (subject, html string) {
	subject = "Your Consultation is Booked"
	paymentLine := ""
	if d.Type == "paid" {
		paymentLine = `<p>Your payment has been received.</p>`
	}
	html = wrap(fmt.Sprintf(`
<h2>Thanks for booking, %s!</h2>
%s
<ul>
<li><strong>Date:</strong> %s</li>
<li><strong>Time:</strong> %s</li>
<li><strong>Duration:</strong> %s</li>
<li><strong>Topic:</strong> %s</li>
</ul>
<p>A meeting link will be sent to this address before your session.</p>`,
		name, paymentLine, d.Date, d.Time, d.Duration, d.Topic))
	return subject, html
}

// WaitlistWelcome is sent right after a waitlist signup.
func WaitlistWelcome(name string) (subject, html string) {
	subject = "You're on the Waitlist!"
	html = wrap(fmt.Sprintf(`
<h2>Welcome, %s!</h2>
<p>You're on the list. We'll email you the moment enrollment opens, and waitlist members get first access.</p>`,
		name))
	return subject, html
}

// ContactAcknowledgement confirms receipt of a contact-form message.
func ContactAcknowledgement(name string) (subject, html string) {
	subject = "We Got Your Message"
	html = wrap(fmt.Sprintf(`
<h2>Thanks for reaching out, %s!</h2>
<p>We've received your message and will get back to you within one business day.</p>`,
		name))
	return subject, html
}

// ContactAdminNotice forwards a contact-form message to the team inbox.
func ContactAdminNotice(name, email, topic, message string) (subject, html string) {
	subject = fmt.Sprintf("New Contact Message: %s", topic)
	html = wrap(fmt.Sprintf(`
<h2>New contact form message</h2>
<p><strong>From:</strong> %s (%s)</p>
<p><strong>Subject:</strong> %s</p>
<p>%s</p>`,
		name, email, topic, message))
	return subject, html
}

// AffiliateReceived acknowledges an affiliate application.
func AffiliateReceived(firstName string) (subject, html string) {
	subject = "Your Affiliate Application Was Received"
	html = wrap(fmt.Sprintf(`
<h2>Thanks, %s!</h2>
<p>We've received your affiliate application and will review it shortly. You'll hear from us either way.</p>`,
		firstName))
	return subject, html
}

// CouponIssued delivers a new affiliate's coupon code.
func CouponIssued(firstName, code string, discount int) (subject, html string) {
	subject = "Your Coupon Code is Ready"
	html = wrap(fmt.Sprintf(`
<h2>Congratulations, %s!</h2>
<p>Your personal coupon code is ready to share:</p>
<p style="font-size:24px;letter-spacing:2px"><strong>%s</strong></p>
<p>It gives your audience %d%% off at checkout.</p>`,
		firstName, code, discount))
	return subject, html
}
