package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendWaitlistedEmail(email, title string) error
	SendReminderEmail(email, title string, at time.Time) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to DayGrid!")

	body := fmt.Sprintf(`
		<h2>Welcome to DayGrid, %s!</h2>
		<p>Your account has been created. Set your working hours in the
		preferences and DayGrid will start placing your events for you.</p>
		<p>Best regards,<br>The DayGrid Team</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendWaitlistedEmail(email, title string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "An event lost its slot")

	body := fmt.Sprintf(`
		<h3>"%s" is now waitlisted</h3>
		<p>A higher-priority event took its time and no free slot was left
		inside its window. It will be placed again automatically as soon as
		capacity frees up, or you can pick a time yourself.</p>
	`, title)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send waitlist email: %w", err)
	}

	return nil
}

func (s *emailService) SendReminderEmail(email, title string, at time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: %s", title))

	body := fmt.Sprintf(`
		<h3>%s</h3>
		<p>Scheduled for %s.</p>
	`, title, at.Format("Mon, 2 Jan 2006 15:04"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	return nil
}
