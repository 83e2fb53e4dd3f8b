package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/phongkham/clinic-booking-api/config"
	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/repository"
)

// Service sends appointment lifecycle mails to the booking account.
type Service struct {
	dialer   *gomail.Dialer
	from     string
	accounts repository.AccountRepository
}

func NewService(cfg config.SMTPConfig, accounts repository.AccountRepository) *Service {
	return &Service{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		accounts: accounts,
	}
}

func (s *Service) AppointmentCreated(ctx context.Context, appointment *model.Appointment) error {
	subject := "Your appointment request was received"
	body := fmt.Sprintf(
		"Your appointment on %s at %s has been received and is awaiting processing.",
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.TimeSlot,
	)
	return s.sendToBooker(ctx, appointment, subject, body)
}

func (s *Service) DoctorAssigned(ctx context.Context, appointment *model.Appointment) error {
	subject := "A doctor has been assigned to your appointment"
	body := fmt.Sprintf(
		"A doctor has been assigned for your appointment on %s at %s.",
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.TimeSlot,
	)
	return s.sendToBooker(ctx, appointment, subject, body)
}

func (s *Service) AppointmentConfirmed(ctx context.Context, appointment *model.Appointment) error {
	subject := "Your appointment is confirmed"
	body := fmt.Sprintf(
		"Your appointment on %s at %s has been confirmed by the doctor.",
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.TimeSlot,
	)
	return s.sendToBooker(ctx, appointment, subject, body)
}

func (s *Service) AppointmentCancelled(ctx context.Context, appointment *model.Appointment) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf(
		"Your appointment on %s at %s has been cancelled.",
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.TimeSlot,
	)
	return s.sendToBooker(ctx, appointment, subject, body)
}

func (s *Service) sendToBooker(ctx context.Context, appointment *model.Appointment, subject, body string) error {
	account, err := s.accounts.Get(ctx, appointment.BookerID)
	if err != nil {
		return fmt.Errorf("failed to resolve booker: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", account.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
