package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"daygrid/internal/repositories"
)

const reminderBatchSize = 100

// ReminderService periodically sweeps due reminder items and pings their
// owners by email and Telegram.
type ReminderService struct {
	events repositories.EventRepository
	users  repositories.UserRepository
	email  EmailService
	tg     *TelegramService
	cron   *cron.Cron
}

func NewReminderService(
	events repositories.EventRepository,
	users repositories.UserRepository,
	email EmailService,
	tg *TelegramService,
) *ReminderService {
	return &ReminderService{
		events: events,
		users:  users,
		email:  email,
		tg:     tg,
		cron:   cron.New(),
	}
}

func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", func() {
		s.sweep(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[reminder] sweep scheduled every minute")
	return nil
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

func (s *ReminderService) sweep(ctx context.Context) {
	due, err := s.events.ListDueReminders(ctx, reminderBatchSize)
	if err != nil {
		log.Printf("[reminder][sweep][err] %v", err)
		return
	}
	for _, ev := range due {
		user, err := s.users.GetByID(ctx, ev.OwnerID)
		if err != nil || user == nil {
			log.Printf("[reminder][sweep][err] owner=%d event=%d: %v", ev.OwnerID, ev.ID, err)
			continue
		}
		if s.email != nil && user.Email != "" {
			if err := s.email.SendReminderEmail(user.Email, ev.Title, *ev.Start); err != nil {
				log.Printf("[reminder][email][err] event=%d: %v", ev.ID, err)
			}
		}
		if user.TelegramChatID != nil {
			s.tg.NotifyReminder(*user.TelegramChatID, ev.Title, *ev.Start)
		}
		if err := s.events.SetReminderFired(ctx, ev.ID); err != nil {
			log.Printf("[reminder][mark][err] event=%d: %v", ev.ID, err)
		}
	}
	if len(due) > 0 {
		log.Printf("[reminder][sweep] fired=%d", len(due))
	}
}
