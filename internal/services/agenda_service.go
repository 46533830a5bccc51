package services

import (
	"context"
	"time"

	"daygrid/internal/models"
	"daygrid/internal/pdf"
	"daygrid/internal/repositories"
)

// AgendaService renders a user's week as a PDF.
type AgendaService interface {
	WeeklyPDF(ctx context.Context, userID int64, weekStart time.Time) ([]byte, error)
}

type agendaService struct {
	events repositories.EventRepository
	users  repositories.UserRepository
	gen    pdf.Generator
}

func NewAgendaService(events repositories.EventRepository, users repositories.UserRepository, gen pdf.Generator) AgendaService {
	return &agendaService{events: events, users: users, gen: gen}
}

func (s *agendaService) WeeklyPDF(ctx context.Context, userID int64, weekStart time.Time) ([]byte, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := ""
	if user != nil {
		name = user.Name
	}

	weekEnd := weekStart.AddDate(0, 0, 7)
	kind := models.KindEvent
	events, err := s.events.FindAll(ctx, models.EventFilter{
		OwnerID: &userID,
		Kind:    &kind,
		From:    &weekStart,
		To:      &weekEnd,
	})
	if err != nil {
		return nil, err
	}

	// Waitlisted items carry no time and fall out of the range filter;
	// fetch them separately so the export shows what is still pending.
	waitlisted := true
	pending, err := s.events.FindAll(ctx, models.EventFilter{
		OwnerID:    &userID,
		Kind:       &kind,
		Waitlisted: &waitlisted,
	})
	if err != nil {
		return nil, err
	}

	return s.gen.WeeklyAgenda(pdf.AgendaData{
		UserName:  name,
		WeekStart: weekStart,
		Events:    append(events, pending...),
	})
}
