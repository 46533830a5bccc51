package services

import (
	"context"
	"fmt"
	"time"

	"daygrid/internal/models"
	"daygrid/internal/repositories"
	"daygrid/internal/schedule"
)

// EventService is the item producer: it turns raw API input into
// well-formed events (valid kind/priority/window, resolved duration,
// critical implies fixed) and triggers the scheduling that a write may
// require. The engine itself never validates; that happens here.
type EventService interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetAll(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, id int64, updateData *models.Event) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
	// Reschedule re-runs placement for the event's owner and returns the
	// event's fresh state.
	Reschedule(ctx context.Context, id int64) (*models.Event, error)
}

type eventService struct {
	repo      repositories.EventRepository
	scheduler SchedulerService
}

func NewEventService(repo repositories.EventRepository, scheduler SchedulerService) EventService {
	return &eventService{repo: repo, scheduler: scheduler}
}

func (s *eventService) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := normalizeEvent(event); err != nil {
		return nil, err
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.repo.Store(ctx, event); err != nil {
		return nil, err
	}

	// Materialize the rest of a repeating series as sibling events; each
	// occurrence competes for a slot on its own.
	if event.Repeat != models.RepeatNone && event.Start != nil {
		if err := s.storeOccurrences(ctx, event); err != nil {
			return nil, err
		}
	}

	if err := s.triggerScheduling(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) GetAll(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *eventService) Update(ctx context.Context, id int64, updateData *models.Event) (*models.Event, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.Kind = updateData.Kind
	existing.Priority = updateData.Priority
	existing.Title = updateData.Title
	existing.Description = updateData.Description
	existing.Location = updateData.Location
	existing.Start = updateData.Start
	existing.End = updateData.End
	existing.DurationMinutes = updateData.DurationMinutes
	existing.Fixed = updateData.Fixed
	existing.OverlapAllowed = updateData.OverlapAllowed
	existing.Window = updateData.Window
	existing.WindowStart = updateData.WindowStart
	existing.WindowEnd = updateData.WindowEnd
	existing.Repeat = updateData.Repeat

	if err := normalizeEvent(existing); err != nil {
		return nil, err
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	if err := s.triggerScheduling(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// Freed capacity may re-promote waitlisted items.
	if existing.Kind == models.KindEvent && existing.Priority.Schedulable() {
		if _, err := s.scheduler.ResolveUser(ctx, existing.OwnerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *eventService) Reschedule(ctx context.Context, id int64) (*models.Event, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if err := s.triggerScheduling(ctx, existing); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) storeOccurrences(ctx context.Context, event *models.Event) error {
	occurrences := schedule.ExpandOccurrences(*event.Start, event.End, event.Repeat)
	for _, occ := range occurrences[1:] {
		sibling := *event
		sibling.ID = 0
		sibling.Repeat = models.RepeatNone
		start := occ.Start
		sibling.Start = &start
		sibling.End = occ.End
		if err := s.repo.Store(ctx, &sibling); err != nil {
			return err
		}
	}
	return nil
}

func (s *eventService) triggerScheduling(ctx context.Context, event *models.Event) error {
	if event.Kind != models.KindEvent || !event.Priority.Schedulable() {
		return nil
	}
	var err error
	if event.Fixed && event.Start != nil && event.End != nil {
		_, err = s.scheduler.PlaceFixed(ctx, event)
	} else {
		_, err = s.scheduler.ResolveUser(ctx, event.OwnerID)
	}
	return err
}

// normalizeEvent enforces the producer contract. Anything the engine
// would have to guess about is settled here once.
func normalizeEvent(event *models.Event) error {
	if event.Kind == "" {
		event.Kind = models.KindEvent
	}
	switch event.Kind {
	case models.KindEvent, models.KindTask, models.KindReminder:
	default:
		return fmt.Errorf("invalid kind %q", event.Kind)
	}

	if event.Priority == "" {
		event.Priority = models.PriorityRelevant
	}
	if !event.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", event.Priority)
	}

	if event.Window == "" {
		event.Window = models.WindowNone
	}
	if !event.Window.Valid() {
		return fmt.Errorf("invalid window %q", event.Window)
	}

	if event.Repeat == "" {
		event.Repeat = models.RepeatNone
	}
	if !event.Repeat.Valid() {
		return fmt.Errorf("invalid repeat rule %q", event.Repeat)
	}

	if event.Start != nil && event.End != nil && !event.End.After(*event.Start) {
		return fmt.Errorf("end must be after start")
	}
	if event.DurationMinutes < 0 {
		return fmt.Errorf("duration must not be negative")
	}

	// A critical item's time is authoritative: it is always fixed. Fixed
	// without a time cannot hold a slot and starts out waitlisted.
	if event.Priority == models.PriorityCritical {
		event.Fixed = true
	}
	if event.Fixed && event.Start == nil {
		event.Waitlisted = true
		event.End = nil
	}
	if event.Fixed && event.Start != nil && event.End == nil {
		end := event.Start.Add(event.Duration())
		event.End = &end
	}
	return nil
}
