package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"daygrid/internal/models"
	"daygrid/internal/repositories"
	"daygrid/internal/schedule"
)

// SchedulerService owns resolution passes: it loads one user's snapshot,
// runs the engine, applies the decision batch and notifies owners about
// demotions. Passes for the same user are serialized; two interleaved
// passes over overlapping snapshots could both commit conflicting slots.
type SchedulerService interface {
	// ResolveUser runs a full re-scheduling pass for one user.
	ResolveUser(ctx context.Context, userID int64) ([]schedule.Decision, error)
	// PlaceFixed re-places only the items displaced by a newly inserted
	// fixed event with an explicit time.
	PlaceFixed(ctx context.Context, event *models.Event) ([]schedule.Decision, error)
}

type schedulerService struct {
	events repositories.EventRepository
	prefs  repositories.PreferencesRepository
	users  repositories.UserRepository
	email  EmailService
	tg     *TelegramService

	// Injectable clock so a pass is reproducible in tests.
	now func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewSchedulerService(
	events repositories.EventRepository,
	prefs repositories.PreferencesRepository,
	users repositories.UserRepository,
	email EmailService,
	tg *TelegramService,
) SchedulerService {
	return &schedulerService{
		events: events,
		prefs:  prefs,
		users:  users,
		email:  email,
		tg:     tg,
		now:    time.Now,
		locks:  make(map[int64]*sync.Mutex),
	}
}

func (s *schedulerService) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *schedulerService) ResolveUser(ctx context.Context, userID int64) ([]schedule.Decision, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	passID := uuid.NewString()
	start := time.Now()
	log.Printf("[scheduler][pass] id=%s user=%d mode=full", passID, userID)

	items, prefs, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		log.Printf("[scheduler][pass][err] id=%s user=%d: %v", passID, userID, err)
		return nil, err
	}

	decisions := schedule.Resolve(items, enginePrefs(prefs), s.now())
	if err := s.events.ApplyPlacements(ctx, userID, decisions); err != nil {
		log.Printf("[scheduler][pass][err] id=%s user=%d apply: %v", passID, userID, err)
		return nil, err
	}

	s.notifyChanges(ctx, userID, items, decisions)
	log.Printf("[scheduler][pass][ok] id=%s user=%d items=%d waitlisted=%d took=%s",
		passID, userID, len(decisions), countWaitlisted(decisions), time.Since(start).Truncate(time.Millisecond))
	return decisions, nil
}

func (s *schedulerService) PlaceFixed(ctx context.Context, event *models.Event) ([]schedule.Decision, error) {
	lock := s.userLock(event.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	passID := uuid.NewString()
	log.Printf("[scheduler][pass] id=%s user=%d mode=preempt event=%d", passID, event.OwnerID, event.ID)

	items, prefs, err := s.loadSnapshot(ctx, event.OwnerID)
	if err != nil {
		log.Printf("[scheduler][pass][err] id=%s user=%d: %v", passID, event.OwnerID, err)
		return nil, err
	}

	decisions := schedule.ResolveDisplaced(event, items, enginePrefs(prefs), s.now())
	if err := s.events.ApplyPlacements(ctx, event.OwnerID, decisions); err != nil {
		log.Printf("[scheduler][pass][err] id=%s user=%d apply: %v", passID, event.OwnerID, err)
		return nil, err
	}

	s.notifyChanges(ctx, event.OwnerID, items, decisions)
	log.Printf("[scheduler][pass][ok] id=%s user=%d displaced=%d waitlisted=%d",
		passID, event.OwnerID, len(decisions), countWaitlisted(decisions))
	return decisions, nil
}

func (s *schedulerService) loadSnapshot(ctx context.Context, userID int64) ([]*models.Event, *models.SchedulingPreferences, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.events.FindSchedulable(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return items, prefs, nil
}

// notifyChanges compares prior state against the decisions and pings the
// owner about demotions and moves. Notification failures are logged,
// never propagated: the batch is already committed.
func (s *schedulerService) notifyChanges(ctx context.Context, userID int64, prior []*models.Event, decisions []schedule.Decision) {
	if len(decisions) == 0 {
		return
	}
	byID := make(map[int64]*models.Event, len(prior))
	for _, ev := range prior {
		byID[ev.ID] = ev
	}

	var user *models.User
	if s.email != nil || s.tg != nil {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			log.Printf("[scheduler][notify][err] user=%d: %v", userID, err)
			return
		}
		user = u
	}
	if user == nil {
		return
	}

	var chatID int64
	if user.TelegramChatID != nil {
		chatID = *user.TelegramChatID
	}

	for _, d := range decisions {
		ev, ok := byID[d.EventID]
		if !ok {
			continue
		}
		switch {
		case d.Waitlisted && !ev.Waitlisted:
			if s.email != nil {
				if err := s.email.SendWaitlistedEmail(user.Email, ev.Title); err != nil {
					log.Printf("[scheduler][notify][err] event=%d: %v", ev.ID, err)
				}
			}
			s.tg.NotifyWaitlisted(chatID, ev.Title)
		case d.Start != nil && ev.Start != nil && !d.Start.Equal(*ev.Start):
			s.tg.NotifyMoved(chatID, ev.Title, *d.Start)
		}
	}
}

// enginePrefs maps the stored working calendar into the engine's view.
func enginePrefs(p *models.SchedulingPreferences) *schedule.Preferences {
	var weekdays map[time.Weekday]bool
	if len(p.Weekdays) > 0 {
		weekdays = make(map[time.Weekday]bool, len(p.Weekdays))
		for _, d := range p.Weekdays {
			weekdays[time.Weekday(d%7)] = true
		}
	}
	return &schedule.Preferences{
		DayStartMinutes: p.DayStartMinutes,
		DayEndMinutes:   p.DayEndMinutes,
		Weekdays:        weekdays,
		Buffer:          time.Duration(p.BufferMinutes) * time.Minute,
		LeadTime:        time.Duration(p.LeadTimeMinutes) * time.Minute,
	}
}

func countWaitlisted(decisions []schedule.Decision) int {
	n := 0
	for _, d := range decisions {
		if d.Waitlisted {
			n++
		}
	}
	return n
}
