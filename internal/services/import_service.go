package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"daygrid/internal/ics"
	"daygrid/internal/models"
	"daygrid/internal/repositories"
)

// importHorizonDays bounds how far ahead an ICS import materializes
// occurrences.
const importHorizonDays = 180

// ImportService maps an uploaded ICS payload onto fixed events and runs
// one resolution pass afterwards. Imported events arrive with concrete
// times, so they enter as fixed relevant items; flexible scheduling is a
// DayGrid concept the feed knows nothing about.
type ImportService interface {
	ImportICS(ctx context.Context, ownerID int64, body []byte) (created int, err error)
}

type importService struct {
	repo      repositories.EventRepository
	scheduler SchedulerService
}

func NewImportService(repo repositories.EventRepository, scheduler SchedulerService) ImportService {
	return &importService{repo: repo, scheduler: scheduler}
}

func (s *importService) ImportICS(ctx context.Context, ownerID int64, body []byte) (int, error) {
	parsed, err := ics.Parse(body)
	if err != nil {
		return 0, fmt.Errorf("parse ICS: %w", err)
	}

	now := time.Now()
	occurrences := ics.Expand(parsed, now, now.AddDate(0, 0, importHorizonDays))

	created := 0
	for _, occ := range occurrences {
		uid := fmt.Sprintf("%s/%s", occ.Event.UID, occ.Start.UTC().Format(time.RFC3339))
		existing, err := s.repo.FindBySourceUID(ctx, ownerID, uid)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		start := occ.Start
		end := occ.End
		event := &models.Event{
			OwnerID:        ownerID,
			Kind:           models.KindEvent,
			Priority:       models.PriorityRelevant,
			Title:          occ.Event.Summary,
			Description:    occ.Event.Description,
			Location:       occ.Event.Location,
			Start:          &start,
			End:            &end,
			Fixed:          true,
			OverlapAllowed: occ.Event.AllDay,
			Window:         models.WindowNone,
			Repeat:         models.RepeatNone,
			SourceUID:      uid,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.Store(ctx, event); err != nil {
			return created, err
		}
		created++
	}

	log.Printf("[import][ics] owner=%d parsed=%d occurrences=%d created=%d",
		ownerID, len(parsed), len(occurrences), created)

	if created > 0 {
		if _, err := s.scheduler.ResolveUser(ctx, ownerID); err != nil {
			return created, err
		}
	}
	return created, nil
}
