package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/internal/application/dto"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

type EventService struct {
	Events    repo.EventGateway
	Sync      *Synchronizer
	Conflicts *ConflictDetector
	Locker    Locker
	Validator *dto.Validator
	Logger    *logrus.Logger
	Debug     bool
	Now       func() time.Time
}

func NewEventService(events repo.EventGateway, sync *Synchronizer, conflicts *ConflictDetector, locker Locker, v *dto.Validator, logger *logrus.Logger, debug bool) *EventService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if locker == nil {
		locker = NopLocker{}
	}
	return &EventService{
		Events:    events,
		Sync:      sync,
		Conflicts: conflicts,
		Locker:    locker,
		Validator: v,
		Logger:    logger,
		Debug:     debug,
	}
}

func (s *EventService) opts() dto.Options {
	return dto.Options{Debug: s.Debug, Now: s.Now}
}

func (s *EventService) List(ctx context.Context) ([]entity.Event, error) {
	events, err := s.Events.Find(ctx, nil, &repo.FindOptions{Sort: repo.FieldStartDate})
	if err != nil {
		return nil, apperror.FromStore(entity.KindEvent, err)
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	id = entity.NormalizeID(id)
	ev, err := s.Events.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(entity.KindEvent, err)
	}
	if ev == nil {
		return nil, apperror.NotFound()
	}
	return ev, nil
}

// GetByUser lists the events whose owner is userID.
func (s *EventService) GetByUser(ctx context.Context, userID string) ([]entity.Event, error) {
	userID = entity.NormalizeID(userID)
	events, err := s.Events.Find(ctx, repo.Eq(repo.FieldUser, userID), &repo.FindOptions{Sort: repo.FieldStartDate})
	if err != nil {
		return nil, apperror.FromStore(entity.KindEvent, err)
	}
	return events, nil
}

// Create validates, checks the owner's calendar, stores the event and then
// attaches it to the owner. The attach failing does not fail the call.
func (s *EventService) Create(ctx context.Context, raw map[string]any) (*entity.Event, error) {
	rec, err := s.Validator.ValidateEvent(ctx, raw, dto.ModeCreate, nil, s.opts())
	if err != nil {
		return nil, err
	}
	ev := dto.EventFromRecord(rec)

	if owner := ev.OwnerID(); owner != "" {
		unlock, err := s.Locker.Lock(ctx, scheduleLockKey(owner))
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", owner).Error("schedule lock failed")
			return nil, apperror.Internal(entity.KindEvent, err)
		}
		defer unlock()

		conflict, err := s.Conflicts.HasConflict(ctx, owner, ev.StartDate, ev.EndDate)
		if err != nil {
			return nil, apperror.FromStore(entity.KindEvent, err)
		}
		if conflict {
			metricConflicts.Add(1)
			s.Logger.WithFields(logrus.Fields{
				"user_id":    owner,
				"start_date": ev.StartDate,
				"end_date":   ev.EndDate,
			}).Info("event rejected: schedule conflict")
			return nil, apperror.ScheduleConflict()
		}
	}

	created, err := s.Events.Create(ctx, ev)
	if err != nil {
		s.Logger.WithError(err).Warn("create event failed")
		return nil, apperror.FromStore(entity.KindEvent, err)
	}
	_ = s.Sync.OnEventCreated(ctx, created)
	return created, nil
}

// Update patches an existing event. The schedule is not re-checked and a
// change of owner does not move the back-reference.
func (s *EventService) Update(ctx context.Context, id string, raw map[string]any) (*entity.Event, error) {
	id = entity.NormalizeID(id)
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err := s.Validator.ValidateEvent(ctx, raw, dto.ModeUpdate, existing, s.opts())
	if err != nil {
		return nil, err
	}
	ev, err := s.Events.PatchFields(ctx, id, dto.EventPatchFromRecord(rec))
	if err != nil {
		s.Logger.WithError(err).WithField("event_id", id).Warn("update event failed")
		return nil, apperror.FromStore(entity.KindEvent, err)
	}
	return ev, nil
}

// Delete removes the event and detaches it from its owner.
func (s *EventService) Delete(ctx context.Context, id string) (bool, error) {
	ev, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	n, err := s.Events.Delete(ctx, ev.ID)
	if err != nil {
		return false, apperror.FromStore(entity.KindEvent, err)
	}
	_ = s.Sync.OnEventDeleted(ctx, ev)
	return n > 0, nil
}
