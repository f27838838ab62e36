package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

// SyncOp is a back-reference mutation.
type SyncOp string

const (
	SyncAttach SyncOp = "attach"
	SyncDetach SyncOp = "detach"
)

// SyncJob describes a back-reference write that failed and can be replayed.
type SyncJob struct {
	Op       SyncOp    `json:"op"`
	UserID   string    `json:"user_id"`
	EventID  string    `json:"event_id"`
	FailedAt time.Time `json:"failed_at"`
	Reason   string    `json:"reason,omitempty"`
}

// RepairPublisher queues failed sync jobs. helpers.RabbitPublisher satisfies it.
type RepairPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Synchronizer keeps User.events consistent with Event.user.
//
// It writes after the primary event write has committed. A failure here is
// logged (and queued for repair when a publisher is set) but never undoes the
// primary write, so the back-reference stays stale until repaired.
type Synchronizer struct {
	Users  repo.UserGateway
	Events repo.EventGateway
	Logger *logrus.Logger
	Repair RepairPublisher
}

func NewSynchronizer(users repo.UserGateway, events repo.EventGateway, logger *logrus.Logger, repair RepairPublisher) *Synchronizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Synchronizer{Users: users, Events: events, Logger: logger, Repair: repair}
}

// OnEventCreated adds the event id to its owner's set. Idempotent.
func (s *Synchronizer) OnEventCreated(ctx context.Context, ev *entity.Event) error {
	owner := ev.OwnerID()
	if owner == "" {
		return nil
	}
	if err := s.Users.AttachEvent(ctx, owner, ev.ID); err != nil {
		s.failed(ctx, SyncJob{Op: SyncAttach, UserID: owner, EventID: ev.ID}, err)
		return err
	}
	return nil
}

// OnEventDeleted removes the event id from its owner's set.
func (s *Synchronizer) OnEventDeleted(ctx context.Context, ev *entity.Event) error {
	owner := ev.OwnerID()
	if owner == "" {
		return nil
	}
	if err := s.Users.DetachEvent(ctx, owner, ev.ID); err != nil {
		s.failed(ctx, SyncJob{Op: SyncDetach, UserID: owner, EventID: ev.ID}, err)
		return err
	}
	return nil
}

func (s *Synchronizer) failed(ctx context.Context, job SyncJob, err error) {
	metricSyncFailures.Add(1)
	job.FailedAt = time.Now().UTC()
	job.Reason = err.Error()
	log := s.Logger.WithError(err).WithFields(logrus.Fields{
		"op":       job.Op,
		"user_id":  job.UserID,
		"event_id": job.EventID,
	})
	log.Error("back-reference sync failed")
	if s.Repair == nil {
		return
	}
	if pErr := s.Repair.PublishJSON(ctx, job); pErr != nil {
		log.WithField("publish_error", pErr.Error()).Warn("failed to queue sync repair")
		return
	}
	metricRepairsQueued.Add(1)
}

// Apply replays a queued job against the current forward reference, so a
// stale job never re-attaches a deleted or re-owned event.
func (s *Synchronizer) Apply(ctx context.Context, job SyncJob) error {
	job.UserID, job.EventID = entity.NormalizeID(job.UserID), entity.NormalizeID(job.EventID)
	ev, err := s.Events.FindByID(ctx, job.EventID)
	if err != nil {
		return fmt.Errorf("failed to load event %s: %w", job.EventID, err)
	}
	owned := ev != nil && ev.OwnerID() == job.UserID

	switch job.Op {
	case SyncAttach:
		if !owned {
			return nil
		}
		err = s.Users.AttachEvent(ctx, job.UserID, job.EventID)
	case SyncDetach:
		if owned {
			return nil
		}
		err = s.Users.DetachEvent(ctx, job.UserID, job.EventID)
	default:
		return fmt.Errorf("unknown sync op %q", job.Op)
	}
	if err != nil {
		return fmt.Errorf("failed to %s event %s for user %s: %w", job.Op, job.EventID, job.UserID, err)
	}
	metricRepairsApplied.Add(1)
	return nil
}

// Reconcile rebuilds one user's back-reference set from the events that
// point at the user.
func (s *Synchronizer) Reconcile(ctx context.Context, userID string) (attached, detached int, err error) {
	userID = entity.NormalizeID(userID)
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if u == nil {
		return 0, 0, repo.ErrNotFound
	}
	owned, err := s.Events.Find(ctx, repo.Eq(repo.FieldUser, userID), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load events of user %s: %w", userID, err)
	}

	want := make(map[string]bool, len(owned))
	for _, ev := range owned {
		want[ev.ID] = true
		if !u.HasEvent(ev.ID) {
			if err := s.Users.AttachEvent(ctx, userID, ev.ID); err != nil {
				return attached, detached, fmt.Errorf("failed to attach event %s: %w", ev.ID, err)
			}
			attached++
		}
	}
	for _, id := range u.Events {
		if !want[id] {
			if err := s.Users.DetachEvent(ctx, userID, id); err != nil {
				return attached, detached, fmt.Errorf("failed to detach event %s: %w", id, err)
			}
			detached++
		}
	}
	return attached, detached, nil
}

// ReconcileAll runs Reconcile for every user and logs what changed.
func (s *Synchronizer) ReconcileAll(ctx context.Context) error {
	users, err := s.Users.Find(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		a, d, err := s.Reconcile(ctx, u.ID)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("reconcile failed")
			continue
		}
		if a > 0 || d > 0 {
			s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "attached": a, "detached": d}).Info("back-references repaired")
		}
	}
	return nil
}
