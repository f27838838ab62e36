package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/internal/application/dto"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

type UserService struct {
	Users     repo.UserGateway
	Events    repo.EventGateway
	Validator *dto.Validator
	Logger    *logrus.Logger
	// Debug attaches validator diagnostics to returned errors.
	Debug bool
}

func NewUserService(users repo.UserGateway, events repo.EventGateway, v *dto.Validator, logger *logrus.Logger, debug bool) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{Users: users, Events: events, Validator: v, Logger: logger, Debug: debug}
}

func (s *UserService) opts() dto.Options {
	return dto.Options{Debug: s.Debug}
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.Users.Find(ctx, nil, &repo.FindOptions{Sort: repo.FieldCreatedAt})
	if err != nil {
		return nil, apperror.FromStore(entity.KindUser, err)
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	id = entity.NormalizeID(id)
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(entity.KindUser, err)
	}
	if u == nil {
		return nil, apperror.NotFound()
	}
	return u, nil
}

// GetEvents returns the user together with the events whose owner is the user.
func (s *UserService) GetEvents(ctx context.Context, id string) (*entity.User, []entity.Event, error) {
	id = entity.NormalizeID(id)
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.Events.Find(ctx, repo.Eq(repo.FieldUser, id), &repo.FindOptions{Sort: repo.FieldStartDate})
	if err != nil {
		return nil, nil, apperror.FromStore(entity.KindEvent, err)
	}
	return u, events, nil
}

func (s *UserService) Create(ctx context.Context, raw map[string]any) (*entity.User, error) {
	rec, err := s.Validator.ValidateUser(ctx, raw, dto.ModeCreate, s.opts())
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Create(ctx, dto.UserFromRecord(rec))
	if err != nil {
		s.Logger.WithError(err).Warn("create user failed")
		return nil, apperror.FromStore(entity.KindUser, err)
	}
	s.Logger.WithField("user_id", u.ID).Debug("user created")
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, raw map[string]any) (*entity.User, error) {
	id = entity.NormalizeID(id)
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	rec, err := s.Validator.ValidateUser(ctx, raw, dto.ModeUpdate, s.opts())
	if err != nil {
		return nil, err
	}
	u, err := s.Users.PatchFields(ctx, id, dto.UserPatchFromRecord(rec))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("update user failed")
		return nil, apperror.FromStore(entity.KindUser, err)
	}
	return u, nil
}

// Delete removes the user only. Events owned by the user keep their user
// field and become dangling references.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	id = entity.NormalizeID(id)
	ok, err := s.Users.Exists(ctx, repo.Eq(repo.FieldID, id))
	if err != nil {
		return false, apperror.FromStore(entity.KindUser, err)
	}
	if !ok {
		return false, apperror.NotFound()
	}
	n, err := s.Users.Delete(ctx, id)
	if err != nil {
		return false, apperror.FromStore(entity.KindUser, err)
	}
	s.Logger.WithField("user_id", id).Debug("user deleted")
	return n > 0, nil
}
