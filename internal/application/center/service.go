package center

import (
	"context"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/center/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/mapper"
)

// Service manages centers. Creation and renaming are admin-only; listing
// is open to every authenticated user but managers only see their
// assigned centers.
type Service struct {
	centerRepo center.Repository
	logger     logger.Interface
}

// NewService creates a new center service
func NewService(centerRepo center.Repository, logger logger.Interface) *Service {
	return &Service{
		centerRepo: centerRepo,
		logger:     logger,
	}
}

// Create adds a new center
func (s *Service) Create(ctx context.Context, name string) (*dto.CenterResponse, error) {
	c, err := center.NewCenter(name)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.centerRepo.Create(ctx, c); err != nil {
		if err == center.ErrCenterNameTaken {
			return nil, errors.NewConflictError("a center with this name already exists")
		}
		return nil, errors.NewInternalError("failed to create center", err.Error())
	}

	s.logger.Info("center created", "sid", c.SID(), "name", c.Name())
	return toResponse(c), nil
}

// List returns the centers visible to the actor, ordered by name
func (s *Service) List(ctx context.Context, actor access.Actor) ([]*dto.CenterResponse, error) {
	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("center access denied")
	}

	var centerList []*center.Center
	if scope.All {
		centerList, err = s.centerRepo.List(ctx)
	} else {
		centerList, err = s.centerRepo.GetByIDs(ctx, scope.CenterIDs)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to list centers", err.Error())
	}

	return mapper.MapSlice(centerList, toResponse), nil
}

// Get returns a single center by short id
func (s *Service) Get(ctx context.Context, sid string) (*dto.CenterResponse, error) {
	c, err := s.centerRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == center.ErrCenterNotFound {
			return nil, errors.NewNotFoundError("center not found")
		}
		return nil, errors.NewInternalError("failed to get center", err.Error())
	}

	return toResponse(c), nil
}

// Rename changes a center's name
func (s *Service) Rename(ctx context.Context, sid, name string) (*dto.CenterResponse, error) {
	c, err := s.centerRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == center.ErrCenterNotFound {
			return nil, errors.NewNotFoundError("center not found")
		}
		return nil, errors.NewInternalError("failed to get center", err.Error())
	}

	if err := c.Rename(name); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.centerRepo.Update(ctx, c); err != nil {
		if err == center.ErrCenterNameTaken {
			return nil, errors.NewConflictError("a center with this name already exists")
		}
		return nil, errors.NewInternalError("failed to update center", err.Error())
	}

	s.logger.Info("center renamed", "sid", c.SID(), "name", c.Name())
	return toResponse(c), nil
}

func toResponse(c *center.Center) *dto.CenterResponse {
	return &dto.CenterResponse{
		ID:        c.SID(),
		Name:      c.Name(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
