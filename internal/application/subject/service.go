package subject

import (
	"context"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/subject/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// Service manages staff subjects. Every read resolves the actor's center
// scope first, and the self-visibility rule hides a subject from the user
// linked to it.
type Service struct {
	subjectRepo subject.Repository
	centerRepo  center.Repository
	logger      logger.Interface
}

// NewService creates a new subject service
func NewService(subjectRepo subject.Repository, centerRepo center.Repository, logger logger.Interface) *Service {
	return &Service{
		subjectRepo: subjectRepo,
		centerRepo:  centerRepo,
		logger:      logger,
	}
}

// Create adds a staff member. Managers may only create within their
// assigned centers.
func (s *Service) Create(ctx context.Context, actor access.Actor, input dto.CreateSubjectInput) (*dto.SubjectResponse, error) {
	role, err := authorization.ParseSubjectRole(input.Role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	c, err := s.centerRepo.GetBySID(ctx, input.CenterID)
	if err != nil {
		if err == center.ErrCenterNotFound {
			return nil, errors.NewValidationError("unknown center: " + input.CenterID)
		}
		return nil, errors.NewInternalError("failed to resolve center", err.Error())
	}

	centerID := c.ID()
	if _, err := access.ResolveCenterScope(actor, &centerID); err != nil {
		return nil, errors.NewForbiddenError("center not in your assigned set")
	}

	sub, err := subject.NewSubject(input.Name, role, centerID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.subjectRepo.Create(ctx, sub); err != nil {
		return nil, errors.NewInternalError("failed to create subject", err.Error())
	}

	s.logger.Info("subject created", "sid", sub.SID(), "center_id", centerID)
	return s.toResponse(ctx, sub)
}

// List returns the subjects visible to the actor. The subject linked to
// the actor's own account is always filtered out.
func (s *Service) List(ctx context.Context, actor access.Actor, filter dto.ListFilter) ([]*dto.SubjectResponse, error) {
	scope, err := s.resolveScope(ctx, actor, filter.CenterID)
	if err != nil {
		return nil, err
	}

	domainFilter := subject.ListFilter{
		Scope:      scope,
		ActiveOnly: filter.ActiveOnly,
		Query:      filter.Query,
	}
	if filter.Role != nil {
		role, err := authorization.ParseSubjectRole(*filter.Role)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		domainFilter.Role = &role
	}

	subjects, err := s.subjectRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list subjects", err.Error())
	}

	out := make([]*dto.SubjectResponse, 0, len(subjects))
	for _, sub := range subjects {
		if !access.CanViewSubject(actor, sub.ID()) {
			continue
		}
		resp, err := s.toResponse(ctx, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Get returns a single subject. Outside the actor's scope, or hidden by
// the self-visibility rule, the subject does not exist as far as the
// caller can tell.
func (s *Service) Get(ctx context.Context, actor access.Actor, sid string) (*dto.SubjectResponse, error) {
	sub, err := s.getVisible(ctx, actor, sid)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, sub)
}

// Update applies partial changes: rename, role change, transfer,
// activate or deactivate. Transfers never touch past observations.
func (s *Service) Update(ctx context.Context, actor access.Actor, sid string, input dto.UpdateSubjectInput) (*dto.SubjectResponse, error) {
	sub, err := s.getVisible(ctx, actor, sid)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := sub.Rename(*input.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if input.Role != nil {
		role, err := authorization.ParseSubjectRole(*input.Role)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := sub.ChangeRole(role); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if input.CenterID != nil {
		c, err := s.centerRepo.GetBySID(ctx, *input.CenterID)
		if err != nil {
			if err == center.ErrCenterNotFound {
				return nil, errors.NewValidationError("unknown center: " + *input.CenterID)
			}
			return nil, errors.NewInternalError("failed to resolve center", err.Error())
		}
		targetID := c.ID()
		if _, err := access.ResolveCenterScope(actor, &targetID); err != nil {
			return nil, errors.NewForbiddenError("center not in your assigned set")
		}
		if err := sub.TransferTo(targetID); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if input.IsActive != nil {
		if *input.IsActive {
			sub.Activate()
		} else {
			sub.Deactivate()
		}
	}

	if err := s.subjectRepo.Update(ctx, sub); err != nil {
		return nil, errors.NewInternalError("failed to update subject", err.Error())
	}

	s.logger.Info("subject updated", "sid", sub.SID())
	return s.toResponse(ctx, sub)
}

// getVisible loads a subject and applies scope and self-visibility. Both
// failures surface as not found so callers cannot probe what is hidden.
func (s *Service) getVisible(ctx context.Context, actor access.Actor, sid string) (*subject.Subject, error) {
	sub, err := s.subjectRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == subject.ErrSubjectNotFound {
			return nil, errors.NewNotFoundError("subject not found")
		}
		return nil, errors.NewInternalError("failed to get subject", err.Error())
	}

	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}
	if !scope.Contains(sub.CurrentCenterID()) {
		return nil, errors.NewNotFoundError("subject not found")
	}
	if !access.CanViewSubject(actor, sub.ID()) {
		return nil, errors.NewNotFoundError("subject not found")
	}

	return sub, nil
}

func (s *Service) resolveScope(ctx context.Context, actor access.Actor, centerSID *string) (access.Scope, error) {
	var requested *uint
	if centerSID != nil && *centerSID != "" {
		c, err := s.centerRepo.GetBySID(ctx, *centerSID)
		if err != nil {
			if err == center.ErrCenterNotFound {
				return access.Scope{}, errors.NewValidationError("unknown center: " + *centerSID)
			}
			return access.Scope{}, errors.NewInternalError("failed to resolve center", err.Error())
		}
		cid := c.ID()
		requested = &cid
	}

	scope, err := access.ResolveCenterScope(actor, requested)
	if err != nil {
		return access.Scope{}, errors.NewForbiddenError("center not in your assigned set")
	}
	return scope, nil
}

func (s *Service) toResponse(ctx context.Context, sub *subject.Subject) (*dto.SubjectResponse, error) {
	c, err := s.centerRepo.GetByID(ctx, sub.CurrentCenterID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load subject center", err.Error())
	}

	return &dto.SubjectResponse{
		ID:        sub.SID(),
		Name:      sub.Name(),
		Role:      sub.Role().String(),
		RoleLabel: sub.Role().Label(),
		Center:    dto.CenterRef{ID: c.SID(), Name: c.Name()},
		IsActive:  sub.IsActive(),
		CreatedAt: sub.CreatedAt(),
		UpdatedAt: sub.UpdatedAt(),
	}, nil
}
