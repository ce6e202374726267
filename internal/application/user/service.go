package user

import (
	"context"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/user/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// Service provisions and manages operator accounts. All operations here
// are admin-only; the route layer enforces that.
type Service struct {
	userRepo    user.Repository
	centerRepo  center.Repository
	subjectRepo subject.Repository
	logger      logger.Interface
}

// NewService creates a new user service
func NewService(
	userRepo user.Repository,
	centerRepo center.Repository,
	subjectRepo subject.Repository,
	logger logger.Interface,
) *Service {
	return &Service{
		userRepo:    userRepo,
		centerRepo:  centerRepo,
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

// Create provisions a new account. Sign-in only works for emails
// provisioned here.
func (s *Service) Create(ctx context.Context, input dto.CreateUserInput) (*dto.UserResponse, error) {
	role, err := authorization.ParseUserRole(input.Role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	u, err := user.NewUser(input.Email, input.Name, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	centerIDs, err := s.resolveCenterIDs(ctx, input.CenterIDs)
	if err != nil {
		return nil, err
	}
	u.AssignCenters(centerIDs)

	if input.LinkedSubjectID != nil && *input.LinkedSubjectID != "" {
		subjectID, err := s.resolveSubjectID(ctx, *input.LinkedSubjectID)
		if err != nil {
			return nil, err
		}
		u.LinkSubject(&subjectID)
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if err == user.ErrEmailTaken {
			return nil, errors.NewConflictError("a user with this email already exists")
		}
		return nil, errors.NewInternalError("failed to create user", err.Error())
	}

	s.logger.Info("user created", "sid", u.SID(), "email", u.Email(), "role", u.Role().String())
	return s.toResponse(ctx, u)
}

// List returns all accounts ordered by email
func (s *Service) List(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list users", err.Error())
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp, err := s.toResponse(ctx, u)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Get returns a single account by short id
func (s *Service) Get(ctx context.Context, sid string) (*dto.UserResponse, error) {
	u, err := s.userRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == user.ErrUserNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, errors.NewInternalError("failed to get user", err.Error())
	}

	return s.toResponse(ctx, u)
}

// Update applies partial changes to an account
func (s *Service) Update(ctx context.Context, sid string, input dto.UpdateUserInput) (*dto.UserResponse, error) {
	u, err := s.userRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == user.ErrUserNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, errors.NewInternalError("failed to get user", err.Error())
	}

	if input.Name != nil {
		u.Rename(input.Name)
	}

	if input.Role != nil {
		role, err := authorization.ParseUserRole(*input.Role)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := u.ChangeRole(role); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if input.IsActive != nil {
		if *input.IsActive {
			u.Activate()
		} else {
			u.Deactivate()
		}
	}

	if input.CenterIDs != nil {
		centerIDs, err := s.resolveCenterIDs(ctx, input.CenterIDs)
		if err != nil {
			return nil, err
		}
		u.AssignCenters(centerIDs)
	}

	if input.LinkedSubjectID != nil {
		if *input.LinkedSubjectID == "" {
			u.LinkSubject(nil)
		} else {
			subjectID, err := s.resolveSubjectID(ctx, *input.LinkedSubjectID)
			if err != nil {
				return nil, err
			}
			u.LinkSubject(&subjectID)
		}
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		if err == user.ErrEmailTaken {
			return nil, errors.NewConflictError("a user with this email already exists")
		}
		return nil, errors.NewInternalError("failed to update user", err.Error())
	}

	s.logger.Info("user updated", "sid", u.SID())
	return s.toResponse(ctx, u)
}

func (s *Service) resolveCenterIDs(ctx context.Context, centerSIDs []string) ([]uint, error) {
	ids := make([]uint, 0, len(centerSIDs))
	for _, sid := range centerSIDs {
		c, err := s.centerRepo.GetBySID(ctx, sid)
		if err != nil {
			if err == center.ErrCenterNotFound {
				return nil, errors.NewValidationError("unknown center: " + sid)
			}
			return nil, errors.NewInternalError("failed to resolve center", err.Error())
		}
		ids = append(ids, c.ID())
	}
	return ids, nil
}

func (s *Service) resolveSubjectID(ctx context.Context, subjectSID string) (uint, error) {
	sub, err := s.subjectRepo.GetBySID(ctx, subjectSID)
	if err != nil {
		if err == subject.ErrSubjectNotFound {
			return 0, errors.NewValidationError("unknown subject: " + subjectSID)
		}
		return 0, errors.NewInternalError("failed to resolve subject", err.Error())
	}
	return sub.ID(), nil
}

func (s *Service) toResponse(ctx context.Context, u *user.User) (*dto.UserResponse, error) {
	centers, err := s.centerRepo.GetByIDs(ctx, u.CenterIDs())
	if err != nil {
		return nil, errors.NewInternalError("failed to load assigned centers", err.Error())
	}

	refs := make([]dto.CenterRef, 0, len(centers))
	for _, c := range centers {
		refs = append(refs, dto.CenterRef{ID: c.SID(), Name: c.Name()})
	}

	var linkedSID *string
	if u.LinkedSubjectID() != nil {
		sub, err := s.subjectRepo.GetByID(ctx, *u.LinkedSubjectID())
		if err == nil {
			sid := sub.SID()
			linkedSID = &sid
		}
	}

	return &dto.UserResponse{
		ID:              u.SID(),
		Email:           u.Email(),
		Name:            u.Name(),
		Role:            u.Role().String(),
		IsActive:        u.IsActive(),
		LinkedSubjectID: linkedSID,
		Centers:         refs,
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
	}, nil
}
