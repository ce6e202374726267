package observation

import (
	"context"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/observation/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/services/markdown"
)

// Service logs and lists observations. Each observation snapshots the
// subject's center at logging time, so history stays put when staff
// transfer.
type Service struct {
	observationRepo observation.Repository
	typeConfigRepo  observation.TypeConfigRepository
	subjectRepo     subject.Repository
	centerRepo      center.Repository
	userRepo        user.Repository
	markdownSvc     markdown.MarkdownService
	logger          logger.Interface
}

// NewService creates a new observation service
func NewService(
	observationRepo observation.Repository,
	typeConfigRepo observation.TypeConfigRepository,
	subjectRepo subject.Repository,
	centerRepo center.Repository,
	userRepo user.Repository,
	markdownSvc markdown.MarkdownService,
	logger logger.Interface,
) *Service {
	return &Service{
		observationRepo: observationRepo,
		typeConfigRepo:  typeConfigRepo,
		subjectRepo:     subjectRepo,
		centerRepo:      centerRepo,
		userRepo:        userRepo,
		markdownSvc:     markdownSvc,
		logger:          logger,
	}
}

// Create logs a new observation against a subject the actor can see.
func (s *Service) Create(ctx context.Context, actor access.Actor, input dto.CreateObservationInput) (*dto.ObservationResponse, error) {
	sub, err := s.visibleSubject(ctx, actor, input.SubjectID)
	if err != nil {
		return nil, err
	}

	transcript := s.markdownSvc.StripMarkup(input.Transcript)
	if transcript == "" {
		return nil, errors.NewValidationError("transcript is required")
	}

	obsType, err := s.validateType(ctx, input.Type)
	if err != nil {
		return nil, err
	}

	observedAt := biztime.NowUTC()
	if input.ObservedAt != nil {
		observedAt = input.ObservedAt.UTC()
	}

	obs, err := observation.NewObservation(sub.ID(), sub.CurrentCenterID(), actor.UserID, transcript, obsType, observedAt)
	if err != nil {
		if err == observation.ErrFutureObservedAt {
			return nil, errors.NewValidationError("observed_at cannot be in the future")
		}
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.observationRepo.Create(ctx, obs); err != nil {
		return nil, errors.NewInternalError("failed to create observation", err.Error())
	}

	s.logger.Info("observation logged",
		"sid", obs.SID(),
		"subject_sid", sub.SID(),
		"center_id", obs.CenterID(),
	)
	return s.toResponse(ctx, actor, obs)
}

// List returns observations within the actor's scope, newest observed
// first. Observations of the actor's linked subject are suppressed.
func (s *Service) List(ctx context.Context, actor access.Actor, filter dto.ListFilter) ([]*dto.ObservationResponse, error) {
	scope, err := s.resolveScope(ctx, actor, filter.CenterID)
	if err != nil {
		return nil, err
	}

	domainFilter := observation.ListFilter{
		Scope:           scope,
		ObservationType: filter.Type,
		Limit:           filter.Limit,
	}

	if filter.SubjectID != nil && *filter.SubjectID != "" {
		sub, err := s.visibleSubject(ctx, actor, *filter.SubjectID)
		if err != nil {
			return nil, err
		}
		sid := sub.ID()
		domainFilter.SubjectID = &sid
	}

	if filter.From != nil && *filter.From != "" {
		from, err := biztime.ParseDateInBizTimezone(*filter.From)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		domainFilter.From = &from
	}
	if filter.To != nil && *filter.To != "" {
		to, err := biztime.ParseDateInBizTimezone(*filter.To)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		end := biztime.EndOfDayUTC(to)
		domainFilter.To = &end
	}

	observations, err := s.observationRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list observations", err.Error())
	}

	return s.toResponses(ctx, actor, observations)
}

// Recent returns the most recently logged observations within the
// actor's scope. Ordering is by logged_at, not observed_at, so a
// backdated entry still shows up at the top right after it is saved.
func (s *Service) Recent(ctx context.Context, actor access.Actor, limit int) ([]*dto.ObservationResponse, error) {
	scope, err := s.resolveScope(ctx, actor, nil)
	if err != nil {
		return nil, err
	}

	observations, err := s.observationRepo.Recent(ctx, scope, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to list recent observations", err.Error())
	}

	return s.toResponses(ctx, actor, observations)
}

// Get returns a single observation within the actor's scope
func (s *Service) Get(ctx context.Context, actor access.Actor, sid string) (*dto.ObservationResponse, error) {
	obs, err := s.visibleObservation(ctx, actor, sid)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, actor, obs)
}

// Update edits an observation. Only the original logger may edit, and
// only within the edit window.
func (s *Service) Update(ctx context.Context, actor access.Actor, sid string, input dto.UpdateObservationInput) (*dto.ObservationResponse, error) {
	obs, err := s.visibleObservation(ctx, actor, sid)
	if err != nil {
		return nil, err
	}

	if !obs.CanEdit(actor.UserID, biztime.NowUTC()) {
		return nil, errors.NewForbiddenError("observations can only be edited by their logger within 24 hours")
	}

	transcript := obs.Transcript()
	if input.Transcript != nil {
		transcript = s.markdownSvc.StripMarkup(*input.Transcript)
	}

	obsType := obs.ObservationType()
	if input.Type != nil {
		if *input.Type == "" {
			obsType = nil
		} else {
			obsType, err = s.validateType(ctx, input.Type)
			if err != nil {
				return nil, err
			}
		}
	}

	observedAt := obs.ObservedAt()
	if input.ObservedAt != nil {
		observedAt = input.ObservedAt.UTC()
	}

	if err := obs.ApplyEdit(transcript, obsType, observedAt); err != nil {
		if err == observation.ErrFutureObservedAt {
			return nil, errors.NewValidationError("observed_at cannot be in the future")
		}
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.observationRepo.Update(ctx, obs); err != nil {
		return nil, errors.NewInternalError("failed to update observation", err.Error())
	}

	s.logger.Info("observation edited", "sid", obs.SID())
	return s.toResponse(ctx, actor, obs)
}

// ListTypeConfigs returns the tag taxonomy. activeOnly restricts to tags
// offered on new entries.
func (s *Service) ListTypeConfigs(ctx context.Context, activeOnly bool) ([]*dto.TypeConfigResponse, error) {
	configs, err := s.typeConfigRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.NewInternalError("failed to list observation types", err.Error())
	}

	out := make([]*dto.TypeConfigResponse, 0, len(configs))
	for _, t := range configs {
		out = append(out, toTypeConfigResponse(t))
	}
	return out, nil
}

// CreateTypeConfig adds a tag to the taxonomy
func (s *Service) CreateTypeConfig(ctx context.Context, input dto.CreateTypeConfigInput) (*dto.TypeConfigResponse, error) {
	t, err := observation.NewTypeConfig(input.Value, input.Label, input.SortOrder)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.typeConfigRepo.Create(ctx, t); err != nil {
		if err == observation.ErrTypeValueTaken {
			return nil, errors.NewConflictError("an observation type with this value already exists")
		}
		return nil, errors.NewInternalError("failed to create observation type", err.Error())
	}

	s.logger.Info("observation type created", "sid", t.SID(), "value", t.Value())
	return toTypeConfigResponse(t), nil
}

// UpdateTypeConfig relabels, reorders, or retires a tag. Retiring never
// touches observations already tagged with it.
func (s *Service) UpdateTypeConfig(ctx context.Context, sid string, input dto.UpdateTypeConfigInput) (*dto.TypeConfigResponse, error) {
	t, err := s.typeConfigRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == observation.ErrTypeConfigNotFound {
			return nil, errors.NewNotFoundError("observation type not found")
		}
		return nil, errors.NewInternalError("failed to get observation type", err.Error())
	}

	label := t.Label()
	if input.Label != nil {
		label = *input.Label
	}
	sortOrder := t.SortOrder()
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	}
	if err := t.Relabel(label, sortOrder); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if input.IsActive != nil {
		if *input.IsActive {
			t.Activate()
		} else {
			t.Deactivate()
		}
	}

	if err := s.typeConfigRepo.Update(ctx, t); err != nil {
		return nil, errors.NewInternalError("failed to update observation type", err.Error())
	}

	s.logger.Info("observation type updated", "sid", t.SID())
	return toTypeConfigResponse(t), nil
}

// visibleSubject loads a subject and applies scope plus self-visibility.
func (s *Service) visibleSubject(ctx context.Context, actor access.Actor, subjectSID string) (*subject.Subject, error) {
	sub, err := s.subjectRepo.GetBySID(ctx, subjectSID)
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

// visibleObservation loads an observation and applies scope plus
// self-visibility on its subject.
func (s *Service) visibleObservation(ctx context.Context, actor access.Actor, sid string) (*observation.Observation, error) {
	obs, err := s.observationRepo.GetBySID(ctx, sid)
	if err != nil {
		if err == observation.ErrObservationNotFound {
			return nil, errors.NewNotFoundError("observation not found")
		}
		return nil, errors.NewInternalError("failed to get observation", err.Error())
	}

	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}
	if !scope.Contains(obs.CenterID()) {
		return nil, errors.NewNotFoundError("observation not found")
	}
	if !access.CanViewSubject(actor, obs.SubjectID()) {
		return nil, errors.NewNotFoundError("observation not found")
	}

	return obs, nil
}

func (s *Service) validateType(ctx context.Context, value *string) (*string, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	configs, err := s.typeConfigRepo.List(ctx, true)
	if err != nil {
		return nil, errors.NewInternalError("failed to load observation types", err.Error())
	}
	for _, t := range configs {
		if t.Value() == *value {
			v := *value
			return &v, nil
		}
	}
	return nil, errors.NewValidationError("unknown observation type: " + *value)
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

// toResponses maps a batch, suppressing self-visibility rows and loading
// related names once per id.
func (s *Service) toResponses(ctx context.Context, actor access.Actor, observations []*observation.Observation) ([]*dto.ObservationResponse, error) {
	now := biztime.NowUTC()
	subjects := map[uint]*subject.Subject{}
	centers := map[uint]*center.Center{}
	users := map[uint]*user.User{}

	out := make([]*dto.ObservationResponse, 0, len(observations))
	for _, obs := range observations {
		if !access.CanViewSubject(actor, obs.SubjectID()) {
			continue
		}

		sub, ok := subjects[obs.SubjectID()]
		if !ok {
			var err error
			sub, err = s.subjectRepo.GetByID(ctx, obs.SubjectID())
			if err != nil {
				return nil, errors.NewInternalError("failed to load subject", err.Error())
			}
			subjects[obs.SubjectID()] = sub
		}

		c, ok := centers[obs.CenterID()]
		if !ok {
			var err error
			c, err = s.centerRepo.GetByID(ctx, obs.CenterID())
			if err != nil {
				return nil, errors.NewInternalError("failed to load center", err.Error())
			}
			centers[obs.CenterID()] = c
		}

		u, ok := users[obs.LoggedByUserID()]
		if !ok {
			var err error
			u, err = s.userRepo.GetByID(ctx, obs.LoggedByUserID())
			if err != nil {
				return nil, errors.NewInternalError("failed to load user", err.Error())
			}
			users[obs.LoggedByUserID()] = u
		}

		out = append(out, buildResponse(obs, sub, c, u, actor, now))
	}
	return out, nil
}

func (s *Service) toResponse(ctx context.Context, actor access.Actor, obs *observation.Observation) (*dto.ObservationResponse, error) {
	responses, err := s.toResponses(ctx, actor, []*observation.Observation{obs})
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, errors.NewNotFoundError("observation not found")
	}
	return responses[0], nil
}

func buildResponse(obs *observation.Observation, sub *subject.Subject, c *center.Center, u *user.User, actor access.Actor, now time.Time) *dto.ObservationResponse {
	return &dto.ObservationResponse{
		ID:         obs.SID(),
		Subject:    dto.Ref{ID: sub.SID(), Name: sub.Name()},
		Center:     dto.Ref{ID: c.SID(), Name: c.Name()},
		LoggedBy:   dto.Ref{ID: u.SID(), Name: u.DisplayName()},
		Transcript: obs.Transcript(),
		Type:       obs.ObservationType(),
		ObservedAt: obs.ObservedAt(),
		LoggedAt:   obs.LoggedAt(),
		CanEdit:    obs.CanEdit(actor.UserID, now),
		UpdatedAt:  obs.UpdatedAt(),
	}
}

func toTypeConfigResponse(t *observation.TypeConfig) *dto.TypeConfigResponse {
	return &dto.TypeConfigResponse{
		ID:        t.SID(),
		Value:     t.Value(),
		Label:     t.Label(),
		IsActive:  t.IsActive(),
		SortOrder: t.SortOrder(),
	}
}
