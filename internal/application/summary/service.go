package summary

import (
	"context"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/summary/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/summary"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/ai"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/services/markdown"
)

// TextGenerator is the subset of the model client the summary flow needs.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (*ai.GenerationResult, error)
}

// Service produces AI summaries of a subject's observations, reusing a
// stored summary whenever it still covers the subject's newest
// observation. A new observation is the only thing that invalidates the
// cache; edits to existing observations do not.
type Service struct {
	summaryRepo     summary.Repository
	observationRepo observation.Repository
	subjectRepo     subject.Repository
	generator       TextGenerator
	markdownSvc     markdown.MarkdownService
	logger          logger.Interface
}

// NewService creates a new summary service
func NewService(
	summaryRepo summary.Repository,
	observationRepo observation.Repository,
	subjectRepo subject.Repository,
	generator TextGenerator,
	markdownSvc markdown.MarkdownService,
	logger logger.Interface,
) *Service {
	return &Service{
		summaryRepo:     summaryRepo,
		observationRepo: observationRepo,
		subjectRepo:     subjectRepo,
		generator:       generator,
		markdownSvc:     markdownSvc,
		logger:          logger,
	}
}

// GetOrGenerate returns a summary of the subject's observations from
// startDate (YYYY-MM-DD, business timezone; empty means the subject's
// full history) to now. A cached summary is reused when its window starts
// at or before the requested date and it already covers the newest
// observation; force skips the cache lookup and always generates.
func (s *Service) GetOrGenerate(ctx context.Context, actor access.Actor, subjectSID string, startDate string, force bool) (*dto.SummaryResponse, error) {
	sub, err := s.visibleSubject(ctx, actor, subjectSID)
	if err != nil {
		return nil, err
	}

	var start time.Time
	var from *time.Time
	if startDate != "" {
		start, err = biztime.ParseDateInBizTimezone(startDate)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if start.After(biztime.NowUTC()) {
			return nil, errors.NewValidationError("start date cannot be in the future")
		}
		from = &start
	}

	observations, err := s.observationRepo.ListForSubject(ctx, sub.ID(), from)
	if err != nil {
		return nil, errors.NewInternalError("failed to load observations", err.Error())
	}
	if len(observations) == 0 {
		return nil, errors.NewValidationError("no observations in the requested period")
	}

	// Without an explicit start date the window covers the full history,
	// so the effective start is the earliest observation.
	if from == nil {
		start = observations[0].ObservedAt()
	}

	// ListForSubject orders by observed_at ascending, so the last element
	// is the subject's newest observation in the window.
	lastObs := observations[len(observations)-1]

	if !force {
		cached, err := s.summaryRepo.LatestMatching(ctx, sub.ID(), lastObs.ID(), start)
		if err == nil {
			s.logger.Debug("summary cache hit",
				"subject_sid", sub.SID(),
				"summary_sid", cached.SID(),
			)
			return s.toResponse(sub, cached, dto.OutcomeCached)
		}
		if err != summary.ErrSummaryNotFound {
			return nil, errors.NewInternalError("failed to check summary cache", err.Error())
		}
	}

	generatedAt := biztime.NowUTC()
	genStart := time.Now()
	result, err := s.generator.Generate(ctx, summarySystemPrompt, buildSummaryPrompt(sub, observations))
	if err != nil {
		return nil, errors.NewInternalError("failed to generate summary", err.Error())
	}

	record, err := summary.NewObservationSummary(
		sub.ID(),
		result.Text,
		start,
		generatedAt,
		len(observations),
		lastObs.ID(),
		actor.UserID,
		summary.GenerationMeta{
			Model:        result.Model,
			PromptTokens: result.PromptTokens,
			OutputTokens: result.OutputTokens,
			DurationMS:   time.Since(genStart).Milliseconds(),
		},
	)
	if err != nil {
		return nil, errors.NewInternalError("failed to build summary record", err.Error())
	}

	if err := s.summaryRepo.Create(ctx, record); err != nil {
		// The caller still gets the text; only reuse is lost.
		s.logger.Warn("generated summary could not be stored",
			"subject_sid", sub.SID(),
			"error", err,
		)
		return s.toResponse(sub, record, dto.OutcomeGeneratedUnsaved)
	}

	s.logger.Info("summary generated",
		"subject_sid", sub.SID(),
		"summary_sid", record.SID(),
		"observation_count", record.ObservationCount(),
	)
	return s.toResponse(sub, record, dto.OutcomeGenerated)
}

// Latest returns the subject's newest stored summary without generating,
// or not found when none exists.
func (s *Service) Latest(ctx context.Context, actor access.Actor, subjectSID string) (*dto.SummaryResponse, error) {
	sub, err := s.visibleSubject(ctx, actor, subjectSID)
	if err != nil {
		return nil, err
	}

	latest, err := s.summaryRepo.LatestForSubject(ctx, sub.ID())
	if err != nil {
		if err == summary.ErrSummaryNotFound {
			return nil, errors.NewNotFoundError("no summary for this subject yet")
		}
		return nil, errors.NewInternalError("failed to load summary", err.Error())
	}

	return s.toResponse(sub, latest, dto.OutcomeCached)
}

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

func (s *Service) toResponse(sub *subject.Subject, record *summary.ObservationSummary, outcome dto.Outcome) (*dto.SummaryResponse, error) {
	html, err := s.markdownSvc.ToHTMLSanitized(record.SummaryText())
	if err != nil {
		return nil, errors.NewInternalError("failed to render summary", err.Error())
	}

	return &dto.SummaryResponse{
		SubjectID:        sub.SID(),
		SummaryText:      record.SummaryText(),
		SummaryHTML:      html,
		StartDate:        record.StartDate(),
		EndDate:          record.EndDate(),
		ObservationCount: record.ObservationCount(),
		Outcome:          outcome,
		GeneratedAt:      record.CreatedAt(),
	}, nil
}
