package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/summary/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	domainsummary "github.com/rahul-raghavan/pep-ops-log/internal/domain/summary"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/ai"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/services/markdown"
)

// =====================================================================
// Fakes
// =====================================================================

type fakeSummaryRepo struct {
	stored    *domainsummary.ObservationSummary
	latest    *domainsummary.ObservationSummary
	createErr error
}

func (f *fakeSummaryRepo) Create(ctx context.Context, s *domainsummary.ObservationSummary) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.stored = s
	return nil
}

func (f *fakeSummaryRepo) LatestMatching(ctx context.Context, subjectID, lastObservationID uint, maxStartDate time.Time) (*domainsummary.ObservationSummary, error) {
	if f.latest != nil && f.latest.IsValidFor(lastObservationID, maxStartDate) {
		return f.latest, nil
	}
	return nil, domainsummary.ErrSummaryNotFound
}

func (f *fakeSummaryRepo) LatestForSubject(ctx context.Context, subjectID uint) (*domainsummary.ObservationSummary, error) {
	if f.latest == nil {
		return nil, domainsummary.ErrSummaryNotFound
	}
	return f.latest, nil
}

type fakeObservationRepo struct {
	observation.Repository

	observations []*observation.Observation
}

func (f *fakeObservationRepo) ListForSubject(ctx context.Context, subjectID uint, from *time.Time) ([]*observation.Observation, error) {
	return f.observations, nil
}

type fakeSubjectRepo struct {
	subject.Repository

	subjects map[string]*subject.Subject
}

func (f *fakeSubjectRepo) GetBySID(ctx context.Context, sid string) (*subject.Subject, error) {
	sub, ok := f.subjects[sid]
	if !ok {
		return nil, subject.ErrSubjectNotFound
	}
	return sub, nil
}

type fakeGenerator struct {
	result *ai.GenerationResult
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, system, prompt string) (*ai.GenerationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// =====================================================================
// Helpers
// =====================================================================

func adminActor() access.Actor {
	return access.Actor{UserID: 9, Role: authorization.RoleAdmin}
}

func testSubject() *subject.Subject {
	now := biztime.NowUTC()
	return subject.ReconstructSubject(1, "sbj_abc", "Lakshmi", authorization.SubjectRoleNanny, 2, true, now, now)
}

func testObservation(t *testing.T, id uint, observedAt time.Time) *observation.Observation {
	t.Helper()
	obs := observation.ReconstructObservation(
		id, "obs_x", 1, 2, 3, "did the morning routine without prompting", nil,
		observedAt, observedAt, observedAt, observedAt,
	)
	return obs
}

func newTestService(summaryRepo *fakeSummaryRepo, obsRepo *fakeObservationRepo, gen *fakeGenerator) *Service {
	subjectRepo := &fakeSubjectRepo{subjects: map[string]*subject.Subject{"sbj_abc": testSubject()}}
	return NewService(summaryRepo, obsRepo, subjectRepo, gen, markdown.NewMarkdownService(), logger.NewLogger())
}

// =====================================================================
// Tests
// =====================================================================

func TestGetOrGenerate_NoObservations(t *testing.T) {
	svc := newTestService(&fakeSummaryRepo{}, &fakeObservationRepo{}, &fakeGenerator{})

	_, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", "", false)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestGetOrGenerate_GeneratesAndStores(t *testing.T) {
	now := biztime.NowUTC()
	obsRepo := &fakeObservationRepo{observations: []*observation.Observation{
		testObservation(t, 10, now.Add(-48*time.Hour)),
		testObservation(t, 11, now.Add(-24*time.Hour)),
	}}
	summaryRepo := &fakeSummaryRepo{}
	gen := &fakeGenerator{result: &ai.GenerationResult{
		Text:         "## Overall impression\n\nConsistent and calm.",
		Model:        "claude-sonnet-4-20250514",
		PromptTokens: 900,
		OutputTokens: 250,
	}}

	svc := newTestService(summaryRepo, obsRepo, gen)

	resp, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", "", false)
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeGenerated, resp.Outcome)
	assert.Equal(t, "sbj_abc", resp.SubjectID)
	assert.Equal(t, 2, resp.ObservationCount)
	assert.Contains(t, resp.SummaryHTML, "<h2")
	assert.Equal(t, 1, gen.calls)

	require.NotNil(t, summaryRepo.stored)
	assert.Equal(t, uint(11), summaryRepo.stored.LastObservationID())
	assert.Equal(t, "claude-sonnet-4-20250514", summaryRepo.stored.Meta().Model)
}

func TestGetOrGenerate_CacheHitSkipsGenerator(t *testing.T) {
	now := biztime.NowUTC()
	obsRepo := &fakeObservationRepo{observations: []*observation.Observation{
		testObservation(t, 11, now.Add(-24*time.Hour)),
	}}

	cached, err := domainsummary.NewObservationSummary(
		1, "stored summary", now.Add(-72*time.Hour), now, 1, 11, 9, domainsummary.GenerationMeta{},
	)
	require.NoError(t, err)

	summaryRepo := &fakeSummaryRepo{latest: cached}
	gen := &fakeGenerator{}

	svc := newTestService(summaryRepo, obsRepo, gen)

	resp, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", "", false)
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeCached, resp.Outcome)
	assert.Equal(t, "stored summary", resp.SummaryText)
	assert.Zero(t, gen.calls)
}

func TestGetOrGenerate_ForceSkipsCache(t *testing.T) {
	now := biztime.NowUTC()
	obsRepo := &fakeObservationRepo{observations: []*observation.Observation{
		testObservation(t, 11, now.Add(-24*time.Hour)),
	}}

	cached, err := domainsummary.NewObservationSummary(
		1, "stored summary", now.Add(-72*time.Hour), now, 1, 11, 9, domainsummary.GenerationMeta{},
	)
	require.NoError(t, err)

	summaryRepo := &fakeSummaryRepo{latest: cached}
	gen := &fakeGenerator{result: &ai.GenerationResult{Text: "fresh summary", Model: "m"}}

	svc := newTestService(summaryRepo, obsRepo, gen)

	resp, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", "", true)
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeGenerated, resp.Outcome)
	assert.Equal(t, 1, gen.calls)
}

func TestGetOrGenerate_NewObservationInvalidatesCache(t *testing.T) {
	now := biztime.NowUTC()
	obsRepo := &fakeObservationRepo{observations: []*observation.Observation{
		testObservation(t, 11, now.Add(-48*time.Hour)),
		testObservation(t, 12, now.Add(-1*time.Hour)),
	}}

	stale, err := domainsummary.NewObservationSummary(
		1, "stale summary", now.Add(-72*time.Hour), now, 1, 11, 9, domainsummary.GenerationMeta{},
	)
	require.NoError(t, err)

	summaryRepo := &fakeSummaryRepo{latest: stale}
	gen := &fakeGenerator{result: &ai.GenerationResult{Text: "fresh summary", Model: "m"}}

	svc := newTestService(summaryRepo, obsRepo, gen)

	resp, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", "", false)
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeGenerated, resp.Outcome)
	assert.Equal(t, "fresh summary", resp.SummaryText)
	assert.Equal(t, 1, gen.calls)
}

func TestGetOrGenerate_StoreFailureStillReturnsText(t *testing.T) {
	now := biztime.NowUTC()
	obsRepo := &fakeObservationRepo{observations: []*observation.Observation{
		testObservation(t, 11, now.Add(-24*time.Hour)),
	}}
	summaryRepo := &fakeSummaryRepo{createErr: errors.New("disk full")}
	gen := &fakeGenerator{result: &ai.GenerationResult{Text: "unsaved summary", Model: "m"}}

	svc := newTestService(summaryRepo, obsRepo, gen)

	resp, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", "", false)
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeGeneratedUnsaved, resp.Outcome)
	assert.Equal(t, "unsaved summary", resp.SummaryText)
}

func TestGetOrGenerate_FutureStartDateRejected(t *testing.T) {
	svc := newTestService(&fakeSummaryRepo{}, &fakeObservationRepo{}, &fakeGenerator{})

	future := biztime.NowUTC().AddDate(0, 0, 2).Format("2006-01-02")
	_, err := svc.GetOrGenerate(context.Background(), adminActor(), "sbj_abc", future, false)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestGetOrGenerate_SubjectOutsideScope(t *testing.T) {
	manager := access.Actor{UserID: 5, Role: authorization.RoleManager, CenterIDs: []uint{99}}

	svc := newTestService(&fakeSummaryRepo{}, &fakeObservationRepo{}, &fakeGenerator{})

	_, err := svc.GetOrGenerate(context.Background(), manager, "sbj_abc", "", false)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestLatest(t *testing.T) {
	now := biztime.NowUTC()
	stored, err := domainsummary.NewObservationSummary(
		1, "stored", now.AddDate(0, 0, -30), now, 3, 11, 9, domainsummary.GenerationMeta{},
	)
	require.NoError(t, err)

	svc := newTestService(&fakeSummaryRepo{latest: stored}, &fakeObservationRepo{}, &fakeGenerator{})

	resp, err := svc.Latest(context.Background(), adminActor(), "sbj_abc")
	require.NoError(t, err)
	assert.Equal(t, "stored", resp.SummaryText)
}

func TestLatest_NoneStored(t *testing.T) {
	svc := newTestService(&fakeSummaryRepo{}, &fakeObservationRepo{}, &fakeGenerator{})

	_, err := svc.Latest(context.Background(), adminActor(), "sbj_abc")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}
