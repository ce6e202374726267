package observation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/observation/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/services/markdown"
)

// =====================================================================
// Fakes
// =====================================================================

type fakeObservationRepo struct {
	observation.Repository

	observations []*observation.Observation
}

func (f *fakeObservationRepo) Create(ctx context.Context, o *observation.Observation) error {
	o.SetID(uint(len(f.observations) + 1))
	f.observations = append(f.observations, o)
	return nil
}

func (f *fakeObservationRepo) GetBySID(ctx context.Context, sid string) (*observation.Observation, error) {
	for _, o := range f.observations {
		if o.SID() == sid {
			return o, nil
		}
	}
	return nil, observation.ErrObservationNotFound
}

func (f *fakeObservationRepo) Update(ctx context.Context, o *observation.Observation) error {
	return nil
}

func (f *fakeObservationRepo) List(ctx context.Context, filter observation.ListFilter) ([]*observation.Observation, error) {
	var out []*observation.Observation
	for _, o := range f.observations {
		if !filter.Scope.Contains(o.CenterID()) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeObservationRepo) Recent(ctx context.Context, scope access.Scope, limit int) ([]*observation.Observation, error) {
	var out []*observation.Observation
	for _, o := range f.observations {
		if !scope.Contains(o.CenterID()) {
			continue
		}
		out = append(out, o)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeTypeConfigRepo struct {
	observation.TypeConfigRepository

	configs []*observation.TypeConfig
}

func (f *fakeTypeConfigRepo) Create(ctx context.Context, t *observation.TypeConfig) error {
	for _, existing := range f.configs {
		if existing.Value() == t.Value() {
			return observation.ErrTypeValueTaken
		}
	}
	t.SetID(uint(len(f.configs) + 1))
	f.configs = append(f.configs, t)
	return nil
}

func (f *fakeTypeConfigRepo) GetBySID(ctx context.Context, sid string) (*observation.TypeConfig, error) {
	for _, t := range f.configs {
		if t.SID() == sid {
			return t, nil
		}
	}
	return nil, observation.ErrTypeConfigNotFound
}

func (f *fakeTypeConfigRepo) List(ctx context.Context, activeOnly bool) ([]*observation.TypeConfig, error) {
	var out []*observation.TypeConfig
	for _, t := range f.configs {
		if activeOnly && !t.IsActive() {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTypeConfigRepo) Update(ctx context.Context, t *observation.TypeConfig) error {
	return nil
}

type fakeSubjectRepo struct {
	subject.Repository

	subjects []*subject.Subject
}

func (f *fakeSubjectRepo) GetByID(ctx context.Context, id uint) (*subject.Subject, error) {
	for _, s := range f.subjects {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, subject.ErrSubjectNotFound
}

func (f *fakeSubjectRepo) GetBySID(ctx context.Context, sid string) (*subject.Subject, error) {
	for _, s := range f.subjects {
		if s.SID() == sid {
			return s, nil
		}
	}
	return nil, subject.ErrSubjectNotFound
}

type fakeCenterRepo struct {
	center.Repository

	centers map[uint]*center.Center
}

func (f *fakeCenterRepo) GetByID(ctx context.Context, id uint) (*center.Center, error) {
	c, ok := f.centers[id]
	if !ok {
		return nil, center.ErrCenterNotFound
	}
	return c, nil
}

func (f *fakeCenterRepo) GetBySID(ctx context.Context, sid string) (*center.Center, error) {
	for _, c := range f.centers {
		if c.SID() == sid {
			return c, nil
		}
	}
	return nil, center.ErrCenterNotFound
}

type fakeUserRepo struct {
	user.Repository

	users map[uint]*user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// =====================================================================
// Helpers
// =====================================================================

type testEnv struct {
	svc      *Service
	obsRepo  *fakeObservationRepo
	typeRepo *fakeTypeConfigRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := biztime.NowUTC()
	activity, err := observation.NewTypeConfig("activity", "Activity", 1)
	require.NoError(t, err)
	retired, err := observation.NewTypeConfig("legacy", "Legacy", 2)
	require.NoError(t, err)
	retired.Deactivate()

	obsRepo := &fakeObservationRepo{}
	typeRepo := &fakeTypeConfigRepo{configs: []*observation.TypeConfig{activity, retired}}
	subjectRepo := &fakeSubjectRepo{subjects: []*subject.Subject{
		subject.ReconstructSubject(1, "sbj_nanny", "Lakshmi", authorization.SubjectRoleNanny, 1, true, now, now),
		subject.ReconstructSubject(2, "sbj_self", "Priya", authorization.SubjectRoleManagerAsSubject, 1, true, now, now),
	}}
	centerRepo := &fakeCenterRepo{centers: map[uint]*center.Center{
		1: center.ReconstructCenter(1, "ctr_a", "Indiranagar", now, now),
		2: center.ReconstructCenter(2, "ctr_b", "Koramangala", now, now),
	}}
	name := "Meera"
	userRepo := &fakeUserRepo{users: map[uint]*user.User{
		5: user.ReconstructUser(5, "usr_mgr", "meera@example.org", &name, authorization.RoleManager, true, nil, []uint{1}, now, now),
	}}

	svc := NewService(obsRepo, typeRepo, subjectRepo, centerRepo, userRepo, markdown.NewMarkdownService(), logger.NewLogger())
	return &testEnv{svc: svc, obsRepo: obsRepo, typeRepo: typeRepo}
}

func managerActor(linkedSubjectID *uint, centerIDs ...uint) access.Actor {
	return access.Actor{
		UserID:          5,
		Role:            authorization.RoleManager,
		CenterIDs:       centerIDs,
		LinkedSubjectID: linkedSubjectID,
	}
}

func uintPtr(v uint) *uint           { return &v }
func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func requireErrType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, want, appErr.Type)
}

// =====================================================================
// Create
// =====================================================================

func TestCreate_SnapshotsCenterAndSetsLoggedAt(t *testing.T) {
	env := newTestEnv(t)

	before := biztime.NowUTC()
	resp, err := env.svc.Create(context.Background(), managerActor(nil, 1), dto.CreateObservationInput{
		SubjectID:  "sbj_nanny",
		Transcript: "helped the new nanny settle in",
		Type:       strPtr("activity"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ctr_a", resp.Center.ID)
	assert.Equal(t, "activity", *resp.Type)
	assert.True(t, resp.CanEdit)
	assert.False(t, resp.LoggedAt.Before(before))
	require.Len(t, env.obsRepo.observations, 1)
	assert.Equal(t, uint(1), env.obsRepo.observations[0].CenterID())
}

func TestCreate_StripsMarkupFromTranscript(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Create(context.Background(), managerActor(nil, 1), dto.CreateObservationInput{
		SubjectID:  "sbj_nanny",
		Transcript: "<script>alert(1)</script>kept the kitchen spotless",
	})
	require.NoError(t, err)
	assert.NotContains(t, resp.Transcript, "<script>")
	assert.Contains(t, resp.Transcript, "kept the kitchen spotless")
}

func TestCreate_FutureObservedAtRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), managerActor(nil, 1), dto.CreateObservationInput{
		SubjectID:  "sbj_nanny",
		Transcript: "from the future",
		ObservedAt: timePtr(biztime.NowUTC().Add(time.Hour)),
	})
	requireErrType(t, err, apperrors.ErrorTypeValidation)
}

func TestCreate_BackdatedObservedAtAllowed(t *testing.T) {
	env := newTestEnv(t)

	yesterday := biztime.NowUTC().Add(-26 * time.Hour)
	resp, err := env.svc.Create(context.Background(), managerActor(nil, 1), dto.CreateObservationInput{
		SubjectID:  "sbj_nanny",
		Transcript: "forgot to log this yesterday",
		ObservedAt: timePtr(yesterday),
	})
	require.NoError(t, err)
	assert.WithinDuration(t, yesterday, resp.ObservedAt, time.Second)
	// logged_at records when the entry was saved, not when it happened
	assert.True(t, resp.LoggedAt.After(resp.ObservedAt))
}

func TestCreate_RetiredTypeRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), managerActor(nil, 1), dto.CreateObservationInput{
		SubjectID:  "sbj_nanny",
		Transcript: "tagged with a retired type",
		Type:       strPtr("legacy"),
	})
	requireErrType(t, err, apperrors.ErrorTypeValidation)
}

func TestCreate_OwnLinkedSubjectSurfacesAsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), managerActor(uintPtr(2), 1), dto.CreateObservationInput{
		SubjectID:  "sbj_self",
		Transcript: "should never work",
	})
	requireErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestCreate_SubjectOutsideScopeSurfacesAsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), managerActor(nil, 2), dto.CreateObservationInput{
		SubjectID:  "sbj_nanny",
		Transcript: "outside my centers",
	})
	requireErrType(t, err, apperrors.ErrorTypeNotFound)
}

// =====================================================================
// Update
// =====================================================================

func seedObservation(t *testing.T, env *testEnv, loggedByUserID uint, loggedAt time.Time) *observation.Observation {
	t.Helper()
	obs := observation.ReconstructObservation(
		uint(len(env.obsRepo.observations)+1), "obs_seed", 1, 1, loggedByUserID,
		"original transcript", nil, loggedAt, loggedAt, loggedAt, loggedAt,
	)
	env.obsRepo.observations = append(env.obsRepo.observations, obs)
	return obs
}

func TestUpdate_WithinWindowByLogger(t *testing.T) {
	env := newTestEnv(t)
	seedObservation(t, env, 5, biztime.NowUTC().Add(-23*time.Hour))

	resp, err := env.svc.Update(context.Background(), managerActor(nil, 1), "obs_seed", dto.UpdateObservationInput{
		Transcript: strPtr("corrected transcript"),
		Type:       strPtr("activity"),
	})
	require.NoError(t, err)
	assert.Equal(t, "corrected transcript", resp.Transcript)
	assert.Equal(t, "activity", *resp.Type)
}

func TestUpdate_AfterWindowForbidden(t *testing.T) {
	env := newTestEnv(t)
	seedObservation(t, env, 5, biztime.NowUTC().Add(-25*time.Hour))

	_, err := env.svc.Update(context.Background(), managerActor(nil, 1), "obs_seed", dto.UpdateObservationInput{
		Transcript: strPtr("too late"),
	})
	requireErrType(t, err, apperrors.ErrorTypeForbidden)
}

func TestUpdate_ByDifferentUserForbidden(t *testing.T) {
	env := newTestEnv(t)
	seedObservation(t, env, 99, biztime.NowUTC())

	_, err := env.svc.Update(context.Background(), managerActor(nil, 1), "obs_seed", dto.UpdateObservationInput{
		Transcript: strPtr("not mine to edit"),
	})
	requireErrType(t, err, apperrors.ErrorTypeForbidden)
}

func TestUpdate_EmptyTypeClearsTag(t *testing.T) {
	env := newTestEnv(t)
	obs := seedObservation(t, env, 5, biztime.NowUTC())
	require.NoError(t, obs.ApplyEdit(obs.Transcript(), strPtr("activity"), obs.ObservedAt()))

	resp, err := env.svc.Update(context.Background(), managerActor(nil, 1), "obs_seed", dto.UpdateObservationInput{
		Type: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Type)
}

func TestUpdate_NotFoundOutsideScope(t *testing.T) {
	env := newTestEnv(t)
	seedObservation(t, env, 5, biztime.NowUTC())

	_, err := env.svc.Update(context.Background(), managerActor(nil, 2), "obs_seed", dto.UpdateObservationInput{
		Transcript: strPtr("wrong center"),
	})
	requireErrType(t, err, apperrors.ErrorTypeNotFound)
}

// =====================================================================
// List / Recent
// =====================================================================

func TestList_UnknownCenterFilterRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.List(context.Background(), managerActor(nil, 1), dto.ListFilter{
		CenterID: strPtr("ctr_nope"),
	})
	requireErrType(t, err, apperrors.ErrorTypeValidation)
}

func TestList_CenterOutsideManagerScopeForbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.List(context.Background(), managerActor(nil, 1), dto.ListFilter{
		CenterID: strPtr("ctr_b"),
	})
	requireErrType(t, err, apperrors.ErrorTypeForbidden)
}

func TestList_SuppressesOwnLinkedSubjectRows(t *testing.T) {
	env := newTestEnv(t)
	now := biztime.NowUTC()
	env.obsRepo.observations = []*observation.Observation{
		observation.ReconstructObservation(1, "obs_a", 1, 1, 5, "about the nanny", nil, now, now, now, now),
		observation.ReconstructObservation(2, "obs_b", 2, 1, 5, "about priya herself", nil, now, now, now, now),
	}

	result, err := env.svc.List(context.Background(), managerActor(uintPtr(2), 1), dto.ListFilter{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "obs_a", result[0].ID)
}

func TestRecent_ScopedToManagerCenters(t *testing.T) {
	env := newTestEnv(t)
	now := biztime.NowUTC()
	env.obsRepo.observations = []*observation.Observation{
		observation.ReconstructObservation(1, "obs_a", 1, 1, 5, "in scope", nil, now, now, now, now),
		observation.ReconstructObservation(2, "obs_b", 1, 2, 5, "other center", nil, now, now, now, now),
	}

	result, err := env.svc.Recent(context.Background(), managerActor(nil, 1), 5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "obs_a", result[0].ID)
}

// =====================================================================
// Type configs
// =====================================================================

func TestCreateTypeConfig_DuplicateValueConflicts(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateTypeConfig(context.Background(), dto.CreateTypeConfigInput{
		Value: "activity",
		Label: "Activity again",
	})
	requireErrType(t, err, apperrors.ErrorTypeConflict)
}

func TestCreateTypeConfig_Success(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.CreateTypeConfig(context.Background(), dto.CreateTypeConfigInput{
		Value:     "concern",
		Label:     "Concern",
		SortOrder: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "concern", resp.Value)
	assert.True(t, resp.IsActive)
}

func TestUpdateTypeConfig_RetireLeavesExistingTags(t *testing.T) {
	env := newTestEnv(t)
	now := biztime.NowUTC()
	env.obsRepo.observations = []*observation.Observation{
		observation.ReconstructObservation(1, "obs_a", 1, 1, 5, "tagged entry", strPtr("activity"), now, now, now, now),
	}
	sid := env.typeRepo.configs[0].SID()

	inactive := false
	_, err := env.svc.UpdateTypeConfig(context.Background(), sid, dto.UpdateTypeConfigInput{
		IsActive: &inactive,
	})
	require.NoError(t, err)

	// the tag disappears from new-entry forms but old entries keep it
	active, err := env.svc.ListTypeConfigs(context.Background(), true)
	require.NoError(t, err)
	for _, tc := range active {
		assert.NotEqual(t, "activity", tc.Value)
	}
	listed, err := env.svc.List(context.Background(), managerActor(nil, 1), dto.ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "activity", *listed[0].Type)
}

func TestUpdateTypeConfig_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateTypeConfig(context.Background(), "otc_missing", dto.UpdateTypeConfigInput{
		Label: strPtr("whatever"),
	})
	requireErrType(t, err, apperrors.ErrorTypeNotFound)
}
