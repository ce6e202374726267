package subject

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/subject/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

type fakeSubjectRepo struct {
	subjects []*subject.Subject
}

func (f *fakeSubjectRepo) Create(ctx context.Context, s *subject.Subject) error {
	s.SetID(uint(len(f.subjects) + 1))
	f.subjects = append(f.subjects, s)
	return nil
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

func (f *fakeSubjectRepo) List(ctx context.Context, filter subject.ListFilter) ([]*subject.Subject, error) {
	var out []*subject.Subject
	for _, s := range f.subjects {
		if !filter.Scope.Contains(s.CurrentCenterID()) {
			continue
		}
		if filter.ActiveOnly && !s.IsActive() {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubjectRepo) CountActive(ctx context.Context, scope access.Scope) (int64, error) {
	var n int64
	for _, s := range f.subjects {
		if s.IsActive() && scope.Contains(s.CurrentCenterID()) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubjectRepo) Update(ctx context.Context, s *subject.Subject) error {
	return nil
}

type fakeCenterRepo struct {
	centers map[uint]*center.Center
}

func (f *fakeCenterRepo) Create(ctx context.Context, c *center.Center) error { return nil }
func (f *fakeCenterRepo) Update(ctx context.Context, c *center.Center) error { return nil }
func (f *fakeCenterRepo) List(ctx context.Context) ([]*center.Center, error) { return nil, nil }

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

func (f *fakeCenterRepo) GetByIDs(ctx context.Context, ids []uint) ([]*center.Center, error) {
	var out []*center.Center
	for _, id := range ids {
		if c, ok := f.centers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *fakeSubjectRepo) {
	t.Helper()

	now := time.Now().UTC()
	centerRepo := &fakeCenterRepo{centers: map[uint]*center.Center{
		1: center.ReconstructCenter(1, "ctr_a", "Indiranagar", now, now),
		2: center.ReconstructCenter(2, "ctr_b", "Koramangala", now, now),
	}}
	subjectRepo := &fakeSubjectRepo{subjects: []*subject.Subject{
		subject.ReconstructSubject(1, "sbj_nanny", "Lakshmi", authorization.SubjectRoleNanny, 1, true, now, now),
		subject.ReconstructSubject(2, "sbj_self", "Priya", authorization.SubjectRoleManagerAsSubject, 1, true, now, now),
	}}

	return NewService(subjectRepo, centerRepo, logger.NewLogger()), subjectRepo
}

func managerActor(linkedSubjectID *uint, centerIDs ...uint) access.Actor {
	return access.Actor{
		UserID:          5,
		Role:            authorization.RoleManager,
		CenterIDs:       centerIDs,
		LinkedSubjectID: linkedSubjectID,
	}
}

func uintPtr(v uint) *uint { return &v }

func TestGet_OwnLinkedSubjectSurfacesAsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	// Priya is both a manager and an observed subject; she must never
	// see her own record.
	actor := managerActor(uintPtr(2), 1)

	_, err := svc.Get(context.Background(), actor, "sbj_self")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestGet_OtherSubjectVisible(t *testing.T) {
	svc, _ := newTestService(t)

	actor := managerActor(uintPtr(2), 1)

	resp, err := svc.Get(context.Background(), actor, "sbj_nanny")
	require.NoError(t, err)
	assert.Equal(t, "Lakshmi", resp.Name)
	assert.Equal(t, "ctr_a", resp.Center.ID)
}

func TestGet_OutsideScopeSurfacesAsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	actor := managerActor(nil, 2)

	_, err := svc.Get(context.Background(), actor, "sbj_nanny")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestList_FiltersOwnLinkedSubject(t *testing.T) {
	svc, _ := newTestService(t)

	actor := managerActor(uintPtr(2), 1)

	result, err := svc.List(context.Background(), actor, dto.ListFilter{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Lakshmi", result[0].Name)
}

func TestCreate_CenterOutsideManagerScope(t *testing.T) {
	svc, _ := newTestService(t)

	actor := managerActor(nil, 1)

	_, err := svc.Create(context.Background(), actor, dto.CreateSubjectInput{
		Name:     "Ravi",
		Role:     "driver",
		CenterID: "ctr_b",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
}

func TestCreate_Success(t *testing.T) {
	svc, repo := newTestService(t)

	actor := managerActor(nil, 1)

	resp, err := svc.Create(context.Background(), actor, dto.CreateSubjectInput{
		Name:     "Ravi",
		Role:     "driver",
		CenterID: "ctr_a",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ravi", resp.Name)
	assert.Equal(t, "driver", resp.Role)
	assert.Len(t, repo.subjects, 3)
}

func TestCreate_UnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), managerActor(nil, 1), dto.CreateSubjectInput{
		Name:     "Ravi",
		Role:     "teacher",
		CenterID: "ctr_a",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}
