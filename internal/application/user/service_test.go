package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/user/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

type fakeUserRepo struct {
	users []*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Email() == u.Email() {
			return user.ErrEmailTaken
		}
	}
	u.SetID(uint(len(f.users) + 1))
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	for _, u := range f.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	for _, u := range f.users {
		if u.SID() == sid {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*user.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	return nil
}

type fakeCenterRepo struct {
	center.Repository

	centers map[uint]*center.Center
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

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()

	now := biztime.NowUTC()
	userRepo := &fakeUserRepo{}
	centerRepo := &fakeCenterRepo{centers: map[uint]*center.Center{
		1: center.ReconstructCenter(1, "ctr_a", "Indiranagar", now, now),
		2: center.ReconstructCenter(2, "ctr_b", "Koramangala", now, now),
	}}
	subjectRepo := &fakeSubjectRepo{subjects: []*subject.Subject{
		subject.ReconstructSubject(7, "sbj_priya", "Priya", authorization.SubjectRoleManagerAsSubject, 1, true, now, now),
	}}

	return NewService(userRepo, centerRepo, subjectRepo, logger.NewLogger()), userRepo
}

func strPtr(s string) *string { return &s }

func requireErrType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, want, appErr.Type)
}

func TestCreate_ManagerWithCentersAndLink(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Create(context.Background(), dto.CreateUserInput{
		Email:           "Priya@Example.Org",
		Name:            strPtr("Priya"),
		Role:            "manager",
		CenterIDs:       []string{"ctr_a", "ctr_b"},
		LinkedSubjectID: strPtr("sbj_priya"),
	})
	require.NoError(t, err)

	assert.Equal(t, "priya@example.org", resp.Email)
	assert.Equal(t, "manager", resp.Role)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.LinkedSubjectID)
	assert.Equal(t, "sbj_priya", *resp.LinkedSubjectID)
	assert.Len(t, resp.Centers, 2)
	require.Len(t, repo.users, 1)
}

func TestCreate_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), dto.CreateUserInput{Email: "admin@example.org", Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateUserInput{Email: "ADMIN@example.org", Role: "admin"})
	requireErrType(t, err, apperrors.ErrorTypeConflict)
}

func TestCreate_UnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), dto.CreateUserInput{Email: "x@example.org", Role: "owner"})
	requireErrType(t, err, apperrors.ErrorTypeValidation)
}

func TestCreate_UnknownCenter(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), dto.CreateUserInput{
		Email:     "x@example.org",
		Role:      "manager",
		CenterIDs: []string{"ctr_missing"},
	})
	requireErrType(t, err, apperrors.ErrorTypeValidation)
}

func TestUpdate_ReplacesCenterAssignments(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), dto.CreateUserInput{
		Email:     "m@example.org",
		Role:      "manager",
		CenterIDs: []string{"ctr_a"},
	})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), created.ID, dto.UpdateUserInput{
		CenterIDs: []string{"ctr_b"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Centers, 1)
	assert.Equal(t, "ctr_b", resp.Centers[0].ID)
	assert.Equal(t, []uint{2}, repo.users[0].CenterIDs())
}

func TestUpdate_NilFieldsLeaveUserUnchanged(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), dto.CreateUserInput{
		Email:           "m@example.org",
		Name:            strPtr("Meera"),
		Role:            "manager",
		CenterIDs:       []string{"ctr_a"},
		LinkedSubjectID: strPtr("sbj_priya"),
	})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), created.ID, dto.UpdateUserInput{})
	require.NoError(t, err)

	assert.Equal(t, "Meera", *resp.Name)
	assert.Len(t, resp.Centers, 1)
	require.NotNil(t, resp.LinkedSubjectID)
	assert.Equal(t, "sbj_priya", *resp.LinkedSubjectID)
}

func TestUpdate_DeactivateAndReactivate(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), dto.CreateUserInput{Email: "m@example.org", Role: "manager"})
	require.NoError(t, err)

	off := false
	resp, err := svc.Update(context.Background(), created.ID, dto.UpdateUserInput{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	on := true
	resp, err = svc.Update(context.Background(), created.ID, dto.UpdateUserInput{IsActive: &on})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestUpdate_EmptyLinkedSubjectClearsLink(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), dto.CreateUserInput{
		Email:           "m@example.org",
		Role:            "manager",
		LinkedSubjectID: strPtr("sbj_priya"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.LinkedSubjectID)

	resp, err := svc.Update(context.Background(), created.ID, dto.UpdateUserInput{
		LinkedSubjectID: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.LinkedSubjectID)
}

func TestUpdate_PromoteManagerToAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), dto.CreateUserInput{Email: "m@example.org", Role: "manager"})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), created.ID, dto.UpdateUserInput{Role: strPtr("admin")})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "usr_missing", dto.UpdateUserInput{Name: strPtr("x")})
	requireErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "usr_missing")
	requireErrType(t, err, apperrors.ErrorTypeNotFound)
}
