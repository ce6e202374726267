package center

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

type fakeCenterRepo struct {
	centers map[uint]*center.Center
	taken   map[string]bool
}

func newFakeCenterRepo(centers ...*center.Center) *fakeCenterRepo {
	repo := &fakeCenterRepo{
		centers: make(map[uint]*center.Center),
		taken:   make(map[string]bool),
	}
	for _, c := range centers {
		repo.centers[c.ID()] = c
		repo.taken[c.Name()] = true
	}
	return repo
}

func (f *fakeCenterRepo) Create(ctx context.Context, c *center.Center) error {
	if f.taken[c.Name()] {
		return center.ErrCenterNameTaken
	}
	c.SetID(uint(len(f.centers) + 1))
	f.centers[c.ID()] = c
	f.taken[c.Name()] = true
	return nil
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

func (f *fakeCenterRepo) GetByIDs(ctx context.Context, ids []uint) ([]*center.Center, error) {
	var out []*center.Center
	for _, id := range ids {
		if c, ok := f.centers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCenterRepo) List(ctx context.Context) ([]*center.Center, error) {
	var out []*center.Center
	for _, c := range f.centers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCenterRepo) Update(ctx context.Context, c *center.Center) error {
	f.centers[c.ID()] = c
	return nil
}

func testCenter(id uint, sid, name string) *center.Center {
	now := time.Now().UTC()
	return center.ReconstructCenter(id, sid, name, now, now)
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := newFakeCenterRepo(testCenter(1, "ctr_a", "Indiranagar"))
	svc := NewService(repo, logger.NewLogger())

	_, err := svc.Create(context.Background(), "Indiranagar")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestCreate_Success(t *testing.T) {
	repo := newFakeCenterRepo()
	svc := NewService(repo, logger.NewLogger())

	resp, err := svc.Create(context.Background(), "Koramangala")
	require.NoError(t, err)

	assert.Equal(t, "Koramangala", resp.Name)
	assert.NotEmpty(t, resp.ID)
}

func TestList_ManagerSeesOnlyAssignedCenters(t *testing.T) {
	repo := newFakeCenterRepo(
		testCenter(1, "ctr_a", "Indiranagar"),
		testCenter(2, "ctr_b", "Koramangala"),
		testCenter(3, "ctr_c", "HSR"),
	)
	svc := NewService(repo, logger.NewLogger())

	manager := access.Actor{UserID: 5, Role: authorization.RoleManager, CenterIDs: []uint{1, 3}}

	result, err := svc.List(context.Background(), manager)
	require.NoError(t, err)
	require.Len(t, result, 2)

	var names []string
	for _, c := range result {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Indiranagar", "HSR"}, names)
}

func TestList_AdminSeesAll(t *testing.T) {
	repo := newFakeCenterRepo(
		testCenter(1, "ctr_a", "Indiranagar"),
		testCenter(2, "ctr_b", "Koramangala"),
	)
	svc := NewService(repo, logger.NewLogger())

	admin := access.Actor{UserID: 1, Role: authorization.RoleAdmin}

	result, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestList_ManagerWithNoCentersSeesNone(t *testing.T) {
	repo := newFakeCenterRepo(testCenter(1, "ctr_a", "Indiranagar"))
	svc := NewService(repo, logger.NewLogger())

	manager := access.Actor{UserID: 5, Role: authorization.RoleManager}

	result, err := svc.List(context.Background(), manager)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRename_NotFound(t *testing.T) {
	svc := NewService(newFakeCenterRepo(), logger.NewLogger())

	_, err := svc.Rename(context.Background(), "ctr_missing", "New Name")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestRename_Success(t *testing.T) {
	repo := newFakeCenterRepo(testCenter(1, "ctr_a", "Indiranagar"))
	svc := NewService(repo, logger.NewLogger())

	resp, err := svc.Rename(context.Background(), "ctr_a", "Indiranagar East")
	require.NoError(t, err)
	assert.Equal(t, "Indiranagar East", resp.Name)
}
