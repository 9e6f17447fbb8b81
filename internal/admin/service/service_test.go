package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymaccess/internal/admin"
	"gymaccess/internal/apperror"
)

type memRepo struct {
	admins map[int64]*admin.Admin
}

func newMemRepo() *memRepo {
	return &memRepo{admins: make(map[int64]*admin.Admin)}
}

func (r *memRepo) Create(_ context.Context, a *admin.Admin) error {
	a.ID = int64(len(r.admins) + 1)
	a.CreatedAt = time.Now()
	cp := *a
	r.admins[a.ID] = &cp
	return nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*admin.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*admin.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	repo := newMemRepo()
	svc := NewAdminService(repo, "secret", time.Hour)
	ctx := context.Background()

	a, err := svc.Register(ctx, "Admin", "admin@gym.com", "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", repo.admins[a.ID].Password, "password is stored hashed")

	_, err = svc.Register(ctx, "Other", "admin@gym.com", "hunter22")
	assert.ErrorIs(t, err, apperror.ErrBusinessRule)

	res, err := svc.Login(ctx, "admin@gym.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, a.ID, res.Admin.ID)

	got, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@gym.com", got.Email)
}

func TestLoginFailures(t *testing.T) {
	repo := newMemRepo()
	svc := NewAdminService(repo, "secret", time.Hour)
	ctx := context.Background()
	_, err := svc.Register(ctx, "Admin", "admin@gym.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin@gym.com", "wrong-pass")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@gym.com", "hunter22")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthenticateDeletedAdmin(t *testing.T) {
	repo := newMemRepo()
	svc := NewAdminService(repo, "secret", time.Hour)
	ctx := context.Background()

	a, err := svc.Register(ctx, "Admin", "admin@gym.com", "hunter22")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "admin@gym.com", "hunter22")
	require.NoError(t, err)

	delete(repo.admins, a.ID)
	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
