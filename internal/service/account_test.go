package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/antbogura/isp-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountRepo records every call so tests can assert call counts and
// relative order.
type fakeAccountRepo struct {
	roles      map[uuid.UUID]domain.Role
	roleErr    error
	deleteErrs map[string]error

	calls []string // "role:<id>", "delete:<table>"
	has   map[uuid.UUID]domain.Role
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		roles:      map[uuid.UUID]domain.Role{},
		deleteErrs: map[string]error{},
		has:        map[uuid.UUID]domain.Role{},
	}
}

func (f *fakeAccountRepo) GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	f.calls = append(f.calls, "role:"+userID.String())
	if f.roleErr != nil {
		return "", f.roleErr
	}
	if r, ok := f.roles[userID]; ok {
		return r, nil
	}
	return domain.RoleUser, nil
}

func (f *fakeAccountRepo) DeleteByUser(ctx context.Context, table string, userID uuid.UUID) error {
	f.calls = append(f.calls, "delete:"+table)
	return f.deleteErrs[table]
}

func (f *fakeAccountRepo) HasRole(ctx context.Context, userID uuid.UUID, role domain.Role) (bool, error) {
	return f.has[userID] == role, nil
}

func (f *fakeAccountRepo) AssignRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	f.has[userID] = role
	return nil
}

func (f *fakeAccountRepo) deleteCalls() []string {
	var out []string
	for _, c := range f.calls {
		if len(c) > 7 && c[:7] == "delete:" {
			out = append(out, c[7:])
		}
	}
	return out
}

type fakeDirectory struct {
	deleteErr error
	deleted   []uuid.UUID

	byEmail map[string]uuid.UUID
	created []string
}

func (f *fakeDirectory) DeleteIdentity(ctx context.Context, userID uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeDirectory) FindIdentityByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	id, ok := f.byEmail[email]
	return id, ok, nil
}

func (f *fakeDirectory) CreateIdentity(ctx context.Context, email, password string) (uuid.UUID, error) {
	f.created = append(f.created, email)
	id := uuid.New()
	if f.byEmail == nil {
		f.byEmail = map[string]uuid.UUID{}
	}
	f.byEmail[email] = id
	return id, nil
}

func newSvc(repo *fakeAccountRepo, dir *fakeDirectory) *service.AccountService {
	return service.NewAccountService(repo, dir, nil, "admin@admin.com", "admin123")
}

func TestDeleteAccount_AdminDeletesUser(t *testing.T) {
	admin, target := uuid.New(), uuid.New()
	repo := newFakeAccountRepo()
	repo.roles[admin] = domain.RoleAdmin
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), admin, target)
	require.NoError(t, err)

	// All cleanup tables are swept, in order, before the identity delete.
	assert.Equal(t, domain.CleanupTables, repo.deleteCalls())
	assert.Equal(t, []uuid.UUID{target}, dir.deleted)
}

func TestDeleteAccount_ManagerCannotDeleteAdmin(t *testing.T) {
	manager, target := uuid.New(), uuid.New()
	repo := newFakeAccountRepo()
	repo.roles[manager] = domain.RoleManager
	repo.roles[target] = domain.RoleAdmin
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), manager, target)
	assert.ErrorIs(t, err, domain.ErrProtectedTarget)

	// Denied before any side effect.
	assert.Empty(t, repo.deleteCalls())
	assert.Empty(t, dir.deleted)
}

func TestDeleteAccount_ManagerDeletesUser(t *testing.T) {
	manager, target := uuid.New(), uuid.New()
	repo := newFakeAccountRepo()
	repo.roles[manager] = domain.RoleManager
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), manager, target)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{target}, dir.deleted)
}

func TestDeleteAccount_PlainUserDenied(t *testing.T) {
	requester, target := uuid.New(), uuid.New()
	repo := newFakeAccountRepo() // no role rows on either side
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), requester, target)
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
	assert.Empty(t, dir.deleted)
}

func TestDeleteAccount_SelfDeleteDeniedEvenForAdmin(t *testing.T) {
	admin := uuid.New()
	repo := newFakeAccountRepo()
	repo.roles[admin] = domain.RoleAdmin
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), admin, admin)
	assert.ErrorIs(t, err, domain.ErrSelfDelete)
	assert.Empty(t, repo.deleteCalls())
	assert.Empty(t, dir.deleted)
}

func TestDeleteAccount_CleanupFailureDoesNotAbort(t *testing.T) {
	admin, target := uuid.New(), uuid.New()
	repo := newFakeAccountRepo()
	repo.roles[admin] = domain.RoleAdmin
	repo.deleteErrs["device_sessions"] = errors.New("table locked")
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), admin, target)
	require.NoError(t, err)

	// Every table was still attempted and the identity was removed.
	assert.Equal(t, domain.CleanupTables, repo.deleteCalls())
	assert.Equal(t, []uuid.UUID{target}, dir.deleted)
}

func TestDeleteAccount_IdentityDeletionFailureIsFatal(t *testing.T) {
	admin, target := uuid.New(), uuid.New()
	repo := newFakeAccountRepo()
	repo.roles[admin] = domain.RoleAdmin
	dir := &fakeDirectory{deleteErr: &domain.BackendError{Message: "disk full"}}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), admin, target)
	require.Error(t, err)

	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "disk full", be.Message)

	// Cleanup already ran and is not rolled back.
	assert.Equal(t, domain.CleanupTables, repo.deleteCalls())
}

func TestDeleteAccount_RoleLookupFailureIsFatal(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.roleErr = errors.New("connection refused")
	dir := &fakeDirectory{}

	err := newSvc(repo, dir).DeleteAccount(context.Background(), uuid.New(), uuid.New())
	assert.EqualError(t, err, "connection refused")
	assert.Empty(t, dir.deleted)
}

func TestDeleteOrphan(t *testing.T) {
	t.Run("admin only", func(t *testing.T) {
		manager, target := uuid.New(), uuid.New()
		repo := newFakeAccountRepo()
		repo.roles[manager] = domain.RoleManager
		dir := &fakeDirectory{}

		err := newSvc(repo, dir).DeleteOrphan(context.Background(), manager, target)
		assert.ErrorIs(t, err, domain.ErrAdminOnly)
		assert.Empty(t, repo.deleteCalls())
		assert.Empty(t, dir.deleted)
	})

	t.Run("admin sweeps and deletes", func(t *testing.T) {
		admin, target := uuid.New(), uuid.New()
		repo := newFakeAccountRepo()
		repo.roles[admin] = domain.RoleAdmin
		dir := &fakeDirectory{}

		err := newSvc(repo, dir).DeleteOrphan(context.Background(), admin, target)
		require.NoError(t, err)
		assert.Equal(t, domain.CleanupTables, repo.deleteCalls())
		assert.Equal(t, []uuid.UUID{target}, dir.deleted)
	})
}

func TestSetupAdmin(t *testing.T) {
	t.Run("creates identity and role when absent", func(t *testing.T) {
		repo := newFakeAccountRepo()
		dir := &fakeDirectory{}

		email, err := newSvc(repo, dir).SetupAdmin(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin@admin.com", email)
		assert.Equal(t, []string{"admin@admin.com"}, dir.created)

		id := dir.byEmail["admin@admin.com"]
		assert.Equal(t, domain.RoleAdmin, repo.has[id])
	})

	t.Run("idempotent when already bootstrapped", func(t *testing.T) {
		id := uuid.New()
		repo := newFakeAccountRepo()
		repo.has[id] = domain.RoleAdmin
		dir := &fakeDirectory{byEmail: map[string]uuid.UUID{"admin@admin.com": id}}

		_, err := newSvc(repo, dir).SetupAdmin(context.Background())
		require.NoError(t, err)
		assert.Empty(t, dir.created)
	})

	t.Run("refuses without configured credentials", func(t *testing.T) {
		svc := service.NewAccountService(newFakeAccountRepo(), &fakeDirectory{}, nil, "", "")
		_, err := svc.SetupAdmin(context.Background())
		assert.Error(t, err)
	})
}

func TestIsDenial(t *testing.T) {
	assert.True(t, service.IsDenial(domain.ErrSelfDelete))
	assert.True(t, service.IsDenial(domain.ErrProtectedTarget))
	assert.True(t, service.IsDenial(domain.ErrNotPermitted))
	assert.True(t, service.IsDenial(domain.ErrAdminOnly))
	assert.False(t, service.IsDenial(errors.New("connection refused")))
	assert.False(t, service.IsDenial(&domain.BackendError{Message: "disk full"}))
}
