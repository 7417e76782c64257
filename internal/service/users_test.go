package service

import (
	"context"
	"testing"

	"github.com/dfirmansy/userledger/internal/auth"
	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	"github.com/dfirmansy/userledger/internal/types"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockUserStore is an in-memory UserStore for tests.
type mockUserStore struct {
	users    map[string]*models.User
	nextID   int
	failWith error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (m *mockUserStore) add(name, email, passwordHash string) *models.User {
	id := string(rune('0' + m.nextID))
	m.nextID++
	u := &models.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}
	m.users[id] = u
	return u
}

func (m *mockUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
}

func (m *mockUserStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.add(name, email, passwordHash), nil
}

func (m *mockUserStore) UpdateUser(ctx context.Context, id, name, email string) error {
	u, ok := m.users[id]
	if !ok {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
	}
	u.Name, u.Email = name, email
	return nil
}

func (m *mockUserStore) DeleteUser(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserStore) SetPassword(ctx context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
	}
	u.PasswordHash = passwordHash
	return nil
}

func newUserService(store *mockUserStore) *UserService {
	logger := logging.NewStructuredLogger("error", "userledger", "test")
	return NewUserService(store, logger, bcrypt.MinCost)
}

func TestCreateUserSuccess(t *testing.T) {
	store := newMockUserStore()
	svc := newUserService(store)

	user, err := svc.CreateUser(context.Background(), "Ann", "ann@x.com", "hunter2", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email)

	// Stored credential must be a hash, not the plaintext.
	stored := store.users[user.ID]
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword("hunter2", stored.PasswordHash))
}

func TestCreateUserPasswordConfirmMismatch(t *testing.T) {
	svc := newUserService(newMockUserStore())

	_, err := svc.CreateUser(context.Background(), "Ann", "ann@x.com", "hunter2", "hunter3")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindValidation))

	e, _ := pkgerrors.Get(err)
	assert.Equal(t, pkgerrors.ErrCodePasswordMismatch, e.Code)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newMockUserStore()
	store.add("Ann", "ann@x.com", "hash")
	svc := newUserService(store)

	_, err := svc.CreateUser(context.Background(), "Other Ann", "ann@x.com", "hunter2", "hunter2")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindDuplicate))
}

func TestCreateUserInvalidInput(t *testing.T) {
	svc := newUserService(newMockUserStore())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "ann@x.com", "hunter2", "hunter2")
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindValidation))

	_, err = svc.CreateUser(ctx, "Ann", "not-an-email", "hunter2", "hunter2")
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindValidation))

	_, err = svc.CreateUser(ctx, "Ann", "ann@x.com", "no", "no")
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindValidation))
}

func TestGetUserNotFound(t *testing.T) {
	svc := newUserService(newMockUserStore())

	_, err := svc.GetUser(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindNotFound))
}

func TestUpdateUserKeepingOwnEmail(t *testing.T) {
	store := newMockUserStore()
	u := store.add("Ann", "ann@x.com", "hash")
	svc := newUserService(store)

	err := svc.UpdateUser(context.Background(), u.ID, "Ann Renamed", "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann Renamed", store.users[u.ID].Name)
}

func TestUpdateUserEmailTakenByOther(t *testing.T) {
	store := newMockUserStore()
	u := store.add("Ann", "ann@x.com", "hash")
	store.add("Bob", "bob@x.com", "hash")
	svc := newUserService(store)

	err := svc.UpdateUser(context.Background(), u.ID, "Ann", "bob@x.com")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindDuplicate))
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := newUserService(newMockUserStore())

	err := svc.UpdateUser(context.Background(), "missing", "Ann", "ann@x.com")
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindNotFound))
}

func TestDeleteUser(t *testing.T) {
	store := newMockUserStore()
	u := store.add("Ann", "ann@x.com", "hash")
	svc := newUserService(store)
	ctx := context.Background()

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	assert.Empty(t, store.users)

	err := svc.DeleteUser(ctx, u.ID)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindNotFound))
}

func TestChangePassword(t *testing.T) {
	store := newMockUserStore()
	hash, err := auth.HashPassword("oldpass", bcrypt.MinCost)
	require.NoError(t, err)
	u := store.add("Ann", "ann@x.com", hash)
	svc := newUserService(store)
	ctx := context.Background()

	// Wrong old password.
	err = svc.ChangePassword(ctx, u.ID, "nope-wrong", "newpass1", "newpass1")
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindInvalidCredentials))

	// Confirmation mismatch.
	err = svc.ChangePassword(ctx, u.ID, "oldpass", "newpass1", "newpass2")
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindValidation))

	// Success.
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "oldpass", "newpass1", "newpass1"))
	assert.True(t, auth.VerifyPassword("newpass1", store.users[u.ID].PasswordHash))
}

func TestListUsersDelegatesToPipeline(t *testing.T) {
	store := newMockUserStore()
	store.add("Ann", "ann@x.com", "hash")
	store.add("Bob", "bob@x.com", "hash")
	svc := newUserService(store)

	page, err := svc.ListUsers(context.Background(), types.ListUsersParams{Page: 1, PageSize: 10, Search: "name:bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "Bob", page.Data[0].Name)
}

func TestListUsersStorageFailurePropagates(t *testing.T) {
	store := newMockUserStore()
	store.failWith = pkgerrors.NewUnavailable(pkgerrors.ErrCodeStorageFailed, "storage down")
	svc := newUserService(store)

	_, err := svc.ListUsers(context.Background(), types.ListUsersParams{Page: 1})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindUnavailable))
}
