package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/types"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockUserService records calls and returns canned results.
type mockUserService struct {
	listParams  types.ListUsersParams
	listResult  *types.UserPage
	getResult   *types.PublicUser
	created     *types.PublicUser
	failWith    error
	lastUpdated struct{ id, name, email string }
	deletedID   string
}

func (m *mockUserService) ListUsers(ctx context.Context, params types.ListUsersParams) (*types.UserPage, error) {
	m.listParams = params
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.listResult, nil
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (*types.PublicUser, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.getResult, nil
}

func (m *mockUserService) CreateUser(ctx context.Context, name, email, password, passwordConfirm string) (*types.PublicUser, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.created = &types.PublicUser{ID: "u-1", Name: name, Email: email}
	return m.created, nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, id, name, email string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.lastUpdated = struct{ id, name, email string }{id, name, email}
	return nil
}

func (m *mockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.deletedID = id
	return nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, passwordConfirm string) error {
	return m.failWith
}

func newTestUserHandler(mock *mockUserService) *UserHandler {
	logger := logging.NewStructuredLogger("error", "userledger", "test")
	return NewUserHandler(mock, logger)
}

func TestListUsersPassesQueryParams(t *testing.T) {
	mock := &mockUserService{listResult: &types.UserPage{
		PageNumber: 2,
		PageSize:   5,
		Count:      1,
		TotalPages: 2,
		Data:       []types.PublicUser{{ID: "u-1", Name: "Ann", Email: "ann@example.com"}},
	}}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("GET", "/users?page_number=2&page_size=5&search=name:ann&sort=email:desc", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.ListUsersParams{Page: 2, PageSize: 5, Search: "name:ann", Sort: "email:desc"}, mock.listParams)

	var page types.UserPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	assert.Len(t, page.Data, 1)
}

func TestListUsersDefaults(t *testing.T) {
	mock := &mockUserService{listResult: &types.UserPage{PageNumber: 1}}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mock.listParams.Page)
	assert.Equal(t, 0, mock.listParams.PageSize)
}

func TestListUsersRejectsNonNumericPage(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("GET", "/users?page_number=abc", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, pkgerrors.ErrCodeValidationFailed, resp.Code)
}

func TestGetUserNotFound(t *testing.T) {
	mock := &mockUserService{failWith: pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("GET", "/users/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, pkgerrors.ErrCodeUserNotFound, resp.Code)
}

func TestCreateUserSuccess(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	body, _ := json.Marshal(CreateUserRequest{
		Name:            "Ann",
		Email:           "ann@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var user types.PublicUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
}

func TestCreateUserMissingContentType(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("POST", "/users", bytes.NewReader([]byte(`{"name":"Ann"}`)))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Content-Type")
}

func TestCreateUserInvalidJSON(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("POST", "/users", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserEmptyBody(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("POST", "/users", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	mock := &mockUserService{failWith: pkgerrors.NewDuplicate(pkgerrors.ErrCodeEmailAlreadyTaken, "Email is already registered")}
	handler := newTestUserHandler(mock)

	body, _ := json.Marshal(CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1", PasswordConfirm: "secret1"})
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, pkgerrors.ErrCodeEmailAlreadyTaken, resp.Code)
}

func TestUpdateUserSuccess(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	body, _ := json.Marshal(UpdateUserRequest{Name: "Ann B", Email: "annb@example.com"})
	req := httptest.NewRequest("PUT", "/users/u-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", "u-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", mock.lastUpdated.id)
	assert.Equal(t, "Ann B", mock.lastUpdated.name)
	assert.Equal(t, "annb@example.com", mock.lastUpdated.email)
}

func TestDeleteUserSuccess(t *testing.T) {
	mock := &mockUserService{}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("DELETE", "/users/u-1", nil)
	req.SetPathValue("id", "u-1")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", mock.deletedID)
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	mock := &mockUserService{failWith: pkgerrors.NewInvalidCredentials("Wrong password")}
	handler := newTestUserHandler(mock)

	body, _ := json.Marshal(ChangePasswordRequest{Password: "bad", NewPassword: "newpass1", PasswordConfirm: "newpass1"})
	req := httptest.NewRequest("POST", "/users/u-1/change-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", "u-1")
	w := httptest.NewRecorder()

	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersStorageFailure(t *testing.T) {
	mock := &mockUserService{failWith: pkgerrors.NewUnavailable(pkgerrors.ErrCodeStorageFailed, "Service temporarily unavailable")}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnclassifiedErrorHiddenFromClient(t *testing.T) {
	mock := &mockUserService{failWith: context.DeadlineExceeded}
	handler := newTestUserHandler(mock)

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, pkgerrors.ErrCodeStorageFailed, resp.Code)
	assert.NotContains(t, resp.Error, "deadline")
}
