package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dotpoint/internal/models"
	services "github.com/magabrotheeeer/dotpoint/internal/services/user"
)

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) List(ctx context.Context) ([]models.UserWithProducts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserWithProducts), args.Error(1)
}

func (m *UserServiceMock) EditProfile(ctx context.Context, userID int64, req models.ProfileUpdate) (models.User, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserServiceMock) ChangePassword(ctx context.Context, userID int64, req models.PasswordChange) error {
	return m.Called(ctx, userID, req).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func authedRequest(t *testing.T, method, path string, body any, userID int64) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	ident := access.NewIdentity(userID, models.RoleUser, nil)
	return req.WithContext(middlewarectx.WithIdentity(req.Context(), ident))
}

func TestListHandler(t *testing.T) {
	svc := new(UserServiceMock)
	svc.On("List", mock.Anything).Return([]models.UserWithProducts{
		{User: models.User{ID: 1, Email: "a@example.com"}, Products: []models.Product{{ID: 3}}},
		{User: models.User{ID: 2, Email: "b@example.com"}, Products: []models.Product{}},
	}, nil)

	rec := httptest.NewRecorder()
	NewList(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data []struct {
			ID       int64            `json:"id"`
			Products []map[string]any `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Data, 2)
	assert.Len(t, got.Data[0].Products, 1)
	assert.NotNil(t, got.Data[1].Products)
}

func TestListHandler_Error(t *testing.T) {
	svc := new(UserServiceMock)
	svc.On("List", mock.Anything).Return(nil, errors.New("db down"))

	rec := httptest.NewRecorder()
	NewList(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProfileHandler(t *testing.T) {
	req := models.ProfileUpdate{FirstName: "Ann", LastName: "Lee"}

	svc := new(UserServiceMock)
	svc.On("EditProfile", mock.Anything, int64(7), req).
		Return(models.User{ID: 7, FirstName: "Ann", LastName: "Lee"}, nil)

	rec := httptest.NewRecorder()
	NewProfile(newNoopLogger(), svc).ServeHTTP(rec, authedRequest(t, http.MethodPut, "/user/profile", req, 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Ann"`)

	rec = httptest.NewRecorder()
	NewProfile(newNoopLogger(), svc).ServeHTTP(rec, authedRequest(t, http.MethodPut, "/user/profile", models.ProfileUpdate{}, 7))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	NewProfile(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordHandler(t *testing.T) {
	change := models.PasswordChange{CurrentPassword: "old-secret", NewPassword: "new-secret"}

	tests := []struct {
		name       string
		body       models.PasswordChange
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{name: "success", body: change, callsSvc: true, wantStatus: http.StatusOK},
		{name: "wrong current password", body: change, serviceErr: services.ErrInvalidPassword, callsSvc: true, wantStatus: http.StatusUnauthorized},
		{name: "short new password", body: models.PasswordChange{CurrentPassword: "old", NewPassword: "123"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "store failure", body: change, serviceErr: errors.New("db down"), callsSvc: true, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(UserServiceMock)
			if tt.callsSvc {
				svc.On("ChangePassword", mock.Anything, int64(7), tt.body).Return(tt.serviceErr)
			}

			rec := httptest.NewRecorder()
			NewPassword(newNoopLogger(), svc).ServeHTTP(rec, authedRequest(t, http.MethodPut, "/user/password", tt.body, 7))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
