package modules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dotpoint/internal/models"
	"github.com/magabrotheeeer/dotpoint/internal/storage"
)

type ModuleServiceMock struct {
	mock.Mock
}

func (m *ModuleServiceMock) Modules(ctx context.Context, ident access.Identity) ([]models.ModuleDetails, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ModuleDetails), args.Error(1)
}

func (m *ModuleServiceMock) ModuleDetails(ctx context.Context, module models.Module) (models.ModuleDetails, error) {
	args := m.Called(ctx, module)
	return args.Get(0).(models.ModuleDetails), args.Error(1)
}

func (m *ModuleServiceMock) CreateModule(ctx context.Context, req models.NewModule) (models.Module, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Module), args.Error(1)
}

func (m *ModuleServiceMock) UpdateModule(ctx context.Context, id int64, patch models.ModulePatch) (models.Module, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Module), args.Error(1)
}

func (m *ModuleServiceMock) DeleteModule(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withModuleID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("moduleId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListHandler(t *testing.T) {
	user := access.NewIdentity(2, models.RoleUser, nil)
	product := models.Product{ID: 3}

	svc := new(ModuleServiceMock)
	svc.On("Modules", mock.Anything, user).Return([]models.ModuleDetails{
		{Module: models.Module{ID: 1, ProductID: 3}, Product: &product, Resources: []models.Resource{}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(), user))
	rec := httptest.NewRecorder()
	NewList(newNoopLogger(), svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"resources":[]`)
	assert.Contains(t, rec.Body.String(), `"product":{"id":3`)
}

func TestGetHandler(t *testing.T) {
	module := models.Module{ID: 11, ProductID: 3}

	tests := []struct {
		name       string
		inCtx      bool
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{name: "module without resources", inCtx: true, wantStatus: http.StatusOK, wantBody: `"resources":[]`},
		{name: "product vanished", inCtx: true, serviceErr: fmt.Errorf("op: %w", storage.ErrNotFound), wantStatus: http.StatusNotFound, wantBody: "not found"},
		{name: "middleware not applied", wantStatus: http.StatusInternalServerError, wantBody: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ModuleServiceMock)
			svc.On("ModuleDetails", mock.Anything, module).
				Return(models.ModuleDetails{Module: module, Product: &models.Product{ID: 3}, Resources: []models.Resource{}}, tt.serviceErr)

			req := httptest.NewRequest(http.MethodGet, "/modules/11", nil)
			if tt.inCtx {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.ModuleKey, module))
			}
			rec := httptest.NewRecorder()
			NewGet(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{name: "created", body: `{"title":"Intro","unique_name":"intro","product_id":3}`, callsSvc: true, wantStatus: http.StatusCreated},
		{name: "unknown product", body: `{"title":"Intro","unique_name":"intro","product_id":99}`, serviceErr: fmt.Errorf("op: %w", storage.ErrInvalidReference), callsSvc: true, wantStatus: http.StatusBadRequest},
		{name: "missing product id", body: `{"title":"Intro","unique_name":"intro"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "store failure", body: `{"title":"Intro","unique_name":"intro","product_id":3}`, serviceErr: errors.New("db down"), callsSvc: true, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ModuleServiceMock)
			if tt.callsSvc {
				svc.On("CreateModule", mock.Anything, mock.AnythingOfType("models.NewModule")).
					Return(models.Module{ID: 1, ProductID: 3}, tt.serviceErr)
			}

			rec := httptest.NewRecorder()
			NewCreate(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/modules", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestUpdateHandler(t *testing.T) {
	active := false

	svc := new(ModuleServiceMock)
	svc.On("UpdateModule", mock.Anything, int64(11), models.ModulePatch{Active: &active}).
		Return(models.Module{ID: 11, Active: false}, nil)

	rec := httptest.NewRecorder()
	req := withModuleID(httptest.NewRequest(http.MethodPut, "/modules/11", strings.NewReader(`{"active":false}`)), "11")
	NewUpdate(newNoopLogger(), svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)

	rec = httptest.NewRecorder()
	req = withModuleID(httptest.NewRequest(http.MethodPut, "/modules/11", strings.NewReader(`{"active":`)), "11")
	NewUpdate(newNoopLogger(), svc).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteHandler(t *testing.T) {
	svc := new(ModuleServiceMock)
	svc.On("DeleteModule", mock.Anything, int64(11)).Return(nil)
	svc.On("DeleteModule", mock.Anything, int64(12)).Return(storage.ErrNotFound)

	rec := httptest.NewRecorder()
	NewDelete(newNoopLogger(), svc).ServeHTTP(rec, withModuleID(httptest.NewRequest(http.MethodDelete, "/modules/11", nil), "11"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	NewDelete(newNoopLogger(), svc).ServeHTTP(rec, withModuleID(httptest.NewRequest(http.MethodDelete, "/modules/12", nil), "12"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
