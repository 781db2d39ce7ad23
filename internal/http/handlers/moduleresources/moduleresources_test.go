package moduleresources

import (
	"context"
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

	"github.com/magabrotheeeer/dotpoint/internal/models"
	"github.com/magabrotheeeer/dotpoint/internal/storage"
)

type LinkServiceMock struct {
	mock.Mock
}

func (m *LinkServiceMock) Link(ctx context.Context, link models.ModuleResource) error {
	return m.Called(ctx, link).Error(0)
}

func (m *LinkServiceMock) Unlink(ctx context.Context, link models.ModuleResource) error {
	return m.Called(ctx, link).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLinkHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{name: "linked", body: `{"module_id":1,"resource_id":2}`, callsSvc: true, wantStatus: http.StatusCreated},
		{name: "unknown resource", body: `{"module_id":1,"resource_id":2}`, serviceErr: fmt.Errorf("op: %w", storage.ErrInvalidReference), callsSvc: true, wantStatus: http.StatusBadRequest},
		{name: "missing resource id", body: `{"module_id":1}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(LinkServiceMock)
			if tt.callsSvc {
				svc.On("Link", mock.Anything, models.ModuleResource{ModuleID: 1, ResourceID: 2}).Return(tt.serviceErr)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/module-resources", strings.NewReader(tt.body))
			NewLink(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestUnlinkHandler(t *testing.T) {
	tests := []struct {
		name       string
		moduleID   string
		resourceID string
		serviceErr error
		wantStatus int
	}{
		{name: "unlinked", moduleID: "1", resourceID: "2", wantStatus: http.StatusNoContent},
		{name: "no link", moduleID: "1", resourceID: "2", serviceErr: storage.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bad module id", moduleID: "x", resourceID: "2", wantStatus: http.StatusBadRequest},
		{name: "bad resource id", moduleID: "1", resourceID: "y", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(LinkServiceMock)
			svc.On("Unlink", mock.Anything, models.ModuleResource{ModuleID: 1, ResourceID: 2}).Return(tt.serviceErr)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("moduleId", tt.moduleID)
			rctx.URLParams.Add("resourceId", tt.resourceID)
			req := httptest.NewRequest(http.MethodDelete, "/module-resources/"+tt.moduleID+"/"+tt.resourceID, nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			NewUnlink(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
