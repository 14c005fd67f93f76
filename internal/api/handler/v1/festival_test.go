package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivapp/festival-api/internal/api/middleware"
	"github.com/festivapp/festival-api/internal/domain"
)

type mockFestivalService struct {
	CreateFestivalFn   func(ctx context.Context, festival domain.Festival, organizerID uint) (domain.Festival, error)
	GetFestivalFn      func(ctx context.Context, id uint) (domain.Festival, error)
	ListFestivalsFn    func(ctx context.Context, viewer domain.User, limit, offset int) ([]domain.Festival, int64, error)
	UpdateFestivalFn   func(ctx context.Context, id uint, upd domain.FestivalUpdate) (domain.Festival, error)
	DeleteFestivalFn   func(ctx context.Context, id uint) error
	RegenerateAPIKeyFn func(ctx context.Context, id uint) (domain.Festival, error)
	IsOrganizerFn      func(ctx context.Context, festivalID, userID uint) (bool, error)
}

func (m *mockFestivalService) CreateFestival(ctx context.Context, festival domain.Festival, organizerID uint) (domain.Festival, error) {
	return m.CreateFestivalFn(ctx, festival, organizerID)
}

func (m *mockFestivalService) GetFestival(ctx context.Context, id uint) (domain.Festival, error) {
	return m.GetFestivalFn(ctx, id)
}

func (m *mockFestivalService) ListFestivals(ctx context.Context, viewer domain.User, limit, offset int) ([]domain.Festival, int64, error) {
	return m.ListFestivalsFn(ctx, viewer, limit, offset)
}

func (m *mockFestivalService) UpdateFestival(ctx context.Context, id uint, upd domain.FestivalUpdate) (domain.Festival, error) {
	return m.UpdateFestivalFn(ctx, id, upd)
}

func (m *mockFestivalService) DeleteFestival(ctx context.Context, id uint) error {
	return m.DeleteFestivalFn(ctx, id)
}

func (m *mockFestivalService) RegenerateAPIKey(ctx context.Context, id uint) (domain.Festival, error) {
	return m.RegenerateAPIKeyFn(ctx, id)
}

func (m *mockFestivalService) IsOrganizer(ctx context.Context, festivalID, userID uint) (bool, error) {
	return m.IsOrganizerFn(ctx, festivalID, userID)
}

type mockUserService struct {
	users map[uint]domain.User
}

func (m *mockUserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	return m.users[id], nil
}

// festivalRouter mounts the get/list routes behind a stub that injects
// the authenticated user ID, the way the JWT middleware does.
func festivalRouter(h *FestivalHandler, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, userID)
	})
	router.GET("/festivals", h.HandleListFestivals)
	router.GET("/festivals/:festivalID", h.HandleGetFestival)

	return router
}

func TestFestivalHandler_HandleGetFestival_Visibility(t *testing.T) {
	draft := domain.Festival{
		ID:          1,
		Name:        "Sunwave",
		Status:      domain.FestivalDraft,
		APIKey:      "secret-key",
		OrganizerID: 7,
	}
	users := &mockUserService{users: map[uint]domain.User{
		7:  {ID: 7, Role: domain.RoleOrganizer},
		8:  {ID: 8, Role: domain.RoleVisitor},
		99: {ID: 99, Role: domain.RoleAdmin},
	}}

	tests := []struct {
		name       string
		status     domain.FestivalStatus
		userID     uint
		wantCode   int
		wantAPIKey bool
	}{
		{name: "draft hidden from outsiders", status: domain.FestivalDraft, userID: 8, wantCode: http.StatusNotFound},
		{name: "archived hidden from outsiders", status: domain.FestivalArchived, userID: 8, wantCode: http.StatusNotFound},
		{name: "draft visible to its organizer", status: domain.FestivalDraft, userID: 7, wantCode: http.StatusOK, wantAPIKey: true},
		{name: "draft visible to admins", status: domain.FestivalDraft, userID: 99, wantCode: http.StatusOK, wantAPIKey: true},
		{name: "published visible to anyone, key stripped", status: domain.FestivalPublished, userID: 8, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			festival := draft
			festival.Status = tt.status
			svc := &mockFestivalService{
				GetFestivalFn: func(ctx context.Context, id uint) (domain.Festival, error) {
					return festival, nil
				},
			}
			router := festivalRouter(NewFestivalHandler(svc, users), tt.userID)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/festivals/1", nil)
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}

			var got domain.Festival
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			if tt.wantAPIKey {
				assert.Equal(t, "secret-key", got.APIKey)
			} else {
				assert.Empty(t, got.APIKey)
			}
		})
	}
}

func TestFestivalHandler_HandleListFestivals_PassesViewer(t *testing.T) {
	users := &mockUserService{users: map[uint]domain.User{
		8: {ID: 8, Role: domain.RoleVisitor},
	}}
	svc := &mockFestivalService{
		ListFestivalsFn: func(ctx context.Context, viewer domain.User, limit, offset int) ([]domain.Festival, int64, error) {
			assert.Equal(t, uint(8), viewer.ID)
			return []domain.Festival{{ID: 1, Status: domain.FestivalPublished, APIKey: "secret-key"}}, 1, nil
		},
	}
	router := festivalRouter(NewFestivalHandler(svc, users), 8)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/festivals", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-key", "listings never leak API keys")
}
