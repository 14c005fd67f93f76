package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/festivapp/festival-api/internal/domain"
)

type mockFestivalResolver struct {
	festivals map[string]domain.Festival
}

func (m *mockFestivalResolver) GetFestivalByAPIKey(ctx context.Context, apiKey string) (domain.Festival, error) {
	festival, ok := m.festivals[apiKey]
	if !ok {
		return domain.Festival{}, errors.New("festival not found")
	}

	return festival, nil
}

func TestVerifyAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := &mockFestivalResolver{festivals: map[string]domain.Festival{
		"key-published": {ID: 1, Status: domain.FestivalPublished, APIKey: "key-published"},
		"key-draft":     {ID: 2, Status: domain.FestivalDraft, APIKey: "key-draft"},
	}}

	var served domain.Festival
	router := gin.New()
	router.Use(NewAPIKeyAuthenticator(resolver).VerifyAPIKey())
	router.GET("/public/festival", func(ctx *gin.Context) {
		served = ctx.MustGet(ContextKeyFestival).(domain.Festival)
		ctx.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		apiKey     string
		wantStatus int
	}{
		{name: "published festival", apiKey: "key-published", wantStatus: http.StatusOK},
		{name: "missing key", wantStatus: http.StatusUnauthorized},
		{name: "unknown key", apiKey: "key-unknown", wantStatus: http.StatusUnauthorized},
		{name: "unpublished festival", apiKey: "key-draft", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/public/festival", nil)
			if tt.apiKey != "" {
				req.Header.Set(HeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, uint(1), served.ID)
	assert.Empty(t, served.APIKey, "the key never travels further down the chain")
}
