package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymaccess/internal/checkin/repository"
	"gymaccess/internal/subscription"
	"gymaccess/internal/subscription/service"
)

func newRouter() http.Handler {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	ledger := repository.NewMemoryLedger()
	ledger.AddSubscription(&subscription.Subscription{ID: 1, ClientID: 1, ExpiresAt: now.AddDate(0, 0, -1),
		Plan: &subscription.Plan{Name: "Mensal", Frequency: "ilimitado"}})
	ledger.AddSubscription(&subscription.Subscription{ID: 2, ClientID: 2, ExpiresAt: now.AddDate(0, 0, 4),
		Plan: &subscription.Plan{Name: "Mensal", Frequency: "2x por semana"}})
	ledger.AddSubscription(&subscription.Subscription{ID: 3, ClientID: 3, ExpiresAt: now.AddDate(0, 3, 0),
		Plan: &subscription.Plan{Name: "Trimestral", Frequency: "3x por semana"}})

	svc := service.NewService(ledger.Subscriptions()).WithClock(func() time.Time { return now })
	r := chi.NewRouter()
	NewSubscriptionHandler(svc).Routes(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListByStatus(t *testing.T) {
	h := newRouter()

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{3}},
		{"?status=active", []int64{3}},
		{"?status=expiring_soon", []int64{2}},
		{"?status=expired", []int64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, h, "/api/subscriptions"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var subs []subscription.Subscription
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
			got := make([]int64, 0, len(subs))
			for _, s := range subs {
				got = append(got, s.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	rec := get(t, h, "/api/subscriptions?status=paused")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetAndExpiring(t *testing.T) {
	h := newRouter()

	rec := get(t, h, "/api/subscriptions/2")
	require.Equal(t, http.StatusOK, rec.Code)
	var sub subscription.Subscription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, subscription.StatusExpiringSoon, sub.Status)
	require.NotNil(t, sub.Plan)
	assert.Equal(t, "2x por semana", sub.Plan.Frequency)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/subscriptions/9").Code)

	rec = get(t, h, "/api/subscriptions/expiring?days=10")
	require.Equal(t, http.StatusOK, rec.Code)
	var subs []subscription.Subscription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, int64(2), subs[0].ID)

	assert.Equal(t, http.StatusUnprocessableEntity, get(t, h, "/api/subscriptions/expiring?days=-1").Code)
}
