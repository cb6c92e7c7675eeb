package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every authenticated endpoint must reject requests whose context carries no
// user, independent of whatever middleware sits in front.
func TestHandlersRejectAnonymousRequests(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		body    string
	}{
		{"submit prediction", NewPredictionHandler(nil).SubmitPrediction, http.MethodPost, `{"match_id":1}`},
		{"list predictions", NewPredictionHandler(nil).GetMyPredictions, http.MethodGet, ""},
		{"daily stats", NewStatsHandler(nil, nil).GetDailyStats, http.MethodGet, ""},
		{"advanced metrics", NewStatsHandler(nil, nil).GetAdvancedMetrics, http.MethodGet, ""},
		{"list favorites", NewFavoriteHandler(nil).ListFavorites, http.MethodGet, ""},
		{"list notifications", NewNotificationHandler(nil).ListNotifications, http.MethodGet, ""},
		{"post chat message", NewChatHandler(nil).PostMessage, http.MethodPost, `{"content":"hi"}`},
		{"create checkout", NewBillingHandler(nil).CreateCheckoutSession, http.MethodPost, ""},
		{"get subscription", NewBillingHandler(nil).GetSubscription, http.MethodGet, ""},
		{"current user", NewAuthHandler(nil).Me, http.MethodGet, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "authentication required")
		})
	}
}

func TestGetMatchesRejectsUnknownSortKey(t *testing.T) {
	handler := NewMatchHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/matches?sort_by=alphabetical", nil)
	rec := httptest.NewRecorder()
	handler.GetMatches(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown sort key")
}

func TestParseTimeFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?period=30days", nil)
	filter, err := parseTimeFilter(req)
	assert.NoError(t, err)
	assert.Equal(t, "30days", string(filter))

	// Absent defaults to all-time
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	filter, err = parseTimeFilter(req)
	assert.NoError(t, err)
	assert.Equal(t, "all", string(filter))

	// Present but unknown is a client error
	req = httptest.NewRequest(http.MethodGet, "/?period=forever", nil)
	_, err = parseTimeFilter(req)
	assert.Error(t, err)
}
