package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckinHandler_ToggleAndReason(t *testing.T) {
	clock := testutil.FixedClock{At: time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)}
	ts := testutil.NewTestServerWithClock(t, clock)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	def := testutil.NewRecurringBuilder().WithOwner(user).WithDescription("Floss").Build(t, ts.DB.DB)

	toggle := func(status string) *http.Response {
		body := map[string]string{"definitionId": def.ID.String(), "status": status}
		return testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/checkins/toggle"), body, token))
	}

	resp := toggle("not_completed")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var item domain.DisplayItem
	testutil.AssertJSONResponse(t, resp, &item)
	testutil.AssertStatus(t, item, domain.EntryStatusNotCompleted)
	assert.Equal(t, "Floss", item.Description)
	assert.Equal(t, testutil.Day(t, "2024-01-01"), item.Date.UTC())

	reasonURL := ts.APIURL("/entries/" + item.EntryID.String() + "/reason")
	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "PUT", reasonURL, map[string]string{"reason": "ran out"}, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &item)
	require.NotNil(t, item.Reason)
	assert.Equal(t, "ran out", *item.Reason)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "PUT", reasonURL, map[string]string{"reason": strings.Repeat("x", 101)}, token))
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	// Switching to completed drops the reason
	resp = toggle("completed")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	item = domain.DisplayItem{}
	testutil.AssertJSONResponse(t, resp, &item)
	testutil.AssertStatus(t, item, domain.EntryStatusCompleted)
	assert.Nil(t, item.Reason)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "PUT", reasonURL, map[string]string{"reason": "late"}, token))
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	// Same status again clears the check-in
	resp = toggle("completed")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	item = domain.DisplayItem{}
	testutil.AssertJSONResponse(t, resp, &item)
	testutil.AssertUnset(t, item)
	assert.Equal(t, int64(0), testutil.CountEntries(t, ts.DB.DB, def.ID))

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "PUT", reasonURL, map[string]string{"reason": "gone"}, token))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestCheckinHandler_ToggleErrors(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	mondays := testutil.NewRecurringBuilder().WithOwner(user).WithWeekdays(1).Build(t, ts.DB.DB)
	foreign := testutil.NewRecurringBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "invalid status",
			body:           map[string]string{"definitionId": mondays.ID.String(), "date": "2024-01-01", "status": "done"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid definition id",
			body:           map[string]string{"definitionId": "nope", "date": "2024-01-01", "status": "completed"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid date",
			body:           map[string]string{"definitionId": mondays.ID.String(), "date": "2024-13-01", "status": "completed"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not active that day",
			body:           map[string]string{"definitionId": mondays.ID.String(), "date": "2024-01-02", "status": "completed"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown definition",
			body:           map[string]string{"definitionId": uuid.NewString(), "date": "2024-01-01", "status": "completed"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "someone else's definition",
			body:           map[string]string{"definitionId": foreign.ID.String(), "date": "2024-01-01", "status": "completed"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/checkins/toggle"), tt.body, token))
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
		})
	}

	assert.Equal(t, int64(0), testutil.CountEntries(t, ts.DB.DB, mondays.ID))
}
