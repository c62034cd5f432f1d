package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleHandler_Day(t *testing.T) {
	// 2024-01-01 is a Monday
	clock := testutil.FixedClock{At: time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)}
	ts := testutil.NewTestServerWithClock(t, clock)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	run := testutil.NewRecurringBuilder().WithOwner(user).WithDescription("Run").WithWeekdays(1).Build(t, ts.DB.DB)
	testutil.NewEntryBuilder(user.ID, run.ID).On(testutil.Day(t, "2024-01-01")).Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedDate   string
		expected       []string
	}{
		{name: "defaults to today", query: "", expectedStatus: http.StatusOK, expectedDate: "2024-01-01", expected: []string{"Run"}},
		{name: "explicit date", query: "?date=2024-01-02", expectedStatus: http.StatusOK, expectedDate: "2024-01-02", expected: []string{}},
		{name: "timestamp date", query: "?date=2024-01-08T10:00:00Z", expectedStatus: http.StatusOK, expectedDate: "2024-01-08", expected: []string{"Run"}},
		{name: "malformed date", query: "?date=yesterday", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/schedule"+tt.query), nil, token))
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var view domain.DayView
			testutil.AssertJSONResponse(t, resp, &view)
			assert.Equal(t, testutil.Day(t, tt.expectedDate), view.Date.UTC())
			testutil.AssertDescriptions(t, view.Items, tt.expected...)
		})
	}

	resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/schedule"), nil, token))
	var view domain.DayView
	testutil.AssertJSONResponse(t, resp, &view)
	require.Len(t, view.Items, 1)
	testutil.AssertStatus(t, view.Items[0], domain.EntryStatusCompleted)
}

func TestScheduleHandler_OtherUser(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	friend, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	testutil.NewRecurringBuilder().WithOwner(friend).WithDescription("Piano").Build(t, ts.DB.DB)

	base := "/users/" + friend.ID.String() + "/schedule"

	resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL(base+"?date=2024-01-01"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var view domain.DayView
	testutil.AssertJSONResponse(t, resp, &view)
	testutil.AssertDescriptions(t, view.Items, "Piano")

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL(base+"/history?from=2024-01-01&to=2024-01-07"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var views []domain.DayView
	testutil.AssertJSONResponse(t, resp, &views)
	assert.Len(t, views, 7)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/users/00000000-0000-0000-0000-000000000001/schedule"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestScheduleHandler_History(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewTemporaryBuilder().WithOwner(user).WithDescription("Trip").
		Between(testutil.Day(t, "2024-01-02"), testutil.Day(t, "2024-01-03")).
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{name: "valid range", query: "?from=2024-01-01&to=2024-01-04", expectedStatus: http.StatusOK},
		{name: "missing to", query: "?from=2024-01-01", expectedStatus: http.StatusBadRequest},
		{name: "reversed", query: "?from=2024-01-04&to=2024-01-01", expectedStatus: http.StatusBadRequest},
		{name: "too long", query: "?from=2024-01-01&to=2024-12-31", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/schedule/history"+tt.query), nil, token))
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var views []domain.DayView
			testutil.AssertJSONResponse(t, resp, &views)
			require.Len(t, views, 4)
			testutil.AssertDescriptions(t, views[0].Items)
			testutil.AssertDescriptions(t, views[1].Items, "Trip")
			testutil.AssertDescriptions(t, views[2].Items, "Trip")
			testutil.AssertDescriptions(t, views[3].Items)
		})
	}
}
