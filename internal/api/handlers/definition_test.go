package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "recurring",
			request: map[string]interface{}{
				"kind":        "recurring",
				"description": "Meditate",
				"weekdays":    []int{6, 0},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var def domain.Definition
				testutil.AssertJSONResponse(t, resp, &def)
				assert.Equal(t, domain.DefinitionKindRecurring, def.Kind)
				assert.Equal(t, "Meditate", def.Description)
				assert.Equal(t, []int{0, 6}, def.Weekdays)
			},
		},
		{
			name: "temporary",
			request: map[string]interface{}{
				"kind":        "temporary",
				"description": "Conference",
				"startDate":   "2024-05-01",
				"endDate":     "2024-05-03",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var def domain.Definition
				testutil.AssertJSONResponse(t, resp, &def)
				assert.True(t, def.IsTemporary())
				require.NotNil(t, def.StartDate)
				assert.Equal(t, testutil.Day(t, "2024-05-01"), def.StartDate.UTC())
			},
		},
		{
			name:           "missing description",
			request:        map[string]interface{}{"kind": "recurring"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad weekday",
			request: map[string]interface{}{
				"kind":        "recurring",
				"description": "Run",
				"weekdays":    []int{9},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed date",
			request: map[string]interface{}{
				"kind":        "temporary",
				"description": "Trip",
				"startDate":   "05/01/2024",
				"endDate":     "2024-05-03",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "reversed range",
			request: map[string]interface{}{
				"kind":        "temporary",
				"description": "Trip",
				"startDate":   "2024-05-03",
				"endDate":     "2024-05-01",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown kind",
			request:        map[string]interface{}{"kind": "monthly", "description": "Rent"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/definitions"), tt.request, token)
			resp := testutil.Do(t, req)

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestDefinitionHandler_UpdateGetDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, otherToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	def := testutil.NewRecurringBuilder().WithOwner(user).WithDescription("Walk").Build(t, ts.DB.DB)
	testutil.NewEntryBuilder(user.ID, def.ID).On(testutil.Day(t, "2024-01-01")).Build(t, ts.DB.DB)
	url := ts.APIURL("/definitions/" + def.ID.String())

	resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "PATCH", url, map[string]interface{}{
		"description": "Walk the dog",
		"weekdays":    []int{1},
	}, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var updated domain.Definition
	testutil.AssertJSONResponse(t, resp, &updated)
	assert.Equal(t, "Walk the dog", updated.Description)
	assert.Equal(t, []int{1}, updated.Weekdays)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "PATCH", url, map[string]interface{}{
		"startDate": "2024-01-01",
	}, token))
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", url, nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Another user cannot see, change or delete it
	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", url, nil, otherToken))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "DELETE", url, nil, otherToken))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "DELETE", url, nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)
	assert.Equal(t, int64(0), testutil.CountEntries(t, ts.DB.DB, def.ID))

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "DELETE", url, nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/definitions/not-a-uuid"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}

func TestDefinitionHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	friend, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	testutil.NewRecurringBuilder().WithOwner(user).WithDescription("Mine").Build(t, ts.DB.DB)
	testutil.NewTemporaryBuilder().WithOwner(friend).WithDescription("Theirs").Build(t, ts.DB.DB)

	resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/definitions"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var mine []domain.Definition
	testutil.AssertJSONResponse(t, resp, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Description)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/users/"+friend.ID.String()+"/definitions"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var theirs []domain.Definition
	testutil.AssertJSONResponse(t, resp, &theirs)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Theirs", theirs[0].Description)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/users/"+user.ID.String()+"0/definitions"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/users/00000000-0000-0000-0000-000000000001/definitions"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
