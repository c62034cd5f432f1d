package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertUnset verifies an item carries no check-in
func AssertUnset(t *testing.T, item domain.DisplayItem) {
	t.Helper()
	assert.Nil(t, item.Status, "expected no status")
	assert.Nil(t, item.EntryID, "expected no entry")
	assert.Nil(t, item.Reason, "expected no reason")
}

// AssertStatus verifies an item's check-in status
func AssertStatus(t *testing.T, item domain.DisplayItem, expected domain.EntryStatus) {
	t.Helper()
	require.NotNil(t, item.Status, "expected status %s", expected)
	assert.Equal(t, expected, *item.Status)
	assert.NotNil(t, item.EntryID, "expected an entry id")
}

// AssertDescriptions verifies items appear with the given descriptions, in order
func AssertDescriptions(t *testing.T, items []domain.DisplayItem, expected ...string) {
	t.Helper()
	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.Description
	}
	if len(expected) == 0 {
		expected = []string{}
	}
	assert.Equal(t, expected, got)
}
