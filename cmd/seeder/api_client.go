package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Definition struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Weekdays    []int  `json:"weekdays,omitempty"`
}

type DisplayItem struct {
	DefinitionID string  `json:"definitionId"`
	Description  string  `json:"description"`
	IsTemporary  bool    `json:"isTemporary"`
	Status       *string `json:"status,omitempty"`
	EntryID      *string `json:"entryId,omitempty"`
}

type DayView struct {
	Date  time.Time     `json:"date"`
	Items []DisplayItem `json:"items"`
}

// RegisterUser creates a new user account, falling back to login when the
// name is already taken so the seeder can be rerun.
func (c *APIClient) RegisterUser(displayName, password string) (*User, string, error) {
	body := map[string]string{
		"displayName": displayName,
		"password":    password,
	}

	var result AuthResponse
	err := c.do(http.MethodPost, "/auth/register", body, "", http.StatusOK, &result)
	if err == nil {
		return &result.User, result.AccessToken, nil
	}

	if loginErr := c.do(http.MethodPost, "/auth/login", body, "", http.StatusOK, &result); loginErr != nil {
		return nil, "", fmt.Errorf("register failed: %w (login: %v)", err, loginErr)
	}
	return &result.User, result.AccessToken, nil
}

func (c *APIClient) Login(displayName, password string) (*User, string, error) {
	var result AuthResponse
	err := c.do(http.MethodPost, "/auth/login", map[string]string{
		"displayName": displayName,
		"password":    password,
	}, "", http.StatusOK, &result)
	if err != nil {
		return nil, "", err
	}
	return &result.User, result.AccessToken, nil
}

func (c *APIClient) CreateRecurring(token, description string, weekdays []int) (*Definition, error) {
	var def Definition
	err := c.do(http.MethodPost, "/definitions", map[string]interface{}{
		"kind":        "recurring",
		"description": description,
		"weekdays":    weekdays,
	}, token, http.StatusCreated, &def)
	return &def, err
}

func (c *APIClient) CreateTemporary(token, description string, start, end time.Time) (*Definition, error) {
	var def Definition
	err := c.do(http.MethodPost, "/definitions", map[string]interface{}{
		"kind":        "temporary",
		"description": description,
		"startDate":   start.Format("2006-01-02"),
		"endDate":     end.Format("2006-01-02"),
	}, token, http.StatusCreated, &def)
	return &def, err
}

func (c *APIClient) Schedule(token string, day time.Time) (*DayView, error) {
	var view DayView
	err := c.do(http.MethodGet, "/schedule?date="+day.Format("2006-01-02"), nil, token, http.StatusOK, &view)
	return &view, err
}

func (c *APIClient) Toggle(token, definitionID string, day time.Time, status string) (*DisplayItem, error) {
	var item DisplayItem
	err := c.do(http.MethodPost, "/checkins/toggle", map[string]string{
		"definitionId": definitionID,
		"date":         day.Format("2006-01-02"),
		"status":       status,
	}, token, http.StatusOK, &item)
	return &item, err
}

func (c *APIClient) SetReason(token, entryID, reason string) error {
	return c.do(http.MethodPut, "/entries/"+entryID+"/reason", map[string]string{
		"reason": reason,
	}, token, http.StatusOK, nil)
}

// HTTP helpers

func (c *APIClient) do(method, path string, body interface{}, token string, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, string(bytes.TrimSpace(bodyBytes)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
