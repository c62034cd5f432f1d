package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Day parses a "2006-01-02" literal and fails the test on error.
func Day(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := domain.ParseDay(value)
	if err != nil {
		t.Fatalf("bad test day %q: %v", value, err)
	}
	return day
}

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	// MinCost keeps fixture setup fast
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// RecurringBuilder creates recurring definitions
type RecurringBuilder struct {
	owner       *domain.User
	description string
	weekdays    []int
	createdAt   time.Time
}

func NewRecurringBuilder() *RecurringBuilder {
	return &RecurringBuilder{
		description: fmt.Sprintf("habit %s", uuid.New().String()[:6]),
		createdAt:   time.Now(),
	}
}

func (b *RecurringBuilder) WithOwner(user *domain.User) *RecurringBuilder {
	b.owner = user
	return b
}

func (b *RecurringBuilder) WithDescription(description string) *RecurringBuilder {
	b.description = description
	return b
}

// WithWeekdays restricts the definition to the given weekdays (0=Sunday).
func (b *RecurringBuilder) WithWeekdays(weekdays ...int) *RecurringBuilder {
	b.weekdays = weekdays
	return b
}

// CreatedAt pins the creation time, which decides display order.
func (b *RecurringBuilder) CreatedAt(at time.Time) *RecurringBuilder {
	b.createdAt = at
	return b
}

func (b *RecurringBuilder) Build(t *testing.T, db *gorm.DB) *domain.RecurringDefinition {
	t.Helper()

	if b.owner == nil {
		b.owner, _ = NewUserBuilder().Build(t, db)
	}

	def := &domain.RecurringDefinition{
		ID:          uuid.New(),
		UserID:      b.owner.ID,
		Description: b.description,
		Weekdays:    datatypes.JSONSlice[int](b.weekdays),
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Create(def).Error; err != nil {
		t.Fatalf("failed to create recurring definition: %v", err)
	}

	return def
}

// TemporaryBuilder creates temporary definitions
type TemporaryBuilder struct {
	owner       *domain.User
	description string
	start       time.Time
	end         time.Time
	createdAt   time.Time
}

func NewTemporaryBuilder() *TemporaryBuilder {
	today := domain.TruncateDay(time.Now())
	return &TemporaryBuilder{
		description: fmt.Sprintf("task %s", uuid.New().String()[:6]),
		start:       today,
		end:         today,
		createdAt:   time.Now(),
	}
}

func (b *TemporaryBuilder) WithOwner(user *domain.User) *TemporaryBuilder {
	b.owner = user
	return b
}

func (b *TemporaryBuilder) WithDescription(description string) *TemporaryBuilder {
	b.description = description
	return b
}

// Between sets the inclusive active range.
func (b *TemporaryBuilder) Between(start, end time.Time) *TemporaryBuilder {
	b.start = domain.TruncateDay(start)
	b.end = domain.TruncateDay(end)
	return b
}

func (b *TemporaryBuilder) CreatedAt(at time.Time) *TemporaryBuilder {
	b.createdAt = at
	return b
}

func (b *TemporaryBuilder) Build(t *testing.T, db *gorm.DB) *domain.TemporaryDefinition {
	t.Helper()

	if b.owner == nil {
		b.owner, _ = NewUserBuilder().Build(t, db)
	}

	def := &domain.TemporaryDefinition{
		ID:          uuid.New(),
		UserID:      b.owner.ID,
		Description: b.description,
		StartDate:   b.start,
		EndDate:     b.end,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Create(def).Error; err != nil {
		t.Fatalf("failed to create temporary definition: %v", err)
	}

	return def
}

// EntryBuilder records check-ins directly in storage
type EntryBuilder struct {
	userID       uuid.UUID
	definitionID uuid.UUID
	date         time.Time
	status       domain.EntryStatus
	reason       *string
}

// NewEntryBuilder starts an entry for userID against definitionID.
func NewEntryBuilder(userID, definitionID uuid.UUID) *EntryBuilder {
	return &EntryBuilder{
		userID:       userID,
		definitionID: definitionID,
		date:         domain.TruncateDay(time.Now()),
		status:       domain.EntryStatusCompleted,
	}
}

func (b *EntryBuilder) On(day time.Time) *EntryBuilder {
	b.date = domain.TruncateDay(day)
	return b
}

func (b *EntryBuilder) WithStatus(status domain.EntryStatus) *EntryBuilder {
	b.status = status
	return b
}

func (b *EntryBuilder) WithReason(reason string) *EntryBuilder {
	b.reason = &reason
	return b
}

func (b *EntryBuilder) Build(t *testing.T, db *gorm.DB) *domain.Entry {
	t.Helper()

	entry := &domain.Entry{
		ID:           uuid.New(),
		UserID:       b.userID,
		DefinitionID: b.definitionID,
		Date:         b.date,
		Status:       b.status,
		Reason:       b.reason,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	return entry
}

// CountEntries returns how many entries reference definitionID.
func CountEntries(t *testing.T, db *gorm.DB, definitionID uuid.UUID) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&domain.Entry{}).Where("definition_id = ?", definitionID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	return count
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends req and fails the test on transport errors.
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", req.Method, req.URL, err)
	}
	t.Cleanup(func() {
		resp.Body.Close()
	})
	return resp
}
