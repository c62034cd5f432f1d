package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefinitionKind tags which table a definition lives in.
type DefinitionKind string

const (
	DefinitionKindRecurring DefinitionKind = "recurring"
	DefinitionKindTemporary DefinitionKind = "temporary"
)

const (
	MaxDescriptionLength = 80
	MaxReasonLength      = 100
)

func (k DefinitionKind) IsValid() bool {
	switch k {
	case DefinitionKindRecurring, DefinitionKindTemporary:
		return true
	}
	return false
}

// RecurringDefinition is a schedule item repeated every day, or only on the
// listed weekdays (0=Sunday..6=Saturday) when Weekdays is non-empty.
type RecurringDefinition struct {
	ID          uuid.UUID                `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID                `json:"userId" gorm:"type:uuid;index;not null"`
	Description string                   `json:"description" gorm:"not null"`
	Weekdays    datatypes.JSONSlice[int] `json:"weekdays"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

func (d *RecurringDefinition) ActiveOn(day time.Time) bool {
	if len(d.Weekdays) == 0 {
		return true
	}
	weekday := int(TruncateDay(day).Weekday())
	for _, wd := range d.Weekdays {
		if wd == weekday {
			return true
		}
	}
	return false
}

func (d *RecurringDefinition) Definition() Definition {
	var weekdays []int
	if len(d.Weekdays) > 0 {
		weekdays = append(weekdays, d.Weekdays...)
	}
	return Definition{
		ID:          d.ID,
		UserID:      d.UserID,
		Kind:        DefinitionKindRecurring,
		Description: d.Description,
		Weekdays:    weekdays,
		CreatedAt:   d.CreatedAt,
	}
}

// TemporaryDefinition is a schedule item valid on every day of the
// inclusive StartDate..EndDate range.
type TemporaryDefinition struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Description string    `json:"description" gorm:"not null"`
	StartDate   time.Time `json:"startDate" gorm:"type:date;not null;index"`
	EndDate     time.Time `json:"endDate" gorm:"type:date;not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *TemporaryDefinition) ActiveOn(day time.Time) bool {
	day = TruncateDay(day)
	return !day.Before(TruncateDay(d.StartDate)) && !day.After(TruncateDay(d.EndDate))
}

func (d *TemporaryDefinition) Definition() Definition {
	start := TruncateDay(d.StartDate)
	end := TruncateDay(d.EndDate)
	return Definition{
		ID:          d.ID,
		UserID:      d.UserID,
		Kind:        DefinitionKindTemporary,
		Description: d.Description,
		StartDate:   &start,
		EndDate:     &end,
		CreatedAt:   d.CreatedAt,
	}
}

// Definition is the kind-tagged view shared by both definition tables.
type Definition struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	Kind        DefinitionKind `json:"kind"`
	Description string         `json:"description"`
	Weekdays    []int          `json:"weekdays,omitempty"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (d Definition) IsTemporary() bool {
	return d.Kind == DefinitionKindTemporary
}

func (d Definition) ActiveOn(day time.Time) bool {
	switch d.Kind {
	case DefinitionKindRecurring:
		r := RecurringDefinition{Weekdays: d.Weekdays}
		return r.ActiveOn(day)
	case DefinitionKindTemporary:
		if d.StartDate == nil || d.EndDate == nil {
			return false
		}
		t := TemporaryDefinition{StartDate: *d.StartDate, EndDate: *d.EndDate}
		return t.ActiveOn(day)
	}
	return false
}

// NormalizeDescription trims the description and enforces the length cap.
func NormalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, ErrDescriptionEmpty)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", fmt.Errorf("%w: %w (max %d characters)", ErrInvalidArgument, ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return description, nil
}

// NormalizeWeekdays validates, dedupes and sorts weekday indices. An empty
// input yields nil, meaning every day.
func NormalizeWeekdays(weekdays []int) ([]int, error) {
	if len(weekdays) == 0 {
		return nil, nil
	}

	seen := make(map[int]bool, len(weekdays))
	out := make([]int, 0, len(weekdays))
	for _, wd := range weekdays {
		if wd < 0 || wd > 6 {
			return nil, fmt.Errorf("%w: %w: got %d", ErrInvalidArgument, ErrInvalidWeekday, wd)
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	sort.Ints(out)
	return out, nil
}

// NormalizeDateRange truncates both ends to whole UTC days and rejects
// ranges that end before they start.
func NormalizeDateRange(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w: start and end dates are required", ErrInvalidArgument, ErrInvalidDate)
	}
	start, end = TruncateDay(start), TruncateDay(end)
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidArgument, ErrInvalidDateRange)
	}
	return start, end, nil
}
