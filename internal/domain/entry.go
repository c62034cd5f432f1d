package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type EntryStatus string

const (
	EntryStatusCompleted    EntryStatus = "completed"
	EntryStatusNotCompleted EntryStatus = "not_completed"
)

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusCompleted, EntryStatusNotCompleted:
		return true
	}
	return false
}

func ParseEntryStatus(value string) (EntryStatus, error) {
	status := EntryStatus(strings.TrimSpace(value))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %w: got %q", ErrInvalidArgument, ErrInvalidStatus, value)
	}
	return status, nil
}

// Entry is a check-in for one definition on one day. At most one exists per
// (user, definition, date); the unique index backs that up at the storage level.
type Entry struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	UserID       uuid.UUID   `json:"userId" gorm:"type:uuid;not null;index;uniqueIndex:uidx_entries_user_definition_date"`
	DefinitionID uuid.UUID   `json:"definitionId" gorm:"type:uuid;not null;index;uniqueIndex:uidx_entries_user_definition_date"`
	Date         time.Time   `json:"date" gorm:"type:date;not null;uniqueIndex:uidx_entries_user_definition_date"`
	Status       EntryStatus `json:"status" gorm:"type:varchar(20);not null"`
	Reason       *string     `json:"reason,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// SetStatus moves the entry to status. Reasons only describe incompletion,
// so completing an entry drops any reason.
func (e *Entry) SetStatus(status EntryStatus) {
	e.Status = status
	if status == EntryStatusCompleted {
		e.Reason = nil
	}
}

// SetReason attaches reason to a not_completed entry; an empty reason clears it.
func (e *Entry) SetReason(reason string) error {
	if e.Status != EntryStatusNotCompleted {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrReasonNotAllowed)
	}
	normalized, err := NormalizeReason(reason)
	if err != nil {
		return err
	}
	e.Reason = normalized
	return nil
}

func NormalizeReason(reason string) (*string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return nil, fmt.Errorf("%w: %w (max %d characters)", ErrInvalidArgument, ErrReasonTooLong, MaxReasonLength)
	}
	return &reason, nil
}

// ToggleAction is the write a status toggle resolves to.
type ToggleAction int

const (
	ToggleCreate ToggleAction = iota
	ToggleUpdate
	ToggleDelete
)

func (a ToggleAction) String() string {
	switch a {
	case ToggleCreate:
		return "create"
	case ToggleUpdate:
		return "update"
	case ToggleDelete:
		return "delete"
	}
	return "unknown"
}

// NextToggleAction applies the check-in state machine. current is nil when
// nothing is recorded for the day:
//
//	Unset   --S-->  Set(S)   create
//	Set(S)  --S-->  Unset    delete
//	Set(S)  --S'--> Set(S')  update
func NextToggleAction(current *Entry, desired EntryStatus) ToggleAction {
	if current == nil {
		return ToggleCreate
	}
	if current.Status == desired {
		return ToggleDelete
	}
	return ToggleUpdate
}
