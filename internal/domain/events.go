package domain

import "github.com/google/uuid"

type ScheduleEventType string

const (
	EventEntryChanged      ScheduleEventType = "ENTRY_CHANGED"
	EventDefinitionChanged ScheduleEventType = "DEFINITION_CHANGED"
	EventDefinitionDeleted ScheduleEventType = "DEFINITION_DELETED"
)

// ScheduleEvent describes a committed change to one user's schedule.
type ScheduleEvent struct {
	Type         ScheduleEventType `json:"type"`
	UserID       uuid.UUID         `json:"userId"`
	Item         *DisplayItem      `json:"item,omitempty"`
	Definition   *Definition       `json:"definition,omitempty"`
	DefinitionID *uuid.UUID        `json:"definitionId,omitempty"`
}
