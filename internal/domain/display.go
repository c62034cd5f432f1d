package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DisplayItem is one active definition on a given day, joined with its
// check-in when one exists.
type DisplayItem struct {
	DefinitionID uuid.UUID    `json:"definitionId"`
	Description  string       `json:"description"`
	IsTemporary  bool         `json:"isTemporary"`
	Date         time.Time    `json:"date"`
	Status       *EntryStatus `json:"status,omitempty"`
	Reason       *string      `json:"reason,omitempty"`
	EntryID      *uuid.UUID   `json:"entryId,omitempty"`
}

// DayView groups the resolved items of a single day.
type DayView struct {
	Date  time.Time     `json:"date"`
	Items []DisplayItem `json:"items"`
}

// NewDisplayItem joins a definition with its entry for day. entry may be nil.
func NewDisplayItem(def Definition, day time.Time, entry *Entry) DisplayItem {
	item := DisplayItem{
		DefinitionID: def.ID,
		Description:  def.Description,
		IsTemporary:  def.IsTemporary(),
		Date:         TruncateDay(day),
	}
	if entry != nil {
		status := entry.Status
		entryID := entry.ID
		item.Status = &status
		item.EntryID = &entryID
		if entry.Reason != nil {
			reason := *entry.Reason
			item.Reason = &reason
		}
	}
	return item
}

// ResolveDay computes the items active on day: recurring definitions whose
// weekday set is empty or contains the day's weekday, then temporary
// definitions whose range contains the day, each in creation order. Entries
// recorded for other days are ignored.
func ResolveDay(recurring []*RecurringDefinition, temporary []*TemporaryDefinition, entries []*Entry, day time.Time) []DisplayItem {
	day = TruncateDay(day)

	byDefinition := make(map[uuid.UUID]*Entry, len(entries))
	for _, entry := range entries {
		if TruncateDay(entry.Date).Equal(day) {
			byDefinition[entry.DefinitionID] = entry
		}
	}

	items := make([]DisplayItem, 0, len(recurring)+len(temporary))
	for _, def := range sortedRecurring(recurring) {
		if def.ActiveOn(day) {
			items = append(items, NewDisplayItem(def.Definition(), day, byDefinition[def.ID]))
		}
	}
	for _, def := range sortedTemporary(temporary) {
		if def.ActiveOn(day) {
			items = append(items, NewDisplayItem(def.Definition(), day, byDefinition[def.ID]))
		}
	}
	return items
}

func sortedRecurring(defs []*RecurringDefinition) []*RecurringDefinition {
	out := append([]*RecurringDefinition(nil), defs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func sortedTemporary(defs []*TemporaryDefinition) []*TemporaryDefinition {
	out := append([]*TemporaryDefinition(nil), defs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
