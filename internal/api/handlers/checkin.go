package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/google/uuid"
)

type CheckinHandler struct {
	checkinService  *service.CheckinService
	scheduleService *service.ScheduleService
}

func NewCheckinHandler(checkinService *service.CheckinService, scheduleService *service.ScheduleService) *CheckinHandler {
	return &CheckinHandler{
		checkinService:  checkinService,
		scheduleService: scheduleService,
	}
}

type ToggleRequest struct {
	DefinitionID string `json:"definitionId"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

// Toggle records, switches or clears the caller's check-in for a definition
// on a day. date defaults to today.
func (h *CheckinHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	definitionID, err := uuid.Parse(req.DefinitionID)
	if err != nil {
		http.Error(w, "Invalid definitionId", http.StatusBadRequest)
		return
	}
	status, err := domain.ParseEntryStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	day := h.scheduleService.Today()
	if req.Date != "" {
		if day, err = domain.ParseDay(req.Date); err != nil {
			writeError(w, r, err)
			return
		}
	}

	item, err := h.checkinService.Toggle(r.Context(), userID, service.ToggleInput{
		DefinitionID: definitionID,
		Date:         day,
		Status:       status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *CheckinHandler) SetReason(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "entryId")
	if !ok {
		return
	}

	var req ReasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.checkinService.SetReason(r.Context(), userID, entryID, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
