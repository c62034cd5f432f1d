package handlers

import (
	"net/http"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	authService     *service.AuthService
}

func NewScheduleHandler(scheduleService *service.ScheduleService, authService *service.AuthService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		authService:     authService,
	}
}

// Day serves the caller's schedule for ?date=, defaulting to today.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.day(w, r, userID)
}

func (h *ScheduleHandler) DayForUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.targetUser(w, r)
	if !ok {
		return
	}
	h.day(w, r, targetID)
}

// History serves ?from=..&to= (inclusive) as one DayView per day.
func (h *ScheduleHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.history(w, r, userID)
}

func (h *ScheduleHandler) HistoryForUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.targetUser(w, r)
	if !ok {
		return
	}
	h.history(w, r, targetID)
}

func (h *ScheduleHandler) day(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	day, err := h.dayParam(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.scheduleService.Resolve(r.Context(), userID, day)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.DayView{Date: day, Items: items})
}

func (h *ScheduleHandler) history(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	from, err := domain.ParseDay(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := domain.ParseDay(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views, err := h.scheduleService.History(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *ScheduleHandler) dayParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return h.scheduleService.Today(), nil
	}
	return domain.ParseDay(value)
}

// targetUser resolves {userId} for read-only views, answering 404 for
// unknown users.
func (h *ScheduleHandler) targetUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if _, ok := currentUser(w, r); !ok {
		return uuid.Nil, false
	}
	targetID, ok := pathUUID(w, r, "userId")
	if !ok {
		return uuid.Nil, false
	}
	if _, err := h.authService.GetUserByID(r.Context(), targetID); err != nil {
		writeError(w, r, err)
		return uuid.Nil, false
	}
	return targetID, true
}
