package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/google/uuid"
)

type DefinitionHandler struct {
	definitionService *service.DefinitionService
	authService       *service.AuthService
}

func NewDefinitionHandler(definitionService *service.DefinitionService, authService *service.AuthService) *DefinitionHandler {
	return &DefinitionHandler{
		definitionService: definitionService,
		authService:       authService,
	}
}

type CreateDefinitionRequest struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Weekdays    []int  `json:"weekdays"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// UpdateDefinitionRequest is a patch; omitted fields are left unchanged.
type UpdateDefinitionRequest struct {
	Description *string `json:"description"`
	Weekdays    *[]int  `json:"weekdays"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

func (h *DefinitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input := service.CreateDefinitionInput{
		Kind:        domain.DefinitionKind(req.Kind),
		Description: req.Description,
		Weekdays:    req.Weekdays,
	}
	var err error
	if input.StartDate, err = optionalDay(req.StartDate); err != nil {
		writeError(w, r, err)
		return
	}
	if input.EndDate, err = optionalDay(req.EndDate); err != nil {
		writeError(w, r, err)
		return
	}

	def, err := h.definitionService.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, def)
}

func (h *DefinitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	definitionID, ok := pathUUID(w, r, "definitionId")
	if !ok {
		return
	}

	var req UpdateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input := service.UpdateDefinitionInput{
		Description: req.Description,
		Weekdays:    req.Weekdays,
	}
	var err error
	if req.StartDate != nil {
		if input.StartDate, err = optionalDay(*req.StartDate); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.EndDate != nil {
		if input.EndDate, err = optionalDay(*req.EndDate); err != nil {
			writeError(w, r, err)
			return
		}
	}

	def, err := h.definitionService.Update(r.Context(), userID, definitionID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

// Delete removes the definition together with its check-in history.
func (h *DefinitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	definitionID, ok := pathUUID(w, r, "definitionId")
	if !ok {
		return
	}

	if err := h.definitionService.Delete(r.Context(), userID, definitionID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DefinitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	definitionID, ok := pathUUID(w, r, "definitionId")
	if !ok {
		return
	}

	def, err := h.definitionService.Get(r.Context(), userID, definitionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

func (h *DefinitionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.list(w, r, userID)
}

// ListForUser is the read-only view of another user's definitions.
func (h *DefinitionHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	targetID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	if _, err := h.authService.GetUserByID(r.Context(), targetID); err != nil {
		writeError(w, r, err)
		return
	}
	h.list(w, r, targetID)
}

func (h *DefinitionHandler) list(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	defs, err := h.definitionService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, defs)
}

// optionalDay parses a wire day; an empty string means absent.
func optionalDay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := domain.ParseDay(value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
