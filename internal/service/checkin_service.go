package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/repository"
	"github.com/google/uuid"
)

type CheckinService struct {
	repos    *repository.Repositories
	notifier ScheduleNotifier
	storage  storage
}

func NewCheckinService(repos *repository.Repositories, notifier ScheduleNotifier, timeout time.Duration) *CheckinService {
	return &CheckinService{
		repos:    repos,
		notifier: notifierOrNoop(notifier),
		storage:  newStorage(timeout),
	}
}

type ToggleInput struct {
	DefinitionID uuid.UUID
	Date         time.Time
	Status       domain.EntryStatus
}

// Toggle applies the check-in state machine for one definition on one day and
// returns the resulting item. Selecting the status already recorded clears
// the check-in.
func (s *CheckinService) Toggle(ctx context.Context, userID uuid.UUID, input ToggleInput) (*domain.DisplayItem, error) {
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: %w: got %q", domain.ErrInvalidArgument, domain.ErrInvalidStatus, input.Status)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: %w: date is required", domain.ErrInvalidArgument, domain.ErrInvalidDate)
	}
	day := domain.TruncateDay(input.Date)

	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	var (
		item   domain.DisplayItem
		action domain.ToggleAction
	)
	err := s.repos.Transactor.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		def, err := lookupDefinition(ctx, repos, userID, input.DefinitionID)
		if err != nil {
			return err
		}
		if !def.ActiveOn(day) {
			return fmt.Errorf("%w: %w: %s", domain.ErrInvalidArgument, domain.ErrNotActiveOnDate, domain.FormatDay(day))
		}

		current, err := repos.Entry.FindForDay(ctx, userID, def.ID, day)
		if err != nil {
			return err
		}

		action = domain.NextToggleAction(current, input.Status)
		switch action {
		case domain.ToggleCreate:
			now := time.Now()
			entry := &domain.Entry{
				ID:           uuid.New(),
				UserID:       userID,
				DefinitionID: def.ID,
				Date:         day,
				Status:       input.Status,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repos.Entry.Create(ctx, entry); err != nil {
				return err
			}
			item = domain.NewDisplayItem(def, day, entry)

		case domain.ToggleUpdate:
			current.SetStatus(input.Status)
			current.UpdatedAt = time.Now()
			if err := repos.Entry.Update(ctx, current); err != nil {
				return err
			}
			item = domain.NewDisplayItem(def, day, current)

		case domain.ToggleDelete:
			if _, err := repos.Entry.Delete(ctx, userID, current.ID); err != nil {
				return err
			}
			item = domain.NewDisplayItem(def, day, nil)
		}
		return nil
	})
	if err != nil {
		return nil, translateStorageError(err, "toggle entry")
	}

	logger.Debug("entry toggled", "user_id", userID, "definition_id", input.DefinitionID, "date", domain.FormatDay(day), "action", action.String())
	s.notifyEntry(userID, item)
	return &item, nil
}

// SetReason records why a not_completed entry was missed. An empty reason
// clears it.
func (s *CheckinService) SetReason(ctx context.Context, userID, entryID uuid.UUID, reason string) (*domain.DisplayItem, error) {
	if _, err := domain.NormalizeReason(reason); err != nil {
		return nil, err
	}

	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	var item domain.DisplayItem
	err := s.repos.Transactor.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		entry, err := repos.Entry.GetByID(ctx, userID, entryID)
		if err != nil {
			return err
		}
		if err := entry.SetReason(reason); err != nil {
			return err
		}

		def, err := lookupDefinition(ctx, repos, userID, entry.DefinitionID)
		if err != nil {
			return err
		}

		entry.UpdatedAt = time.Now()
		if err := repos.Entry.Update(ctx, entry); err != nil {
			return err
		}
		item = domain.NewDisplayItem(def, entry.Date, entry)
		return nil
	})
	if err != nil {
		return nil, translateStorageError(err, "set entry reason")
	}

	s.notifyEntry(userID, item)
	return &item, nil
}

func (s *CheckinService) notifyEntry(userID uuid.UUID, item domain.DisplayItem) {
	s.notifier.NotifyScheduleChanged(domain.ScheduleEvent{
		Type:   domain.EventEntryChanged,
		UserID: userID,
		Item:   &item,
	})
}
