package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DefinitionService struct {
	repos    *repository.Repositories
	notifier ScheduleNotifier
	storage  storage
}

func NewDefinitionService(repos *repository.Repositories, notifier ScheduleNotifier, timeout time.Duration) *DefinitionService {
	return &DefinitionService{
		repos:    repos,
		notifier: notifierOrNoop(notifier),
		storage:  newStorage(timeout),
	}
}

type CreateDefinitionInput struct {
	Kind        domain.DefinitionKind
	Description string
	// Recurring only. Empty means every day.
	Weekdays []int
	// Temporary only.
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdateDefinitionInput is a patch: nil fields are left unchanged.
type UpdateDefinitionInput struct {
	Description *string
	Weekdays    *[]int
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *DefinitionService) Create(ctx context.Context, userID uuid.UUID, input CreateDefinitionInput) (*domain.Definition, error) {
	description, err := domain.NormalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	now := time.Now()
	var def domain.Definition

	switch input.Kind {
	case domain.DefinitionKindRecurring:
		if input.StartDate != nil || input.EndDate != nil {
			return nil, fmt.Errorf("%w: %w: recurring definitions take no date range", domain.ErrInvalidArgument, domain.ErrKindMismatch)
		}
		weekdays, err := domain.NormalizeWeekdays(input.Weekdays)
		if err != nil {
			return nil, err
		}
		recurring := &domain.RecurringDefinition{
			ID:          uuid.New(),
			UserID:      userID,
			Description: description,
			Weekdays:    datatypes.JSONSlice[int](weekdays),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.RecurringDefinition.Create(ctx, recurring); err != nil {
			return nil, translateStorageError(err, "create recurring definition")
		}
		def = recurring.Definition()

	case domain.DefinitionKindTemporary:
		if len(input.Weekdays) > 0 {
			return nil, fmt.Errorf("%w: %w: temporary definitions take no weekdays", domain.ErrInvalidArgument, domain.ErrKindMismatch)
		}
		if input.StartDate == nil || input.EndDate == nil {
			return nil, fmt.Errorf("%w: %w: startDate and endDate are required", domain.ErrInvalidArgument, domain.ErrInvalidDate)
		}
		start, end, err := domain.NormalizeDateRange(*input.StartDate, *input.EndDate)
		if err != nil {
			return nil, err
		}
		temporary := &domain.TemporaryDefinition{
			ID:          uuid.New(),
			UserID:      userID,
			Description: description,
			StartDate:   start,
			EndDate:     end,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.TemporaryDefinition.Create(ctx, temporary); err != nil {
			return nil, translateStorageError(err, "create temporary definition")
		}
		def = temporary.Definition()

	default:
		return nil, fmt.Errorf("%w: %w: got %q", domain.ErrInvalidArgument, domain.ErrInvalidKind, input.Kind)
	}

	logger.Info("definition created", "user_id", userID, "definition_id", def.ID, "kind", def.Kind)
	s.notifier.NotifyScheduleChanged(domain.ScheduleEvent{
		Type:       domain.EventDefinitionChanged,
		UserID:     userID,
		Definition: &def,
	})
	return &def, nil
}

func (s *DefinitionService) Update(ctx context.Context, userID, definitionID uuid.UUID, input UpdateDefinitionInput) (*domain.Definition, error) {
	var description *string
	if input.Description != nil {
		normalized, err := domain.NormalizeDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		description = &normalized
	}

	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	var def domain.Definition
	err := s.repos.Transactor.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		recurring, err := repos.RecurringDefinition.GetByID(ctx, userID, definitionID)
		if err == nil {
			def, err = updateRecurring(ctx, repos, recurring, description, input)
			return err
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		temporary, err := repos.TemporaryDefinition.GetByID(ctx, userID, definitionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: definition %s", domain.ErrNotFound, definitionID)
		}
		if err != nil {
			return err
		}
		def, err = updateTemporary(ctx, repos, temporary, description, input)
		return err
	})
	if err != nil {
		return nil, translateStorageError(err, "update definition")
	}

	s.notifier.NotifyScheduleChanged(domain.ScheduleEvent{
		Type:       domain.EventDefinitionChanged,
		UserID:     userID,
		Definition: &def,
	})
	return &def, nil
}

// updateRecurring applies the patch to def and writes it back within the
// caller's transaction. A row deleted in the meantime is not recreated.
func updateRecurring(ctx context.Context, repos *repository.Repositories, def *domain.RecurringDefinition, description *string, input UpdateDefinitionInput) (domain.Definition, error) {
	if input.StartDate != nil || input.EndDate != nil {
		return domain.Definition{}, fmt.Errorf("%w: %w: recurring definitions take no date range", domain.ErrInvalidArgument, domain.ErrKindMismatch)
	}

	if description != nil {
		def.Description = *description
	}
	if input.Weekdays != nil {
		weekdays, err := domain.NormalizeWeekdays(*input.Weekdays)
		if err != nil {
			return domain.Definition{}, err
		}
		def.Weekdays = datatypes.JSONSlice[int](weekdays)
	}
	def.UpdatedAt = time.Now()

	if err := repos.RecurringDefinition.Update(ctx, def); err != nil {
		return domain.Definition{}, err
	}
	return def.Definition(), nil
}

func updateTemporary(ctx context.Context, repos *repository.Repositories, def *domain.TemporaryDefinition, description *string, input UpdateDefinitionInput) (domain.Definition, error) {
	if input.Weekdays != nil {
		return domain.Definition{}, fmt.Errorf("%w: %w: temporary definitions take no weekdays", domain.ErrInvalidArgument, domain.ErrKindMismatch)
	}

	if description != nil {
		def.Description = *description
	}
	start, end := def.StartDate, def.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	var err error
	def.StartDate, def.EndDate, err = domain.NormalizeDateRange(start, end)
	if err != nil {
		return domain.Definition{}, err
	}
	def.UpdatedAt = time.Now()

	if err := repos.TemporaryDefinition.Update(ctx, def); err != nil {
		return domain.Definition{}, err
	}
	return def.Definition(), nil
}

// Delete removes the definition and every entry recorded against it in one
// transaction.
func (s *DefinitionService) Delete(ctx context.Context, userID, definitionID uuid.UUID) error {
	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	var removedEntries int64
	err := s.repos.Transactor.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		def, err := lookupDefinition(ctx, repos, userID, definitionID)
		if err != nil {
			return err
		}

		removedEntries, err = repos.Entry.DeleteByDefinition(ctx, userID, definitionID)
		if err != nil {
			return err
		}

		var deleted int64
		switch def.Kind {
		case domain.DefinitionKindRecurring:
			deleted, err = repos.RecurringDefinition.Delete(ctx, userID, definitionID)
		default:
			deleted, err = repos.TemporaryDefinition.Delete(ctx, userID, definitionID)
		}
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("%w: definition %s", domain.ErrNotFound, definitionID)
		}
		return nil
	})
	if err != nil {
		return translateStorageError(err, "delete definition")
	}

	logger.Info("definition deleted", "user_id", userID, "definition_id", definitionID, "entries_removed", removedEntries)
	s.notifier.NotifyScheduleChanged(domain.ScheduleEvent{
		Type:         domain.EventDefinitionDeleted,
		UserID:       userID,
		DefinitionID: &definitionID,
	})
	return nil
}

func (s *DefinitionService) Get(ctx context.Context, userID, definitionID uuid.UUID) (*domain.Definition, error) {
	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	def, err := lookupDefinition(ctx, s.repos, userID, definitionID)
	if err != nil {
		return nil, translateStorageError(err, "load definition")
	}
	return &def, nil
}

// List returns recurring definitions, then temporary ones, each in creation order.
func (s *DefinitionService) List(ctx context.Context, userID uuid.UUID) ([]domain.Definition, error) {
	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	recurring, err := s.repos.RecurringDefinition.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStorageError(err, "list recurring definitions")
	}
	temporary, err := s.repos.TemporaryDefinition.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStorageError(err, "list temporary definitions")
	}

	defs := make([]domain.Definition, 0, len(recurring)+len(temporary))
	for _, def := range recurring {
		defs = append(defs, def.Definition())
	}
	for _, def := range temporary {
		defs = append(defs, def.Definition())
	}
	return defs, nil
}

// lookupDefinition resolves an id against both definition tables. Ids are
// UUIDs, so at most one table can hold a match.
func lookupDefinition(ctx context.Context, repos *repository.Repositories, userID, definitionID uuid.UUID) (domain.Definition, error) {
	recurring, err := repos.RecurringDefinition.GetByID(ctx, userID, definitionID)
	if err == nil {
		return recurring.Definition(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Definition{}, err
	}

	temporary, err := repos.TemporaryDefinition.GetByID(ctx, userID, definitionID)
	if err == nil {
		return temporary.Definition(), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Definition{}, fmt.Errorf("%w: definition %s", domain.ErrNotFound, definitionID)
	}
	return domain.Definition{}, err
}
