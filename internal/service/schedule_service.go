package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/repository"
	"github.com/google/uuid"
)

// MaxHistoryDays caps the inclusive span of a history read.
const MaxHistoryDays = 62

type ScheduleService struct {
	repos   *repository.Repositories
	clock   Clock
	storage storage
}

func NewScheduleService(repos *repository.Repositories, clock Clock, timeout time.Duration) *ScheduleService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ScheduleService{
		repos:   repos,
		clock:   clock,
		storage: newStorage(timeout),
	}
}

// Today is the clock's current UTC day.
func (s *ScheduleService) Today() time.Time {
	return domain.TruncateDay(s.clock.Now())
}

// Resolve lists the items active for userID on day, joined with any
// check-ins recorded that day. An empty schedule is not an error.
func (s *ScheduleService) Resolve(ctx context.Context, userID uuid.UUID, day time.Time) ([]domain.DisplayItem, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: %w: date is required", domain.ErrInvalidArgument, domain.ErrInvalidDate)
	}
	day = domain.TruncateDay(day)

	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	recurring, err := s.repos.RecurringDefinition.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStorageError(err, "list recurring definitions")
	}
	temporary, err := s.repos.TemporaryDefinition.ListOverlapping(ctx, userID, day, day)
	if err != nil {
		return nil, translateStorageError(err, "list temporary definitions")
	}
	entries, err := s.repos.Entry.ListByDay(ctx, userID, day)
	if err != nil {
		return nil, translateStorageError(err, "list entries")
	}

	return domain.ResolveDay(recurring, temporary, entries, day), nil
}

// History resolves every day of the inclusive from..to range from a single
// read of definitions and entries.
func (s *ScheduleService) History(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.DayView, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: %w: from and to are required", domain.ErrInvalidArgument, domain.ErrInvalidDate)
	}
	from, to = domain.TruncateDay(from), domain.TruncateDay(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, domain.ErrInvalidDateRange)
	}
	days := domain.DaysBetween(from, to)
	if len(days) > MaxHistoryDays {
		return nil, fmt.Errorf("%w: %w (max %d days)", domain.ErrInvalidArgument, domain.ErrRangeTooLong, MaxHistoryDays)
	}

	ctx, cancel := s.storage.context(ctx)
	defer cancel()

	recurring, err := s.repos.RecurringDefinition.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStorageError(err, "list recurring definitions")
	}
	temporary, err := s.repos.TemporaryDefinition.ListOverlapping(ctx, userID, from, to)
	if err != nil {
		return nil, translateStorageError(err, "list temporary definitions")
	}
	entries, err := s.repos.Entry.ListByRange(ctx, userID, from, to)
	if err != nil {
		return nil, translateStorageError(err, "list entries")
	}

	byDay := make(map[time.Time][]*domain.Entry)
	for _, entry := range entries {
		key := domain.TruncateDay(entry.Date)
		byDay[key] = append(byDay[key], entry)
	}

	views := make([]domain.DayView, 0, len(days))
	for _, day := range days {
		views = append(views, domain.DayView{
			Date:  day,
			Items: domain.ResolveDay(recurring, temporary, byDay[day], day),
		})
	}
	return views, nil
}
