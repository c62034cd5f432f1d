package repository

import (
	"context"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserSession, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// Every definition and entry query is scoped by the owning user id.

type RecurringDefinitionRepository interface {
	Create(ctx context.Context, def *domain.RecurringDefinition) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.RecurringDefinition, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringDefinition, error)
	Update(ctx context.Context, def *domain.RecurringDefinition) error
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type TemporaryDefinitionRepository interface {
	Create(ctx context.Context, def *domain.TemporaryDefinition) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.TemporaryDefinition, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TemporaryDefinition, error)
	// ListOverlapping returns definitions whose inclusive range intersects from..to.
	ListOverlapping(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.TemporaryDefinition, error)
	Update(ctx context.Context, def *domain.TemporaryDefinition) error
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error)
	// FindForDay returns nil, nil when nothing is recorded for the triple.
	FindForDay(ctx context.Context, userID, definitionID uuid.UUID, day time.Time) (*domain.Entry, error)
	ListByDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Entry, error)
	ListByRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Entry, error)
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
	DeleteByDefinition(ctx context.Context, userID, definitionID uuid.UUID) (int64, error)
}

// Transactor runs fn against repositories bound to a single storage
// transaction. Returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User                UserRepository
	Session             SessionRepository
	RecurringDefinition RecurringDefinitionRepository
	TemporaryDefinition TemporaryDefinitionRepository
	Entry               EntryRepository
	Transactor          Transactor
}
