package postgres

import (
	"context"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recurringDefinitionRepository struct {
	db *gorm.DB
}

func NewRecurringDefinitionRepository(db *gorm.DB) *recurringDefinitionRepository {
	return &recurringDefinitionRepository{db: db}
}

func (r *recurringDefinitionRepository) Create(ctx context.Context, def *domain.RecurringDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *recurringDefinitionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.RecurringDefinition, error) {
	var def domain.RecurringDefinition
	err := r.db.WithContext(ctx).First(&def, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *recurringDefinitionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringDefinition, error) {
	var defs []*domain.RecurringDefinition
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Update writes the mutable columns of an existing row. It never inserts: a
// row deleted since it was read yields gorm.ErrRecordNotFound.
func (r *recurringDefinitionRepository) Update(ctx context.Context, def *domain.RecurringDefinition) error {
	result := r.db.WithContext(ctx).
		Model(def).
		Where("user_id = ?", def.UserID).
		Select("description", "weekdays", "updated_at").
		Updates(def)
	return updatedOne(result)
}

func (r *recurringDefinitionRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.RecurringDefinition{}, "id = ? AND user_id = ?", id, userID)
	return result.RowsAffected, result.Error
}

type temporaryDefinitionRepository struct {
	db *gorm.DB
}

func NewTemporaryDefinitionRepository(db *gorm.DB) *temporaryDefinitionRepository {
	return &temporaryDefinitionRepository{db: db}
}

func (r *temporaryDefinitionRepository) Create(ctx context.Context, def *domain.TemporaryDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *temporaryDefinitionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.TemporaryDefinition, error) {
	var def domain.TemporaryDefinition
	err := r.db.WithContext(ctx).First(&def, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *temporaryDefinitionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TemporaryDefinition, error) {
	var defs []*domain.TemporaryDefinition
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *temporaryDefinitionRepository) ListOverlapping(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.TemporaryDefinition, error) {
	var defs []*domain.TemporaryDefinition
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, domain.TruncateDay(to), domain.TruncateDay(from)).
		Order("created_at ASC, id ASC").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *temporaryDefinitionRepository) Update(ctx context.Context, def *domain.TemporaryDefinition) error {
	result := r.db.WithContext(ctx).
		Model(def).
		Where("user_id = ?", def.UserID).
		Select("description", "start_date", "end_date", "updated_at").
		Updates(def)
	return updatedOne(result)
}

func updatedOne(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *temporaryDefinitionRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.TemporaryDefinition{}, "id = ? AND user_id = ?", id, userID)
	return result.RowsAffected, result.Error
}
