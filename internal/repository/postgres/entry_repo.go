package postgres

import (
	"context"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *entryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).First(&entry, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) FindForDay(ctx context.Context, userID, definitionID uuid.UUID, day time.Time) (*domain.Entry, error) {
	var entry domain.Entry
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND definition_id = ? AND date = ?", userID, definitionID, domain.TruncateDay(day)).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *entryRepository) ListByDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, domain.TruncateDay(day)).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) ListByRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, domain.TruncateDay(from), domain.TruncateDay(to)).
		Order("date ASC, created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("user_id = ?", entry.UserID).
		Select("status", "reason", "updated_at").
		Updates(entry)
	return updatedOne(result)
}

func (r *entryRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Entry{}, "id = ? AND user_id = ?", id, userID)
	return result.RowsAffected, result.Error
}

func (r *entryRepository) DeleteByDefinition(ctx context.Context, userID, definitionID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Entry{}, "user_id = ? AND definition_id = ?", userID, definitionID)
	return result.RowsAffected, result.Error
}
