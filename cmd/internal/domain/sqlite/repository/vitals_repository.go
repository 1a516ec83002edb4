package repository

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultVitalsRepository struct {
	db *gorm.DB
}

func NewVitalsRepository(db *gorm.DB) *DefaultVitalsRepository {
	return &DefaultVitalsRepository{db: db}
}

// Append persists one sample. The table is append-only; rows are never
// updated or deleted in-band.
func (v *DefaultVitalsRepository) Append(sample *entity.VitalSample) error {
	return v.db.Create(sample).Error
}

func (v *DefaultVitalsRepository) FindLatest(userID int) (*entity.VitalSample, error) {
	var sample entity.VitalSample
	err := v.db.Where("user_id = ?", userID).
		Order("timestamp desc").
		First(&sample).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sample, err
}

// FindSince returns samples newer than the given epoch millis, oldest first.
func (v *DefaultVitalsRepository) FindSince(userID int, since int64) ([]*entity.VitalSample, error) {
	var samples []*entity.VitalSample
	err := v.db.Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp asc").
		Find(&samples).Error
	return samples, err
}

// FindRiskHistory returns (timestamp, risk_score) pairs in insertion order.
func (v *DefaultVitalsRepository) FindRiskHistory(userID int) ([]*entity.VitalSample, error) {
	var samples []*entity.VitalSample
	err := v.db.Select("timestamp", "risk_score").
		Where("user_id = ?", userID).
		Order("timestamp asc").
		Find(&samples).Error
	return samples, err
}
