package repository

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// ErrEmergencyNotPending signals a resolve against a missing or
// already-resolved emergency.
var ErrEmergencyNotPending = errors.New("emergency is not pending")

type DefaultEmergencyRepository struct {
	db *gorm.DB
}

func NewEmergencyRepository(db *gorm.DB) *DefaultEmergencyRepository {
	return &DefaultEmergencyRepository{db: db}
}

// CreateAndPrioritize inserts a Pending emergency and promotes the
// patient's today-or-future appointments to Priority in one transaction.
func (e *DefaultEmergencyRepository) CreateAndPrioritize(emergency *entity.Emergency, fromDate string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(emergency).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Appointment{}).
			Where("user_id = ? AND date >= ?", emergency.UserID, fromDate).
			Update("status", entity.AppointmentPriority).Error
	})
}

func (e *DefaultEmergencyRepository) FindByID(id int) (*entity.Emergency, error) {
	var emergency entity.Emergency
	err := e.db.First(&emergency, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &emergency, err
}

func (e *DefaultEmergencyRepository) FindPending() ([]*entity.Emergency, error) {
	var emergencies []*entity.Emergency
	err := e.db.Preload("Patient").
		Where("status = ?", entity.EmergencyPending).
		Order("timestamp asc").
		Find(&emergencies).Error
	return emergencies, err
}

// Resolve performs the single Pending -> Resolved transition. The status
// guard sits in the WHERE clause, so a double resolve loses the race
// cleanly instead of overwriting the first resolver.
func (e *DefaultEmergencyRepository) Resolve(id, doctorID int, notes string, resolvedAt int64) error {
	res := e.db.Model(&entity.Emergency{}).
		Where("id = ? AND status = ?", id, entity.EmergencyPending).
		Updates(map[string]any{
			"status":      entity.EmergencyResolved,
			"resolved_by": doctorID,
			"notes":       notes,
			"timestamp":   resolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEmergencyNotPending
	}
	return nil
}
