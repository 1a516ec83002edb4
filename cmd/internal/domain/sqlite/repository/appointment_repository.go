package repository

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (a *DefaultAppointmentRepository) FindByUserID(id int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").
		Where("user_id = ?", id).
		Order("date desc, time desc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByDoctorID(id int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").
		Where("doctor_id = ?", id).
		Order("date desc, time desc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

// Delete hard-deletes a cancelled appointment. No audit trail is kept.
func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
