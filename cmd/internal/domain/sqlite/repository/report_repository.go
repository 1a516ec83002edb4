package repository

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// ErrDuplicateReport signals a second upload of the same (user, filename).
var ErrDuplicateReport = errors.New("report filename already exists for user")

type DefaultReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *DefaultReportRepository {
	return &DefaultReportRepository{db: db}
}

// Create inserts a report. The (user, filename) duplicate check and the
// insert share one transaction so two concurrent uploads of the same name
// cannot both land.
func (r *DefaultReportRepository) Create(report *entity.Report) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.Report{}).
			Where("user_id = ? AND filename = ?", report.UserID, report.Filename).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateReport
		}
		return tx.Create(report).Error
	})
}

func (r *DefaultReportRepository) FindByUserID(userID int) ([]*entity.Report, error) {
	var reports []*entity.Report
	err := r.db.Where("user_id = ?", userID).
		Order("uploaded_at desc").
		Find(&reports).Error
	return reports, err
}

// FindByDoctorID returns the reports of every patient assigned to the
// doctor, owner preloaded for display.
func (r *DefaultReportRepository) FindByDoctorID(doctorID int) ([]*entity.Report, error) {
	var reports []*entity.Report
	err := r.db.Preload("Owner").
		Joins("JOIN users ON users.id = reports.user_id").
		Where("users.doctor_id = ?", doctorID).
		Order("reports.uploaded_at desc").
		Find(&reports).Error
	return reports, err
}

func (r *DefaultReportRepository) Exists(userID int, filename string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Report{}).
		Where("user_id = ? AND filename = ?", userID, filename).
		Count(&count).Error
	return count > 0, err
}
