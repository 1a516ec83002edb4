package repository

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateUsername signals a registration against a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidDoctor signals a patient referencing a non-doctor user.
	ErrInvalidDoctor = errors.New("doctor reference is not a doctor")
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id int) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (u *DefaultUserRepository) FindByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (u *DefaultUserRepository) FindDoctors() ([]*entity.User, error) {
	var doctors []*entity.User
	err := u.db.Where("role = ?", entity.RoleDoctor).Order("username asc").Find(&doctors).Error
	return doctors, err
}

func (u *DefaultUserRepository) FindPatientsByDoctor(doctorID int) ([]*entity.User, error) {
	var patients []*entity.User
	err := u.db.Where("role = ? AND doctor_id = ?", entity.RolePatient, doctorID).
		Order("username asc").
		Find(&patients).Error
	return patients, err
}

// Create inserts a new account. The uniqueness and doctor-reference
// invariants are checked inside the same transaction as the insert, so a
// concurrent registration cannot slip between check and write.
func (u *DefaultUserRepository) Create(user *entity.User) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		if user.DoctorID != nil {
			var doctor entity.User
			err := tx.First(&doctor, *user.DoctorID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && doctor.Role != entity.RoleDoctor) {
				return ErrInvalidDoctor
			}
			if err != nil {
				return err
			}
		}

		return tx.Create(user).Error
	})
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}
