package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"healthgate/cmd/internal/domain/entity"
)

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	seedUser(t, db, "marta", entity.RoleDoctor, nil)

	err := repo.Create(&entity.User{Username: "marta", PasswordHash: "y", Role: entity.RoleDoctor})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Where("username = ?", "marta").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUserCreateRejectsNonDoctorReference(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	patient := seedUser(t, db, "pat", entity.RolePatient, nil)

	err := repo.Create(&entity.User{
		Username:     "newbie",
		PasswordHash: "y",
		Role:         entity.RolePatient,
		DoctorID:     &patient.ID,
	})
	require.ErrorIs(t, err, ErrInvalidDoctor)

	missing := 9999
	err = repo.Create(&entity.User{
		Username:     "newbie",
		PasswordHash: "y",
		Role:         entity.RolePatient,
		DoctorID:     &missing,
	})
	require.ErrorIs(t, err, ErrInvalidDoctor)
}

func TestUserFindByIDMissingIsNil(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	user, err := repo.FindByID(42)
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestUserFindDoctorsAndPatients(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	docA := seedUser(t, db, "alba", entity.RoleDoctor, nil)
	seedUser(t, db, "zoid", entity.RoleDoctor, nil)
	seedUser(t, db, "pat1", entity.RolePatient, &docA.ID)
	seedUser(t, db, "pat2", entity.RolePatient, &docA.ID)

	doctors, err := repo.FindDoctors()
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	require.Equal(t, "alba", doctors[0].Username)

	patients, err := repo.FindPatientsByDoctor(docA.ID)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	for _, p := range patients {
		require.Equal(t, entity.RolePatient, p.Role)
	}
}

func TestUserSavePersistsScoringFields(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, db, "pat", entity.RolePatient, nil)
	user.RiskScore = 73.2
	user.Cluster = 3
	checked := int64(1700000000000)
	user.LastChecked = &checked
	require.NoError(t, repo.Save(user))

	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 73.2, got.RiskScore)
	require.Equal(t, 3, got.Cluster)
	require.NotNil(t, got.LastChecked)
	require.Equal(t, checked, *got.LastChecked)
}
