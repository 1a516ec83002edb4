package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/domain/sqlite"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string, doctorID *int) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		Age:          40,
		BMI:          25,
		DoctorID:     doctorID,
	}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}
