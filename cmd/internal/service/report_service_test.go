package service

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/domain/sqlite"
	"healthgate/cmd/internal/domain/sqlite/repository"
	"healthgate/cmd/internal/utils"
)

func testReportService(t *testing.T) (*DefaultReportService, *gorm.DB) {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	svc := NewReportService(repository.NewReportRepository(db), UploadConfig{
		Dir:               t.TempDir(),
		AllowedExtensions: []string{"pdf", "png", "csv"},
		MaxFileSizeBytes:  1024,
	}, zap.NewNop())
	return svc, db
}

func TestReportSaveAndList(t *testing.T) {
	svc, db := testReportService(t)
	pat := seedAccount(t, db, "pat", entity.RolePatient)
	caller := &utils.TokenData{UserID: pat.ID, Role: entity.RolePatient}

	resp, apierr := svc.Save(caller, "labs.pdf", 9, strings.NewReader("pdf bytes"))
	require.Nil(t, apierr)
	require.Equal(t, "labs.pdf", resp.Filename)

	list, apierr := svc.List(caller)
	require.Nil(t, apierr)
	require.Len(t, list, 1)
}

func TestReportSaveStoresUnderRandomName(t *testing.T) {
	svc, db := testReportService(t)
	pat := seedAccount(t, db, "pat", entity.RolePatient)
	caller := &utils.TokenData{UserID: pat.ID, Role: entity.RolePatient}

	_, apierr := svc.Save(caller, "../../etc/passwd.pdf", 4, strings.NewReader("data"))
	require.Nil(t, apierr)

	entries, err := os.ReadDir(filepath.Join(svc.Upload.Dir, "1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotEqual(t, "passwd.pdf", entries[0].Name())
	require.True(t, strings.HasSuffix(entries[0].Name(), ".pdf"))
}

func TestReportSaveRejectsDisallowedExtension(t *testing.T) {
	svc, db := testReportService(t)
	pat := seedAccount(t, db, "pat", entity.RolePatient)

	_, apierr := svc.Save(&utils.TokenData{UserID: pat.ID}, "script.exe", 4, strings.NewReader("data"))
	require.NotNil(t, apierr)
	require.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestReportSaveRejectsOversizedFile(t *testing.T) {
	svc, db := testReportService(t)
	pat := seedAccount(t, db, "pat", entity.RolePatient)

	_, apierr := svc.Save(&utils.TokenData{UserID: pat.ID}, "big.pdf", 2048, strings.NewReader("x"))
	require.NotNil(t, apierr)
	require.Equal(t, http.StatusRequestEntityTooLarge, apierr.Code())
}

func TestReportDuplicateCleansUpFile(t *testing.T) {
	svc, db := testReportService(t)
	pat := seedAccount(t, db, "pat", entity.RolePatient)
	caller := &utils.TokenData{UserID: pat.ID, Role: entity.RolePatient}

	_, apierr := svc.Save(caller, "labs.pdf", 4, strings.NewReader("data"))
	require.Nil(t, apierr)

	_, apierr = svc.Save(caller, "labs.pdf", 4, strings.NewReader("data"))
	require.NotNil(t, apierr)
	require.Equal(t, http.StatusConflict, apierr.Code())

	entries, err := os.ReadDir(filepath.Join(svc.Upload.Dir, "1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReportListForDoctorNamesPatients(t *testing.T) {
	svc, db := testReportService(t)
	doc := seedAccount(t, db, "doc", entity.RoleDoctor)

	patient := &entity.User{Username: "pat", PasswordHash: "x", Role: entity.RolePatient, Age: 40, BMI: 25, DoctorID: &doc.ID}
	require.NoError(t, repository.NewUserRepository(db).Create(patient))

	_, apierr := svc.Save(&utils.TokenData{UserID: patient.ID, Role: entity.RolePatient}, "labs.pdf", 4, strings.NewReader("data"))
	require.Nil(t, apierr)

	list, apierr := svc.List(&utils.TokenData{UserID: doc.ID, Role: entity.RoleDoctor})
	require.Nil(t, apierr)
	require.Len(t, list, 1)
	require.Equal(t, "pat", list[0].Patient)
}
