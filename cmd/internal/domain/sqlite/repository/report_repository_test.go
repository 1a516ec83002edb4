package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"healthgate/cmd/internal/domain/entity"
)

func TestReportDuplicateLeavesSingleRow(t *testing.T) {
	db := testDB(t)
	repo := NewReportRepository(db)
	owner := seedUser(t, db, "pat", entity.RolePatient, nil)

	first := &entity.Report{UserID: owner.ID, Filename: "labs.pdf", Filepath: "/r/1.pdf", UploadedAt: 1}
	require.NoError(t, repo.Create(first))

	second := &entity.Report{UserID: owner.ID, Filename: "labs.pdf", Filepath: "/r/2.pdf", UploadedAt: 2}
	require.ErrorIs(t, repo.Create(second), ErrDuplicateReport)

	rows, err := repo.FindByUserID(owner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "/r/1.pdf", rows[0].Filepath)
}

func TestReportSameFilenameDifferentOwners(t *testing.T) {
	db := testDB(t)
	repo := NewReportRepository(db)
	a := seedUser(t, db, "pata", entity.RolePatient, nil)
	b := seedUser(t, db, "patb", entity.RolePatient, nil)

	require.NoError(t, repo.Create(&entity.Report{UserID: a.ID, Filename: "labs.pdf", Filepath: "/a", UploadedAt: 1}))
	require.NoError(t, repo.Create(&entity.Report{UserID: b.ID, Filename: "labs.pdf", Filepath: "/b", UploadedAt: 1}))

	exists, err := repo.Exists(a.ID, "labs.pdf")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.Exists(a.ID, "other.pdf")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestReportFindByDoctorCoversAssignedPatientsOnly(t *testing.T) {
	db := testDB(t)
	repo := NewReportRepository(db)

	doc := seedUser(t, db, "doc", entity.RoleDoctor, nil)
	mine := seedUser(t, db, "mine", entity.RolePatient, &doc.ID)
	other := seedUser(t, db, "other", entity.RolePatient, nil)

	require.NoError(t, repo.Create(&entity.Report{UserID: mine.ID, Filename: "a.pdf", Filepath: "/a", UploadedAt: 1}))
	require.NoError(t, repo.Create(&entity.Report{UserID: other.ID, Filename: "b.pdf", Filepath: "/b", UploadedAt: 1}))

	rows, err := repo.FindByDoctorID(doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "a.pdf", rows[0].Filename)
	require.Equal(t, "mine", rows[0].Owner.Username)
}
