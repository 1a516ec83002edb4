package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"healthgate/cmd/internal/domain/entity"
)

func TestEmergencyLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewEmergencyRepository(db)

	doc := seedUser(t, db, "doc", entity.RoleDoctor, nil)
	pat := seedUser(t, db, "pat", entity.RolePatient, &doc.ID)

	emergency := &entity.Emergency{UserID: pat.ID, Timestamp: 100, Status: entity.EmergencyPending}
	require.NoError(t, repo.CreateAndPrioritize(emergency, "2026-08-29"))

	pending, err := repo.FindPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "pat", pending[0].Patient.Username)

	require.NoError(t, repo.Resolve(emergency.ID, doc.ID, "stabilized", 200))

	resolved, err := repo.FindByID(emergency.ID)
	require.NoError(t, err)
	require.Equal(t, entity.EmergencyResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	require.Equal(t, doc.ID, *resolved.ResolvedBy)
	require.Equal(t, "stabilized", resolved.Notes)

	pending, err = repo.FindPending()
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestEmergencyDoubleResolveFails(t *testing.T) {
	db := testDB(t)
	repo := NewEmergencyRepository(db)

	doc := seedUser(t, db, "doc", entity.RoleDoctor, nil)
	pat := seedUser(t, db, "pat", entity.RolePatient, &doc.ID)

	emergency := &entity.Emergency{UserID: pat.ID, Timestamp: 100, Status: entity.EmergencyPending}
	require.NoError(t, repo.CreateAndPrioritize(emergency, "2026-08-29"))

	require.NoError(t, repo.Resolve(emergency.ID, doc.ID, "done", 200))
	require.ErrorIs(t, repo.Resolve(emergency.ID, doc.ID, "again", 300), ErrEmergencyNotPending)

	got, err := repo.FindByID(emergency.ID)
	require.NoError(t, err)
	require.Equal(t, "done", got.Notes)
}

func TestEmergencyResolveMissingFails(t *testing.T) {
	repo := NewEmergencyRepository(testDB(t))
	require.ErrorIs(t, repo.Resolve(12345, 1, "", 0), ErrEmergencyNotPending)
}

func TestEmergencyPromotesUpcomingAppointments(t *testing.T) {
	db := testDB(t)
	repo := NewEmergencyRepository(db)
	appts := NewAppointmentRepository(db)

	doc := seedUser(t, db, "doc", entity.RoleDoctor, nil)
	pat := seedUser(t, db, "pat", entity.RolePatient, &doc.ID)

	past := &entity.Appointment{UserID: pat.ID, DoctorID: doc.ID, Date: "2026-08-01", Time: "09:00", Status: entity.AppointmentScheduled}
	upcoming := &entity.Appointment{UserID: pat.ID, DoctorID: doc.ID, Date: "2026-09-10", Time: "10:00", Status: entity.AppointmentScheduled}
	require.NoError(t, appts.Save(past))
	require.NoError(t, appts.Save(upcoming))

	emergency := &entity.Emergency{UserID: pat.ID, Timestamp: 100, Status: entity.EmergencyPending}
	require.NoError(t, repo.CreateAndPrioritize(emergency, "2026-08-29"))

	got, err := appts.FindByID(upcoming.ID)
	require.NoError(t, err)
	require.Equal(t, entity.AppointmentPriority, got.Status)

	got, err = appts.FindByID(past.ID)
	require.NoError(t, err)
	require.Equal(t, entity.AppointmentScheduled, got.Status)
}
