package service

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/domain/sqlite/repository"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"go.uber.org/zap"
)

type EmergencyRepository interface {
	CreateAndPrioritize(emergency *entity.Emergency, fromDate string) error
	FindPending() ([]*entity.Emergency, error)
	Resolve(id, doctorID int, notes string, resolvedAt int64) error
}

type ResolveEmergencyRequest struct {
	Notes string `json:"notes" validate:"max=1024"`
}

type EmergencyResponse struct {
	ID        int    `json:"id"`
	Patient   string `json:"patient"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

type DefaultEmergencyService struct {
	EmergencyRepo EmergencyRepository
	Logger        *zap.Logger
}

func NewEmergencyService(emergencyRepo EmergencyRepository, logger *zap.Logger) *DefaultEmergencyService {
	return &DefaultEmergencyService{EmergencyRepo: emergencyRepo, Logger: logger}
}

// Trigger raises a Pending alert for the calling patient and promotes
// their upcoming appointments to Priority in the same transaction.
func (e *DefaultEmergencyService) Trigger(caller *utils.TokenData) (*EmergencyResponse, apierror.ErrorResponse) {
	if caller.Role != entity.RolePatient {
		return nil, apierror.PatientAccessRequiredError
	}

	emergency := &entity.Emergency{
		UserID:    caller.UserID,
		Timestamp: utils.NowUTC(),
		Status:    entity.EmergencyPending,
	}

	if err := e.EmergencyRepo.CreateAndPrioritize(emergency, utils.TodayDate()); err != nil {
		e.Logger.Error("failed to raise emergency", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	e.Logger.Info("emergency raised", zap.Int("user_id", caller.UserID), zap.Int("emergency_id", emergency.ID))
	return &EmergencyResponse{
		ID:        emergency.ID,
		Patient:   caller.Username,
		Timestamp: utils.FormatEpoch(emergency.Timestamp),
		Status:    emergency.Status,
	}, nil
}

// ListPending returns the open alerts, oldest first.
func (e *DefaultEmergencyService) ListPending(caller *utils.TokenData) ([]*EmergencyResponse, apierror.ErrorResponse) {
	if caller.Role != entity.RoleDoctor {
		return nil, apierror.DoctorAccessRequiredError
	}

	emergencies, err := e.EmergencyRepo.FindPending()
	if err != nil {
		e.Logger.Error("failed to fetch pending emergencies", zap.Error(err))
		return nil, apierror.InternalServerError
	}

	resp := make([]*EmergencyResponse, len(emergencies))
	for i, em := range emergencies {
		resp[i] = &EmergencyResponse{
			ID:        em.ID,
			Patient:   em.Patient.Username,
			Timestamp: utils.FormatEpoch(em.Timestamp),
			Status:    em.Status,
		}
	}
	return resp, nil
}

// Resolve performs the one-shot Pending to Resolved transition, stamping
// the resolving doctor and notes.
func (e *DefaultEmergencyService) Resolve(id int, req *ResolveEmergencyRequest, caller *utils.TokenData) apierror.ErrorResponse {
	if caller.Role != entity.RoleDoctor {
		return apierror.DoctorAccessRequiredError
	}

	err := e.EmergencyRepo.Resolve(id, caller.UserID, req.Notes, utils.NowUTC())
	switch {
	case errors.Is(err, repository.ErrEmergencyNotPending):
		return apierror.EmergencyNotPendingError
	case err != nil:
		e.Logger.Error("failed to resolve emergency", zap.Int("emergency_id", id), zap.Error(err))
		return apierror.InternalServerError
	}

	e.Logger.Info("emergency resolved", zap.Int("emergency_id", id), zap.Int("doctor_id", caller.UserID))
	return nil
}
