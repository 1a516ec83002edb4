package service

import (
	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type AppointmentRepository interface {
	FindByID(id int) (*entity.Appointment, error)
	FindByUserID(id int) ([]*entity.Appointment, error)
	FindByDoctorID(id int) ([]*entity.Appointment, error)
	Save(appointment *entity.Appointment) error
	Delete(appointment *entity.Appointment) error
}

type BookAppointmentRequest struct {
	DoctorID int    `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required,dateonly"`
	Time     string `json:"time" validate:"required,clocktime"`
}

type AppointmentResponse struct {
	ID      int    `json:"id"`
	Patient string `json:"patient"`
	Doctor  string `json:"doctor"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Status  string `json:"status"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
	Logger          *zap.Logger
}

func NewAppointmentService(apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate, logger *zap.Logger) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, UserRepo: userRepo, Validate: validate, Logger: logger}
}

// Book schedules a patient with one of the registered doctors.
func (a *DefaultAppointmentService) Book(req *BookAppointmentRequest, caller *utils.TokenData) (*AppointmentResponse, apierror.ErrorResponse) {
	if caller.Role != entity.RolePatient {
		return nil, apierror.PatientAccessRequiredError
	}

	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	doctor, err := a.UserRepo.FindByID(req.DoctorID)
	if err != nil {
		a.Logger.Error("failed to fetch doctor", zap.Int("doctor_id", req.DoctorID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	if doctor == nil || doctor.Role != entity.RoleDoctor {
		return nil, apierror.InvalidDoctorError
	}

	now := utils.NowUTC()
	appt := &entity.Appointment{
		UserID:    caller.UserID,
		DoctorID:  doctor.ID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    entity.AppointmentScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.AppointmentRepo.Save(appt); err != nil {
		a.Logger.Error("failed to save appointment", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	return &AppointmentResponse{
		ID:      appt.ID,
		Patient: caller.Username,
		Doctor:  doctor.Username,
		Date:    appt.Date,
		Time:    appt.Time,
		Status:  appt.Status,
	}, nil
}

// List returns the caller's appointments: a patient sees their bookings,
// a doctor their schedule.
func (a *DefaultAppointmentService) List(caller *utils.TokenData) ([]*AppointmentResponse, apierror.ErrorResponse) {
	var appts []*entity.Appointment
	var err error
	if caller.Role == entity.RoleDoctor {
		appts, err = a.AppointmentRepo.FindByDoctorID(caller.UserID)
	} else {
		appts, err = a.AppointmentRepo.FindByUserID(caller.UserID)
	}
	if err != nil {
		a.Logger.Error("failed to fetch appointments", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	resp := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		resp[i] = toAppointmentResponse(appt)
	}
	return resp, nil
}

// Cancel hard-deletes an appointment. Only the booking patient or the
// doctor it is booked with may cancel.
func (a *DefaultAppointmentService) Cancel(id int, caller *utils.TokenData) apierror.ErrorResponse {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		a.Logger.Error("failed to fetch appointment", zap.Int("appointment_id", id), zap.Error(err))
		return apierror.InternalServerError
	}
	if appt == nil {
		return apierror.AppointmentUnavailableError
	}

	if appt.UserID != caller.UserID && appt.DoctorID != caller.UserID {
		return apierror.AppointmentNotYoursError
	}

	if err := a.AppointmentRepo.Delete(appt); err != nil {
		a.Logger.Error("failed to delete appointment", zap.Int("appointment_id", id), zap.Error(err))
		return apierror.InternalServerError
	}
	return nil
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:      appt.ID,
		Patient: appt.Patient.Username,
		Doctor:  appt.Doctor.Username,
		Date:    appt.Date,
		Time:    appt.Time,
		Status:  appt.Status,
	}
}
