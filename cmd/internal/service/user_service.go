package service

import (
	"errors"

	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/domain/sqlite/repository"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	FindDoctors() ([]*entity.User, error)
	FindPatientsByDoctor(doctorID int) ([]*entity.User, error)
	Create(user *entity.User) error
	Save(user *entity.User) error
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=2,max=80,nospaces"`
	Password string  `json:"password" validate:"required,min=8,max=64,hasupper,haslower,hasdigit"`
	Role     string  `json:"role" validate:"required,oneof=patient doctor"`
	Age      int     `json:"age" validate:"required,min=1,max=120"`
	BMI      float64 `json:"bmi" validate:"required,min=10,max=50"`
	DoctorID *int    `json:"doctor_id"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	Age       int     `json:"age"`
	BMI       float64 `json:"bmi"`
	RiskScore float64 `json:"risk_score"`
	Cluster   int     `json:"cluster"`
	DoctorID  *int    `json:"doctor_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type DoctorResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type PatientResponse struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Age       int     `json:"age"`
	BMI       float64 `json:"bmi"`
	RiskScore float64 `json:"risk_score"`
	Cluster   int     `json:"cluster"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, logger *zap.Logger) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Logger: logger}
}

// Register creates a local account. Patients must choose an existing
// doctor; the username and doctor-role invariants are enforced inside
// the repository transaction.
func (u *DefaultUserService) Register(req *RegisterRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if req.Role == entity.RolePatient && req.DoctorID == nil {
		return apierror.NoDoctorsAvailableError
	}
	if req.Role == entity.RoleDoctor {
		req.DoctorID = nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.Logger.Error("failed to hash password", zap.Error(err))
		return apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Age:          req.Age,
		BMI:          req.BMI,
		DoctorID:     req.DoctorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.UserRepo.Create(user)
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return apierror.UserAlreadyExistsError
	case errors.Is(err, repository.ErrInvalidDoctor):
		return apierror.InvalidDoctorError
	case err != nil:
		u.Logger.Error("failed to create user", zap.String("username", req.Username), zap.Error(err))
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Login(req *LoginRequest) (*LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByUsername(req.Username)
	if err != nil {
		u.Logger.Error("failed to fetch user", zap.String("username", req.Username), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.CredentialsMismatchError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.CredentialsMismatchError
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		u.Logger.Error("failed to issue token", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	return &LoginResponse{AccessToken: token, User: toUserResponse(user)}, nil
}

func (u *DefaultUserService) GetProfile(userID int) (*UserResponse, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(userID)
	if err != nil {
		u.Logger.Error("failed to fetch user", zap.Int("user_id", userID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// GetDoctors backs the registration picker; it needs no auth.
func (u *DefaultUserService) GetDoctors() ([]*DoctorResponse, apierror.ErrorResponse) {
	doctors, err := u.UserRepo.FindDoctors()
	if err != nil {
		u.Logger.Error("failed to fetch doctors", zap.Error(err))
		return nil, apierror.InternalServerError
	}

	resp := make([]*DoctorResponse, len(doctors))
	for i, d := range doctors {
		resp[i] = &DoctorResponse{ID: d.ID, Username: d.Username}
	}
	return resp, nil
}

func (u *DefaultUserService) GetPatients(caller *utils.TokenData) ([]*PatientResponse, apierror.ErrorResponse) {
	if caller.Role != entity.RoleDoctor {
		return nil, apierror.DoctorAccessRequiredError
	}

	patients, err := u.UserRepo.FindPatientsByDoctor(caller.UserID)
	if err != nil {
		u.Logger.Error("failed to fetch patients", zap.Int("doctor_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	resp := make([]*PatientResponse, len(patients))
	for i, p := range patients {
		resp[i] = &PatientResponse{
			ID:        p.ID,
			Username:  p.Username,
			Age:       p.Age,
			BMI:       p.BMI,
			RiskScore: p.RiskScore,
			Cluster:   p.Cluster,
		}
	}
	return resp, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Age:       user.Age,
		BMI:       user.BMI,
		RiskScore: user.RiskScore,
		Cluster:   user.Cluster,
		DoctorID:  user.DoctorID,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
	}
}
