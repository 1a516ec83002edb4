package service

import (
	"context"
	"time"

	"healthgate/cmd/internal/assistant"
	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// HealthAssistant is the conversational layer the service fronts.
type HealthAssistant interface {
	Chat(ctx context.Context, userID int, prompt string, mode int) string
	Recommendation(patient *entity.User) string
	AnalyzeTrends(userID int, since int64) ([]assistant.MetricTrend, error)
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4096"`
	Mode    int    `json:"mode"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}

type TrendsResponse struct {
	Trends []assistant.MetricTrend `json:"trends"`
}

type DefaultAssistantService struct {
	Assistant HealthAssistant
	UserRepo  UserRepository
	Validate  *validator.Validate
	Logger    *zap.Logger
}

func NewAssistantService(healthAssistant HealthAssistant, userRepo UserRepository, validate *validator.Validate, logger *zap.Logger) *DefaultAssistantService {
	return &DefaultAssistantService{Assistant: healthAssistant, UserRepo: userRepo, Validate: validate, Logger: logger}
}

// Chat forwards the message under the selected conversation mode. The
// assistant never fails the caller: degraded text comes back as a normal
// reply.
func (a *DefaultAssistantService) Chat(ctx context.Context, req *ChatRequest, caller *utils.TokenData) (*ChatResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	reply := a.Assistant.Chat(ctx, caller.UserID, req.Message, req.Mode)
	return &ChatResponse{Reply: reply}, nil
}

// Recommendation builds a treatment suggestion for one of the calling
// doctor's patients.
func (a *DefaultAssistantService) Recommendation(patientID int, caller *utils.TokenData) (*RecommendationResponse, apierror.ErrorResponse) {
	if caller.Role != entity.RoleDoctor {
		return nil, apierror.DoctorAccessRequiredError
	}

	patient, err := a.UserRepo.FindByID(patientID)
	if err != nil {
		a.Logger.Error("failed to fetch patient", zap.Int("patient_id", patientID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	if patient == nil {
		return nil, apierror.NotFoundError
	}
	if patient.DoctorID == nil || *patient.DoctorID != caller.UserID {
		return nil, apierror.ForbiddenError
	}

	return &RecommendationResponse{Recommendation: a.Assistant.Recommendation(patient)}, nil
}

// Trends aggregates the caller's persisted vitals over the trailing days.
func (a *DefaultAssistantService) Trends(caller *utils.TokenData, days int) (*TrendsResponse, apierror.ErrorResponse) {
	since := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	trends, err := a.Assistant.AnalyzeTrends(caller.UserID, since)
	if err != nil {
		a.Logger.Error("trend analysis failed", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	return &TrendsResponse{Trends: trends}, nil
}
