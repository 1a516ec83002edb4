package routes

import (
	"context"
	"net/http"
	"strconv"

	"healthgate/cmd/internal/service"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AssistantService interface {
	Chat(ctx context.Context, req *service.ChatRequest, caller *utils.TokenData) (*service.ChatResponse, apierror.ErrorResponse)
	Recommendation(patientID int, caller *utils.TokenData) (*service.RecommendationResponse, apierror.ErrorResponse)
	Trends(caller *utils.TokenData, days int) (*service.TrendsResponse, apierror.ErrorResponse)
}

type DefaultAssistantRoute struct {
	AssistantService AssistantService
}

func NewAssistantDefault(assistantService AssistantService) *DefaultAssistantRoute {
	return &DefaultAssistantRoute{AssistantService: assistantService}
}

func (a *DefaultAssistantRoute) Chat(c echo.Context) error {
	var req service.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := a.AssistantService.Chat(c.Request().Context(), &req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAssistantRoute) GetRecommendation(c echo.Context) error {
	patientID, err := strconv.Atoi(c.Param("patientId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("patientId", "int"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := a.AssistantService.Recommendation(patientID, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAssistantRoute) GetTrends(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	days := defaultHistoryDays
	if raw := c.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("days", "positive int"))
		}
	}

	resp, apierr := a.AssistantService.Trends(data, days)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
