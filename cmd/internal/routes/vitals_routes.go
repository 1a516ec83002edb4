package routes

import (
	"net/http"
	"strconv"

	"healthgate/cmd/internal/service"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

const defaultHistoryDays = 7

type VitalsService interface {
	Live(caller *utils.TokenData) (*service.LiveVitalsResponse, apierror.ErrorResponse)
	History(caller *utils.TokenData, days int) (*service.HistoryResponse, apierror.ErrorResponse)
	Analyze(caller *utils.TokenData) (*service.AnalysisResponse, apierror.ErrorResponse)
}

type DefaultVitalsRoute struct {
	VitalsService VitalsService
}

func NewVitalsDefault(vitalsService VitalsService) *DefaultVitalsRoute {
	return &DefaultVitalsRoute{VitalsService: vitalsService}
}

func (v *DefaultVitalsRoute) GetLive(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	live, apierr := v.VitalsService.Live(data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, live)
}

func (v *DefaultVitalsRoute) GetHistory(c echo.Context) error {
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

	history, apierr := v.VitalsService.History(data, days)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, history)
}

func (v *DefaultVitalsRoute) GetAnalysis(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	analysis, apierr := v.VitalsService.Analyze(data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, analysis)
}
