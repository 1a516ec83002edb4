package routes

import (
	"net/http"
	"strconv"

	"healthgate/cmd/internal/service"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type EmergencyService interface {
	Trigger(caller *utils.TokenData) (*service.EmergencyResponse, apierror.ErrorResponse)
	ListPending(caller *utils.TokenData) ([]*service.EmergencyResponse, apierror.ErrorResponse)
	Resolve(id int, req *service.ResolveEmergencyRequest, caller *utils.TokenData) apierror.ErrorResponse
}

type DefaultEmergencyRoute struct {
	EmergencyService EmergencyService
}

func NewEmergencyDefault(emergencyService EmergencyService) *DefaultEmergencyRoute {
	return &DefaultEmergencyRoute{EmergencyService: emergencyService}
}

func (e *DefaultEmergencyRoute) TriggerEmergency(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	emergency, apierr := e.EmergencyService.Trigger(data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, emergency)
}

func (e *DefaultEmergencyRoute) GetEmergencies(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	emergencies, apierr := e.EmergencyService.ListPending(data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"emergencies": emergencies}
	return c.JSON(http.StatusOK, &resp)
}

func (e *DefaultEmergencyRoute) ResolveEmergency(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	var req service.ResolveEmergencyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	apierr := e.EmergencyService.Resolve(id, &req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
