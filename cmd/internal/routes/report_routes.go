package routes

import (
	"io"
	"net/http"

	"healthgate/cmd/internal/service"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ReportService interface {
	Save(caller *utils.TokenData, filename string, size int64, src io.Reader) (*service.ReportResponse, apierror.ErrorResponse)
	List(caller *utils.TokenData) ([]*service.ReportResponse, apierror.ErrorResponse)
}

type DefaultReportRoute struct {
	ReportService ReportService
}

func NewReportDefault(reportService ReportService) *DefaultReportRoute {
	return &DefaultReportRoute{ReportService: reportService}
}

func (r *DefaultReportRoute) UploadReport(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("file"))
	}

	src, err := header.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}
	defer src.Close()

	report, apierr := r.ReportService.Save(data, header.Filename, header.Size, src)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, report)
}

func (r *DefaultReportRoute) GetReports(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	reports, apierr := r.ReportService.List(data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"reports": reports}
	return c.JSON(http.StatusOK, &resp)
}
