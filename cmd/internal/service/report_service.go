package service

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/domain/sqlite/repository"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportRepository interface {
	Create(report *entity.Report) error
	FindByUserID(userID int) ([]*entity.Report, error)
	FindByDoctorID(doctorID int) ([]*entity.Report, error)
}

// UploadConfig is the file-acceptance policy for reports.
type UploadConfig struct {
	Dir               string
	AllowedExtensions []string
	MaxFileSizeBytes  int64
}

type ReportResponse struct {
	ID         int    `json:"id"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at"`
	Patient    string `json:"patient,omitempty"`
}

type DefaultReportService struct {
	ReportRepo ReportRepository
	Upload     UploadConfig
	Logger     *zap.Logger
}

func NewReportService(reportRepo ReportRepository, upload UploadConfig, logger *zap.Logger) *DefaultReportService {
	return &DefaultReportService{ReportRepo: reportRepo, Upload: upload, Logger: logger}
}

// Save stores an uploaded medical document. The display name stays the
// user's filename; on disk the file gets a random name so the path never
// depends on user input. A duplicate (user, filename) is rejected before
// the row lands, and a rejected row cleans up its file.
func (r *DefaultReportService) Save(caller *utils.TokenData, filename string, size int64, src io.Reader) (*ReportResponse, apierror.ErrorResponse) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, apierror.NewMissingParamError("filename")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !r.extensionAllowed(ext) {
		return nil, apierror.UnsupportedFileTypeError
	}
	if size > r.Upload.MaxFileSizeBytes {
		return nil, apierror.FileTooLargeError
	}

	userDir := filepath.Join(r.Upload.Dir, strconv.Itoa(caller.UserID))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		r.Logger.Error("failed to create upload dir", zap.String("dir", userDir), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	storedPath := filepath.Join(userDir, uuid.NewString()+"."+ext)
	dst, err := os.Create(storedPath)
	if err != nil {
		r.Logger.Error("failed to create report file", zap.String("path", storedPath), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	_, err = io.Copy(dst, io.LimitReader(src, r.Upload.MaxFileSizeBytes+1))
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(storedPath)
		r.Logger.Error("failed to write report file", zap.String("path", storedPath), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	report := &entity.Report{
		UserID:     caller.UserID,
		Filename:   filename,
		Filepath:   storedPath,
		UploadedAt: utils.NowUTC(),
	}

	err = r.ReportRepo.Create(report)
	switch {
	case errors.Is(err, repository.ErrDuplicateReport):
		_ = os.Remove(storedPath)
		return nil, apierror.DuplicateReportError
	case err != nil:
		_ = os.Remove(storedPath)
		r.Logger.Error("failed to save report", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	return &ReportResponse{
		ID:         report.ID,
		Filename:   report.Filename,
		UploadedAt: utils.FormatEpoch(report.UploadedAt),
	}, nil
}

// List returns the caller's reports; doctors see every report uploaded
// by their assigned patients.
func (r *DefaultReportService) List(caller *utils.TokenData) ([]*ReportResponse, apierror.ErrorResponse) {
	var reports []*entity.Report
	var err error
	if caller.Role == entity.RoleDoctor {
		reports, err = r.ReportRepo.FindByDoctorID(caller.UserID)
	} else {
		reports, err = r.ReportRepo.FindByUserID(caller.UserID)
	}
	if err != nil {
		r.Logger.Error("failed to fetch reports", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	resp := make([]*ReportResponse, len(reports))
	for i, report := range reports {
		resp[i] = &ReportResponse{
			ID:         report.ID,
			Filename:   report.Filename,
			UploadedAt: utils.FormatEpoch(report.UploadedAt),
		}
		if caller.Role == entity.RoleDoctor {
			resp[i].Patient = report.Owner.Username
		}
	}
	return resp, nil
}

func (r *DefaultReportService) extensionAllowed(ext string) bool {
	for _, allowed := range r.Upload.AllowedExtensions {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
