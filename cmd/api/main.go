package main

import (
	"net/http"
	"os"

	"healthgate/cmd/internal/assistant"
	"healthgate/cmd/internal/config"
	"healthgate/cmd/internal/domain/sqlite"
	"healthgate/cmd/internal/domain/sqlite/repository"
	"healthgate/cmd/internal/logger"
	"healthgate/cmd/internal/ml"
	"healthgate/cmd/internal/routes"
	"healthgate/cmd/internal/service"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/validators"
	"healthgate/cmd/internal/vitals"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	validate := validator.New()
	registerValidators(validate)

	utils.ConfigureTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	vitalsRepo := repository.NewVitalsRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	emergencyRepo := repository.NewEmergencyRepository(db)

	// Scoring pipeline; missing artifacts degrade to untrained fallbacks
	anomalyModel := ml.NewAnomalyDetector(cfg.Models.Anomaly, log)
	riskModel := ml.NewRiskPredictor(cfg.Models.Risk, log)
	clusterModel := ml.NewPatientCluster(cfg.Models.Cluster, log)

	simulator := vitals.NewSimulator(cfg.Simulator, anomalyModel, riskModel, vitalsRepo, log)

	completionClient := assistant.NewCompletionClient(cfg.Assistant, log)
	healthAssistant := assistant.New(completionClient, vitalsRepo, log)

	// Services
	userService := service.NewUserService(userRepo, validate, log)
	vitalsService := service.NewVitalsService(simulator, vitalsRepo, userRepo, anomalyModel, riskModel, clusterModel, cfg.Thresholds, log)
	apptService := service.NewAppointmentService(apptRepo, userRepo, validate, log)
	reportService := service.NewReportService(reportRepo, service.UploadConfig{
		Dir:               cfg.Upload.Dir,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxFileSizeBytes:  cfg.Upload.MaxFileSizeMB << 20,
	}, log)
	emergencyService := service.NewEmergencyService(emergencyRepo, log)
	assistantService := service.NewAssistantService(healthAssistant, userRepo, validate, log)

	// Routes
	userRoutes := routes.NewUserDefault(userService)
	vitalsRoutes := routes.NewVitalsDefault(vitalsService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	reportRoutes := routes.NewReportDefault(reportService)
	emergencyRoutes := routes.NewEmergencyDefault(emergencyService)
	assistantRoutes := routes.NewAssistantDefault(assistantService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = apologyErrorHandler(log)

	// Users
	e.POST("/api/users", userRoutes.Register)
	e.POST("/api/users/login", userRoutes.Login)
	e.GET("/api/users/me", userRoutes.GetMe)
	e.GET("/api/users/doctors", userRoutes.GetDoctors)
	e.GET("/api/users/patients", userRoutes.GetPatients)

	// Vitals
	e.GET("/api/vitals/live", vitalsRoutes.GetLive)
	e.GET("/api/vitals/history", vitalsRoutes.GetHistory)
	e.GET("/api/vitals/analysis", vitalsRoutes.GetAnalysis)

	// Appointments
	e.GET("/api/appointments", apptRoutes.GetAppointments)
	e.POST("/api/appointments", apptRoutes.CreateAppointment)
	e.DELETE("/api/appointments/:id", apptRoutes.DeleteAppointment)

	// Reports
	e.POST("/api/reports", reportRoutes.UploadReport)
	e.GET("/api/reports", reportRoutes.GetReports)

	// Emergencies
	e.POST("/api/emergencies", emergencyRoutes.TriggerEmergency)
	e.GET("/api/emergencies", emergencyRoutes.GetEmergencies)
	e.POST("/api/emergencies/:id/resolve", emergencyRoutes.ResolveEmergency)

	// Assistant
	e.POST("/api/assistant/chat", assistantRoutes.Chat)
	e.GET("/api/assistant/recommendations/:patientId", assistantRoutes.GetRecommendation)
	e.GET("/api/assistant/trends", assistantRoutes.GetTrends)

	log.Info("starting server", zap.String("addr", cfg.HTTP.Addr))
	if err := e.Start(cfg.HTTP.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// apologyErrorHandler keeps unexpected faults inside the interaction
// that raised them: they are logged and rendered as a generic apology.
func apologyErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if httpErr, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
			return
		}

		log.Error("unhandled error",
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Sorry, something went wrong while handling your request.",
		})
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	_ = validate.RegisterValidation("dateonly", validators.IsDateOnly)
	_ = validate.RegisterValidation("clocktime", validators.IsClockTime)
}
