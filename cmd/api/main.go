package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medibook/hospital-api/config"
	"github.com/medibook/hospital-api/internal/email"
	authHandler "github.com/medibook/hospital-api/internal/handler/auth"
	doctorHandler "github.com/medibook/hospital-api/internal/handler/doctor"
	patientHandler "github.com/medibook/hospital-api/internal/handler/patient"
	reportHandler "github.com/medibook/hospital-api/internal/handler/report"
	"github.com/medibook/hospital-api/internal/middleware"
	"github.com/medibook/hospital-api/internal/repository/postgres"
	"github.com/medibook/hospital-api/internal/router"
	appointmentService "github.com/medibook/hospital-api/internal/service/appointment"
	authService "github.com/medibook/hospital-api/internal/service/auth"
	doctorService "github.com/medibook/hospital-api/internal/service/doctor"
	patientService "github.com/medibook/hospital-api/internal/service/patient"
	referralService "github.com/medibook/hospital-api/internal/service/referral"
	reportService "github.com/medibook/hospital-api/internal/service/report"
	"github.com/medibook/hospital-api/pkg/auth"
	"github.com/medibook/hospital-api/pkg/metrics"
	"github.com/medibook/hospital-api/pkg/payment"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	referralRepo := postgres.NewReferralRepository(db)

	tokens := auth.NewJWTIssuer(cfg.JWT.Secret)

	var gateway payment.Gateway
	if cfg.Gateway.Configured() {
		gateway = payment.NewRazorpayGateway(cfg.Gateway.KeyID, cfg.Gateway.KeySecret)
	} else {
		log.Warn().Msg("payment gateway credentials absent, using sandbox gateway")
		gateway = payment.NewSandboxGateway("")
	}

	var emailSvc email.Service
	if cfg.SMTP.Configured() {
		emailSvc = email.NewSMTPService(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP not configured, reset codes will not be delivered")
		emailSvc = email.NewNoopService()
	}

	m := metrics.NewMetrics("hospital_api")

	authSvc := authService.NewService(doctorRepo, patientRepo, tokens, emailSvc)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo, patientRepo)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, patientRepo,
		gateway, cfg.Gateway.Currency, m)
	referralSvc := referralService.NewService(referralRepo, doctorRepo, patientRepo)
	reportSvc := reportService.NewService(appointmentRepo, referralRepo)

	authMiddleware := middleware.NewAuthMiddleware(tokens, doctorRepo, patientRepo)
	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	authH := authHandler.NewHandler(authSvc)
	doctorH := doctorHandler.NewHandler(doctorSvc, appointmentSvc, referralSvc, authSvc)
	patientH := patientHandler.NewHandler(patientSvc, appointmentSvc, authSvc)
	reportH := reportHandler.NewHandler(reportSvc)

	r := router.NewRouter(authMiddleware, authH, doctorH, patientH, reportH, m, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RPS),
		RateBurst:        cfg.RateLimit.Burst,
		CORS:             middleware.DefaultCORSConfig(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
