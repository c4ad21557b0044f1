package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/middleware"
	"github.com/medibook/hospital-api/internal/model"
	appointmentsvc "github.com/medibook/hospital-api/internal/service/appointment"
	authsvc "github.com/medibook/hospital-api/internal/service/auth"
	doctorsvc "github.com/medibook/hospital-api/internal/service/doctor"
	referralsvc "github.com/medibook/hospital-api/internal/service/referral"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
	"github.com/medibook/hospital-api/pkg/httputil"
)

type Handler struct {
	doctors      *doctorsvc.Service
	appointments *appointmentsvc.Service
	referrals    *referralsvc.Service
	auth         *authsvc.Service
}

func NewHandler(doctors *doctorsvc.Service, appointments *appointmentsvc.Service,
	referrals *referralsvc.Service, auth *authsvc.Service) *Handler {
	return &Handler{
		doctors:      doctors,
		appointments: appointments,
		referrals:    referrals,
		auth:         auth,
	}
}

// RegisterPublicRoutes mounts the unauthenticated doctor endpoints: the
// directory and the password reset pair.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDirectory)
		doctors.GET("/department/:department", h.ListByDepartment)
		doctors.POST("/request-reset", h.RequestReset)
		doctors.POST("/reset-password", h.ResetPassword)
	}
}

// RegisterRoutes mounts the doctor-only endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("/profile", h.GetProfile)
		doctors.PUT("/profile", h.UpdateProfile)

		doctors.GET("/appointments", h.ListAppointments)
		doctors.PUT("/appointments/status", h.UpdateAppointmentStatus)
		doctors.POST("/appointments/prescription", h.AddPrescription)

		doctors.GET("/patients", h.ListPatients)

		doctors.POST("/referrals", h.CreateReferral)
		doctors.GET("/referrals/sent", h.ListReferralsSent)
		doctors.GET("/referrals/received", h.ListReferralsReceived)
		doctors.PUT("/referrals/:id/:action", h.ResolveReferral)

		doctors.PUT("/change-password", h.ChangePassword)
		doctors.POST("/logout-all", h.LogoutAll)
	}
}

func (h *Handler) ListDirectory(c *gin.Context) {
	doctors, err := h.doctors.ListApproved(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	doctors, err := h.doctors.ListByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) GetProfile(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	doctor, err := h.doctors.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	doctor, err := h.doctors.UpdateProfile(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	appointments, err := h.appointments.ListForDoctor(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	appointment, err := h.appointments.UpdateStatus(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) AddPrescription(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.AddPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	appointment, err := h.appointments.AddPrescription(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ListPatients(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	patients, err := h.doctors.PatientsSeen(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) CreateReferral(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	referral, err := h.referrals.Create(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, referral)
}

func (h *Handler) ListReferralsSent(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	referrals, err := h.referrals.ListSent(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, referrals)
}

func (h *Handler) ListReferralsReceived(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	referrals, err := h.referrals.ListReceived(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, referrals)
}

func (h *Handler) ResolveReferral(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	referralID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid referral id", err))
		return
	}

	referral, err := h.referrals.Resolve(c.Request.Context(), identity.ID, referralID, c.Param("action"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, referral)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	token, err := h.auth.ChangeDoctorPassword(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"token": token})
}

func (h *Handler) LogoutAll(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	if err := h.auth.LogoutAllDoctor(c.Request.Context(), identity.ID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "logged out everywhere")
}

func (h *Handler) RequestReset(c *gin.Context) {
	var req model.RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	if err := h.auth.RequestDoctorReset(c.Request.Context(), req.Email); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "reset code sent")
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResolveResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	token, err := h.auth.ResolveDoctorReset(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"token": token})
}
