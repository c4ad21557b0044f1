package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/middleware"
	"github.com/medibook/hospital-api/internal/model"
	appointmentsvc "github.com/medibook/hospital-api/internal/service/appointment"
	authsvc "github.com/medibook/hospital-api/internal/service/auth"
	patientsvc "github.com/medibook/hospital-api/internal/service/patient"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
	"github.com/medibook/hospital-api/pkg/httputil"
)

type Handler struct {
	patients     *patientsvc.Service
	appointments *appointmentsvc.Service
	auth         *authsvc.Service
}

func NewHandler(patients *patientsvc.Service, appointments *appointmentsvc.Service,
	auth *authsvc.Service) *Handler {
	return &Handler{
		patients:     patients,
		appointments: appointments,
		auth:         auth,
	}
}

// RegisterPublicRoutes mounts the unauthenticated password reset pair.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("/request-reset", h.RequestReset)
		patients.POST("/reset-password", h.ResetPassword)
	}
}

// RegisterRoutes mounts the patient-only endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("/profile", h.GetProfile)
		patients.PUT("/profile", h.UpdateProfile)

		patients.POST("/appointments", h.BookAppointment)
		patients.GET("/appointments", h.ListAppointments)
		patients.PUT("/appointments/:id/cancel", h.CancelAppointment)
		patients.POST("/payments/verify", h.VerifyPayment)
		patients.GET("/bills/:appointmentId", h.GetBill)

		patients.PUT("/change-password", h.ChangePassword)
		patients.POST("/logout-all", h.LogoutAll)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	patient, err := h.patients.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	patient, err := h.patients.UpdateProfile(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	appointment, err := h.appointments.Book(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	appointments, err := h.appointments.ListForPatient(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment id", err))
		return
	}

	appointment, err := h.appointments.Cancel(c.Request.Context(), identity.ID, appointmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	appointment, err := h.appointments.VerifyPayment(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) GetBill(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment id", err))
		return
	}

	bill, err := h.appointments.GenerateBill(c.Request.Context(), identity.ID, appointmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bill)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	token, err := h.auth.ChangePatientPassword(c.Request.Context(), identity.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"token": token})
}

func (h *Handler) LogoutAll(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	if err := h.auth.LogoutAllPatient(c.Request.Context(), identity.ID); err != nil {
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

	if err := h.auth.RequestPatientReset(c.Request.Context(), req.Email); err != nil {
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

	token, err := h.auth.ResolvePatientReset(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"token": token})
}
