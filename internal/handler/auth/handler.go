package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/medibook/hospital-api/internal/model"
	authsvc "github.com/medibook/hospital-api/internal/service/auth"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
	"github.com/medibook/hospital-api/pkg/httputil"
)

type Handler struct {
	service *authsvc.Service
}

func NewHandler(service *authsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register/doctor", h.RegisterDoctor)
		auth.POST("/register/patient", h.RegisterPatient)
		auth.POST("/login/doctor", h.LoginDoctor)
		auth.POST("/login/patient", h.LoginPatient)
	}
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req model.RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	resp, err := h.service.RegisterDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, resp)
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	resp, err := h.service.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, resp)
}

func (h *Handler) LoginDoctor(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	resp, err := h.service.LoginDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) LoginPatient(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	resp, err := h.service.LoginPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}
