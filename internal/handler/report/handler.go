package report

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medibook/hospital-api/internal/middleware"
	reportsvc "github.com/medibook/hospital-api/internal/service/report"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
	"github.com/medibook/hospital-api/pkg/httputil"
)

const dateLayout = "2006-01-02"

type Handler struct {
	reports *reportsvc.Service
}

func NewHandler(reports *reportsvc.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reports", h.Generate)
}

// Generate builds the activity report for the authenticated doctor over
// ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) Generate(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid from date, expected YYYY-MM-DD", err))
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid to date, expected YYYY-MM-DD", err))
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), identity.ID, from, to)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}
