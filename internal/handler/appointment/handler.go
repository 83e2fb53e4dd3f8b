package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/httputil"

	"github.com/phongkham/clinic-booking-api/internal/middleware"
	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/service/appointment"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAppointment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.service.AuthorizeView(c.Request.Context(), user, appt); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

// ListAppointments scopes the listing by role: patients see their own
// bookings, doctors their own schedule, staff see everything the filters
// select.
func (h *Handler) ListAppointments(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated(nil))
		return
	}

	if user.Role == model.RoleDoctor {
		appointments, err := h.service.ListForDoctorAccount(c.Request.Context(), user.AccountID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, appointments)
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if user.Role == model.RolePatient {
		filters.BookerID = user.AccountID
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid cancel payload", err))
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.service.AuthorizeView(c.Request.Context(), user, appt); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cancelled)
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	confirmed, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, confirmed)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	completed, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, completed)
}

func parseFilters(c *gin.Context) (*model.AppointmentFilters, error) {
	filters := &model.AppointmentFilters{}

	if raw := c.Query("status"); raw != "" {
		status := model.AppointmentStatus(raw)
		if !status.Valid() {
			return nil, apperrors.BadRequest("invalid status filter", nil)
		}
		filters.Status = status
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperrors.BadRequest("invalid start_date, expected YYYY-MM-DD", err)
		}
		filters.StartDate = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperrors.BadRequest("invalid end_date, expected YYYY-MM-DD", err)
		}
		filters.EndDate = t
	}
	return filters, nil
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}

func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("/:id/confirm", h.ConfirmAppointment)
		appointments.POST("/:id/complete", h.CompleteAppointment)
	}
}
