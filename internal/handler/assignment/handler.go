package assignment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/httputil"

	"github.com/phongkham/clinic-booking-api/internal/service/appointment"
	"github.com/phongkham/clinic-booking-api/internal/service/assignment"
)

type Handler struct {
	resolver     *assignment.Resolver
	appointments *appointment.Service
}

func NewHandler(resolver *assignment.Resolver, appointments *appointment.Service) *Handler {
	return &Handler{resolver: resolver, appointments: appointments}
}

type assignRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
}

// OpenAssignment moves the appointment into the assignable state and
// returns it. The receptionist's candidate picker is expected to follow
// with a candidate load.
func (h *Handler) OpenAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	appt, err := h.resolver.EnsureAssignable(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

// ListCandidates computes the candidate set for a stored appointment.
func (h *Handler) ListCandidates(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	appt, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	candidates, err := h.resolver.LoadCandidates(c.Request.Context(), assignment.TargetFromAppointment(appt))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, candidates)
}

// PreviewCandidates computes candidates for a caller-supplied target. The
// specialty reference accepts a raw id string or an embedded object.
func (h *Handler) PreviewCandidates(c *gin.Context) {
	var target assignment.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid assignment target", err))
		return
	}

	candidates, err := h.resolver.LoadCandidates(c.Request.Context(), target)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, candidates)
}

// AssignDoctor binds the chosen doctor and moves the appointment to
// pending.
func (h *Handler) AssignDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid assignment payload", err))
		return
	}

	assigned, err := h.resolver.Assign(c.Request.Context(), id, req.DoctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, assigned)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("/:id/assignable", h.OpenAssignment)
		appointments.GET("/:id/candidates", h.ListCandidates)
		appointments.POST("/:id/assign", h.AssignDoctor)
	}
	r.POST("/assignment/candidates", h.PreviewCandidates)
}
