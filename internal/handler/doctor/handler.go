package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/httputil"

	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/service/doctor"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	doctor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	specialtyID, err := uuid.Parse(c.Query("specialty_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid specialty ID", err))
		return
	}

	doctors, err := h.service.ListBySpecialty(c.Request.Context(), specialtyID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor payload", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	var schedule []model.ScheduleEntry
	if err := c.ShouldBindJSON(&schedule); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule payload", err))
		return
	}

	if err := h.service.UpdateWeeklySchedule(c.Request.Context(), id, schedule); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"doctor_id": id})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
	}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.PUT("/:id/schedule", h.UpdateSchedule)
	}
}
