package booking

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/httputil"

	"github.com/phongkham/clinic-booking-api/internal/middleware"
	"github.com/phongkham/clinic-booking-api/internal/service/booking"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

type selectSpecialtyRequest struct {
	SpecialtyID uuid.UUID `json:"specialty_id" binding:"required"`
}

type selectDoctorRequest struct {
	DoctorID        *uuid.UUID `json:"doctor_id"`
	AppointmentDate time.Time  `json:"appointment_date" binding:"required"`
	TimeSlot        string     `json:"time_slot" binding:"required,timeslot"`
}

type selectProfileRequest struct {
	HealthProfileID uuid.UUID `json:"health_profile_id" binding:"required"`
}

type confirmRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// StartSession opens a wizard session for the authenticated booker and
// returns it at the choose-specialty step.
func (h *Handler) StartSession(c *gin.Context) {
	user := middleware.CurrentUser(c)
	session, err := h.service.Start(c.Request.Context(), user)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, session)
}

func (h *Handler) GetSession(c *gin.Context) {
	sessionID, appErr := h.sessionID(c)
	if appErr != nil {
		httputil.RespondWithError(c, appErr)
		return
	}

	session, err := h.service.Get(sessionID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) SelectSpecialty(c *gin.Context) {
	sessionID, appErr := h.sessionID(c)
	if appErr != nil {
		httputil.RespondWithError(c, appErr)
		return
	}

	var req selectSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid specialty selection", err))
		return
	}

	session, err := h.service.SelectSpecialty(c.Request.Context(), sessionID, req.SpecialtyID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

// SelectDoctor records the visit date and slot; the doctor id is optional.
// Omitting it books the specialty-only path, leaving doctor assignment to
// the reception desk.
func (h *Handler) SelectDoctor(c *gin.Context) {
	sessionID, appErr := h.sessionID(c)
	if appErr != nil {
		httputil.RespondWithError(c, appErr)
		return
	}

	var req selectDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor selection", err))
		return
	}

	session, err := h.service.SelectDoctor(c.Request.Context(), sessionID, req.DoctorID, req.AppointmentDate, req.TimeSlot)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) SelectHealthProfile(c *gin.Context) {
	sessionID, appErr := h.sessionID(c)
	if appErr != nil {
		httputil.RespondWithError(c, appErr)
		return
	}

	var req selectProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid profile selection", err))
		return
	}

	session, err := h.service.SelectHealthProfile(c.Request.Context(), sessionID, req.HealthProfileID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) GoBack(c *gin.Context) {
	sessionID, appErr := h.sessionID(c)
	if appErr != nil {
		httputil.RespondWithError(c, appErr)
		return
	}

	session, err := h.service.GoBack(sessionID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) Confirm(c *gin.Context) {
	sessionID, appErr := h.sessionID(c)
	if appErr != nil {
		httputil.RespondWithError(c, appErr)
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid confirmation payload", err))
		return
	}

	session, err := h.service.ConfirmAndSubmit(c.Request.Context(), sessionID, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, *apperrors.AppError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid session ID", err)
	}
	return id, nil
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.StartSession)
		bookings.GET("/:id", h.GetSession)
		bookings.POST("/:id/specialty", h.SelectSpecialty)
		bookings.POST("/:id/doctor", h.SelectDoctor)
		bookings.POST("/:id/profile", h.SelectHealthProfile)
		bookings.POST("/:id/back", h.GoBack)
		bookings.POST("/:id/confirm", h.Confirm)
	}
}
