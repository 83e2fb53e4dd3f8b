package healthprofile

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/httputil"

	"github.com/phongkham/clinic-booking-api/internal/middleware"
	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/service/healthprofile"
)

type Handler struct {
	service *healthprofile.Service
}

func NewHandler(service *healthprofile.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListProfiles(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated(nil))
		return
	}

	profiles, err := h.service.ListByAccount(c.Request.Context(), user.AccountID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profiles)
}

func (h *Handler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid profile ID", err))
		return
	}

	profile, err := h.service.GetOwned(c.Request.Context(), id, user.AccountID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) CreateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated(nil))
		return
	}

	var req model.CreateHealthProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid profile payload", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), user.AccountID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/health-profiles")
	{
		profiles.GET("", h.ListProfiles)
		profiles.GET("/:id", h.GetProfile)
		profiles.POST("", h.CreateProfile)
	}
}
