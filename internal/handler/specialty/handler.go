package specialty

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/httputil"

	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/service/specialty"
)

type Handler struct {
	service *specialty.Service
}

func NewHandler(service *specialty.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, specialties)
}

func (h *Handler) CreateSpecialty(c *gin.Context) {
	var req model.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid specialty payload", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	specialties := r.Group("/specialties")
	{
		specialties.GET("", h.ListSpecialties)
	}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	specialties := r.Group("/specialties")
	{
		specialties.POST("", h.CreateSpecialty)
	}
}
