package router

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/phongkham/clinic-booking-api/internal/handler"
	"github.com/phongkham/clinic-booking-api/internal/middleware"
	"github.com/phongkham/clinic-booking-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type AdminHandler interface {
	Handler
	RegisterAdminRoutes(*gin.RouterGroup)
}

type StaffHandler interface {
	Handler
	RegisterStaffRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        Handler
	specialtyH   AdminHandler
	doctorH      AdminHandler
	profileH     Handler
	bookingH     Handler
	appointmentH StaffHandler
	assignmentH  Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	specialtyH AdminHandler,
	doctorH AdminHandler,
	profileH Handler,
	bookingH Handler,
	appointmentH StaffHandler,
	assignmentH Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	registerValidations()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		specialtyH:   specialtyH,
		doctorH:      doctorH,
		profileH:     profileH,
		bookingH:     bookingH,
		appointmentH: appointmentH,
		assignmentH:  assignmentH,
		h:            h,
		metrics:      initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.RequestID(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

var slotPattern = regexp.MustCompile(`^\d{2}:\d{2}-\d{2}:\d{2}$`)

// registerValidations adds the clinic's custom binding rules. Slot tokens
// must be shaped like "08:00-08:30" before the grid check ever sees them.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return slotPattern.MatchString(fl.Field().String())
	})
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)

	staff := api.Group("")
	staff.Use(
		r.auth.Authenticate(),
		r.auth.RequireRole(model.RoleReceptionist, model.RoleAdmin),
	)
	r.setupStaffRoutes(staff)

	admin := api.Group("/admin")
	admin.Use(
		r.auth.Authenticate(),
		r.auth.RequireRole(model.RoleAdmin),
	)
	r.setupAdminRoutes(admin)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
	r.specialtyH.RegisterRoutes(rg)
	r.doctorH.RegisterRoutes(rg)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.bookingH.RegisterRoutes(rg)
	r.profileH.RegisterRoutes(rg)
	r.appointmentH.RegisterRoutes(rg)
}

func (r *Router) setupStaffRoutes(rg *gin.RouterGroup) {
	r.assignmentH.RegisterRoutes(rg)
	r.appointmentH.RegisterStaffRoutes(rg)
}

func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	r.specialtyH.RegisterAdminRoutes(rg)
	r.doctorH.RegisterAdminRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
