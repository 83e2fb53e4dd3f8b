package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/phongkham/clinic-booking-api/config"
	pkgauth "github.com/phongkham/clinic-booking-api/pkg/auth"
	"github.com/phongkham/clinic-booking-api/pkg/logger"
	"github.com/phongkham/clinic-booking-api/pkg/metrics"
	"github.com/phongkham/clinic-booking-api/pkg/security"

	"github.com/phongkham/clinic-booking-api/internal/email"
	"github.com/phongkham/clinic-booking-api/internal/handler"
	appointmentHandler "github.com/phongkham/clinic-booking-api/internal/handler/appointment"
	assignmentHandler "github.com/phongkham/clinic-booking-api/internal/handler/assignment"
	authHandler "github.com/phongkham/clinic-booking-api/internal/handler/auth"
	bookingHandler "github.com/phongkham/clinic-booking-api/internal/handler/booking"
	doctorHandler "github.com/phongkham/clinic-booking-api/internal/handler/doctor"
	healthprofileHandler "github.com/phongkham/clinic-booking-api/internal/handler/healthprofile"
	specialtyHandler "github.com/phongkham/clinic-booking-api/internal/handler/specialty"
	"github.com/phongkham/clinic-booking-api/internal/middleware"
	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/repository/postgres"
	"github.com/phongkham/clinic-booking-api/internal/router"
	appointmentService "github.com/phongkham/clinic-booking-api/internal/service/appointment"
	assignmentService "github.com/phongkham/clinic-booking-api/internal/service/assignment"
	authService "github.com/phongkham/clinic-booking-api/internal/service/auth"
	bookingService "github.com/phongkham/clinic-booking-api/internal/service/booking"
	doctorService "github.com/phongkham/clinic-booking-api/internal/service/doctor"
	healthprofileService "github.com/phongkham/clinic-booking-api/internal/service/healthprofile"
	specialtyService "github.com/phongkham/clinic-booking-api/internal/service/specialty"
)

func main() {
	appLogger := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		appLogger.Fatal(err, "failed to parse Redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	accountRepo := postgres.NewAccountRepository(db)
	specialtyRepo := postgres.NewSpecialtyRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	profileRepo := postgres.NewHealthProfileRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	tokenSvc := pkgauth.NewTokenService(pkgauth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(0)

	m := metrics.NewMetrics("clinic")
	slots := model.SlotGrid(cfg.Booking.TimeSlots)
	notifier := email.NewService(cfg.SMTP, accountRepo)

	authSvc := authService.NewService(accountRepo, tokenSvc, hasher)
	specialtySvc := specialtyService.NewService(specialtyRepo)
	doctorSvc := doctorService.NewService(doctorRepo)
	profileSvc := healthprofileService.NewService(profileRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, notifier, slots)

	sessions := bookingService.NewSessionStore(time.Duration(cfg.Booking.SessionTTLMinutes) * time.Minute)
	bookingSvc := bookingService.NewService(sessions, specialtySvc, doctorSvc, profileSvc, appointmentSvc, slots, m)

	locker := assignmentService.NewRedisLocker(redisClient, 10*time.Second)
	resolver := assignmentService.NewResolver(doctorSvc, appointmentRepo, locker, notifier, m)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	specialtyH := specialtyHandler.NewHandler(specialtySvc)
	doctorH := doctorHandler.NewHandler(doctorSvc)
	profileH := healthprofileHandler.NewHandler(profileSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	assignmentH := assignmentHandler.NewHandler(resolver, appointmentSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		specialtyH,
		doctorH,
		profileH,
		bookingH,
		appointmentH,
		assignmentH,
		h,
		router.Config{
			RateLimit:     rate.Limit(100),
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info(fmt.Sprintf("listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
