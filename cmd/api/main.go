package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stafftrack/attendance-backend-go/internal/config"
	appHTTP "github.com/stafftrack/attendance-backend-go/internal/handler/http"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/cron"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/database"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/sse"
	"github.com/stafftrack/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/stafftrack/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/stafftrack/attendance-backend-go/internal/service/auth"
	trackingService "github.com/stafftrack/attendance-backend-go/internal/service/tracking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	trackingRepo := postgresql.NewTrackingRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, cfg.AttendanceRules())
	trackingSvc := trackingService.NewTrackingService(trackingRepo, attendanceRepo, userRepo, hub, cfg.AggregateOptions())

	authHandler := appHTTP.NewAuthHandler(JWTService, authService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	trackingHandler := appHTTP.NewTrackingHandler(trackingSvc, hub)

	router := appHTTP.NewRouter(
		JWTService,
		cfg.App.FrontendURL,
		authHandler,
		attendanceHandler,
		trackingHandler,
	)

	scheduler := cron.NewScheduler()
	trackingJobs := cron.NewTrackingJobs(trackingRepo, attendanceRepo, cfg.Tracking.PingRetentionDays)
	trackingJobs.RegisterJobs(scheduler)
	scheduler.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		scheduler.Stop()
		db.Close()
		os.Exit(0)
	}()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
