package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/clinicore/clinic-service/config"
	"github.com/clinicore/clinic-service/internal/account"
	"github.com/clinicore/clinic-service/internal/appointment"
	"github.com/clinicore/clinic-service/internal/clinic"
	"github.com/clinicore/clinic-service/internal/geocode"
	"github.com/clinicore/clinic-service/internal/invite"
	"github.com/clinicore/clinic-service/pkg/httpserver"
	"github.com/clinicore/clinic-service/pkg/logger"
	"github.com/clinicore/clinic-service/pkg/postgres"
	"github.com/clinicore/clinic-service/pkg/redisclient"
)

func main() {
	log := logger.NewLogger("debug", &logger.MainLogHook{})

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, relying on the environment")
	}

	env, err := config.GetEnvironment()
	if err != nil {
		log.Fatalf(err.Error())
	}

	accountLog := logger.NewLogger(env.LogLvl, &account.AccountLogHook{})
	inviteLog := logger.NewLogger(env.LogLvl, &invite.InviteLogHook{})
	clinicLog := logger.NewLogger(env.LogLvl, &clinic.ClinicLogHook{})
	appointmentLog := logger.NewLogger(env.LogLvl, &appointment.AppointmentLogHook{})

	postgresConfig := postgres.Config{
		Host:     env.PgHost,
		Port:     env.PgPort,
		Username: env.PgUser,
		Password: env.PgPassword,
		DBName:   env.PgDbName,
		SSLMode:  env.SSLMode,
		TimeZone: env.TimeZone,
	}
	db, err := postgres.NewConnection(postgresConfig)
	if err != nil {
		log.Fatalf("failed connection to db: %v", err)
	}

	if err := account.RunMigration(db, env.SupervisorEmail, env.SupervisorPassword); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	redisClient, err := redisclient.New(redisclient.Config{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
	})
	if err != nil {
		log.Fatalf("failed connection to redis: %v", err)
	}

	geocoder := geocode.NewClient(env.GeocodeURL, redisClient, log)

	accountStorage := account.NewStorage(db)
	inviteStorage := invite.NewStorage(db)
	clinicStorage := clinic.NewStorage(db)
	appointmentStorage := appointment.NewStorage(db)

	accountService := account.NewService(accountStorage, geocoder, accountLog, env.JwtSecret)
	inviteService := invite.NewService(inviteStorage, inviteLog)
	clinicService := clinic.NewService(clinicStorage, geocoder, clinicLog)
	appointmentService := appointment.NewService(appointmentStorage, appointmentLog)

	accountHandler := account.NewHandler(accountService, accountLog, env.JwtSecret)
	inviteHandler := invite.NewHandler(inviteService, inviteLog, env.JwtSecret)
	clinicHandler := clinic.NewHandler(clinicService, clinicLog, env.JwtSecret)
	appointmentHandler := appointment.NewHandler(appointmentService, accountService, appointmentLog, env.JwtSecret)

	router := gin.New()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	accountHandler.Register(router)
	inviteHandler.Register(router)
	clinicHandler.Register(router)
	appointmentHandler.Register(router)

	server := new(httpserver.Server)

	go func() {
		if err := server.Run(env.ServerPort, router); err != nil {
			log.Fatalf("failed running server: %v", err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	oscall := <-interrupt
	log.Infof("shutdown server, %s", oscall)

	if err := server.Shutdown(context.Background()); err != nil {
		log.Errorf("error occured on server shutting down: %v", err)
	}
}
