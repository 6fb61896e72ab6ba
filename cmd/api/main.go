// Package main is the entry point of the diary backend API server.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: the diary model (users, lessons, timetable, gradebook)
// - Application: use cases (Commands/Queries) plus the access table
// - Infrastructure: PostgreSQL, Redis, token issuance
// - Interface: the REST API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/school-diary/diary-backend/config"
	"github.com/school-diary/diary-backend/internal/application/command"
	"github.com/school-diary/diary-backend/internal/application/query"
	"github.com/school-diary/diary-backend/internal/infrastructure/auth"
	"github.com/school-diary/diary-backend/internal/infrastructure/persistence/postgres"
	"github.com/school-diary/diary-backend/internal/infrastructure/persistence/redis"
	httpserver "github.com/school-diary/diary-backend/internal/interface/http"
	"github.com/school-diary/diary-backend/pkg/logger"
	"github.com/school-diary/diary-backend/pkg/retry"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration & logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.App.LogLevel)).
		With(logger.String("app", cfg.App.Name), logger.String("version", cfg.App.Version))

	log.Info("starting diary backend",
		logger.String("environment", string(cfg.App.Environment)),
		logger.String("tenancy", string(cfg.App.Tenancy)),
	)

	clock := timeutil.NewSchoolClock(cfg.App.Timezone)

	// ─────────────────────────────────────────────────────────────────────────
	// PostgreSQL
	// ─────────────────────────────────────────────────────────────────────────
	var conn *postgres.Connection
	err = retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		var connErr error
		conn, connErr = postgres.NewConnection(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		return connErr
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	log.Info("database ready")

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (optional read cache)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache      *redis.Cache
		views      command.ViewInvalidator = command.NopInvalidator{}
		readCache  query.TimetableCache    = query.NopCache{}
		cachePings httpserver.Pinger
	)
	if !cfg.Redis.Disabled {
		err = retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
			var cacheErr error
			cache, cacheErr = redis.NewCache(redis.Config{
				Addr:         cfg.Redis.Addr,
				Password:     cfg.Redis.Password,
				DB:           cfg.Redis.DB,
				PoolSize:     cfg.Redis.PoolSize,
				MinIdleConns: cfg.Redis.MinIdleConns,
				DialTimeout:  cfg.Redis.DialTimeout,
				ReadTimeout:  cfg.Redis.ReadTimeout,
				WriteTimeout: cfg.Redis.WriteTimeout,
			})
			return cacheErr
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer cache.Close()

		timetableCache := redis.NewTimetableCache(cache, cfg.Redis.CacheTTL)
		views = timetableCache
		readCache = timetableCache
		cachePings = cache
		log.Info("cache ready", logger.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("cache disabled, serving all reads from the store")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Repositories & auth
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(conn)
	lessonRepo := postgres.NewLessonRepository(conn)
	periodRepo := postgres.NewPeriodRepository(conn)
	scheduleRepo := postgres.NewScheduleRepository(conn)
	markRepo := postgres.NewMarkRepository(conn)
	taskRepo := postgres.NewHomeTaskRepository(conn)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// ─────────────────────────────────────────────────────────────────────────
	// Application layer
	// ─────────────────────────────────────────────────────────────────────────
	enforceOwnership := cfg.App.Tenancy == config.TenancyMulti
	validator := command.NewWriteValidator(lessonRepo, scheduleRepo, userRepo, enforceOwnership)

	deps := httpserver.Dependencies{
		RegisterUser:   command.NewRegisterUserHandler(userRepo, hasher, clock),
		Login:          command.NewLoginHandler(userRepo, hasher, tokens, clock),
		UpdateProfile:  command.NewUpdateProfileHandler(userRepo),
		CreateLesson:   command.NewCreateLessonHandler(lessonRepo, views, clock),
		UpdateLesson:   command.NewUpdateLessonHandler(lessonRepo, validator, views, clock),
		DeleteLesson:   command.NewDeleteLessonHandler(lessonRepo, validator, views),
		CreatePeriod:   command.NewCreatePeriodHandler(periodRepo, views),
		CreateSchedule: command.NewCreateScheduleHandler(scheduleRepo, periodRepo, validator, views, clock),
		UpdateSchedule: command.NewUpdateScheduleHandler(scheduleRepo, periodRepo, validator, views, clock),
		DeleteSchedule: command.NewDeleteScheduleHandler(scheduleRepo, validator, views),
		CreateMark:     command.NewCreateMarkHandler(markRepo, validator, views, clock),
		UpdateMark:     command.NewUpdateMarkHandler(markRepo, validator, views, clock),
		DeleteMark:     command.NewDeleteMarkHandler(markRepo, validator, views),
		CreateHomeTask: command.NewCreateHomeTaskHandler(taskRepo, validator, views, clock),
		UpdateHomeTask: command.NewUpdateHomeTaskHandler(taskRepo, validator, views, clock),
		DeleteHomeTask: command.NewDeleteHomeTaskHandler(taskRepo, validator, views),

		GetProfile:           query.NewGetProfileHandler(userRepo),
		ListLessons:          query.NewListLessonsHandler(lessonRepo, enforceOwnership),
		GetLesson:            query.NewGetLessonHandler(lessonRepo, enforceOwnership),
		ListPeriods:          query.NewListPeriodsHandler(periodRepo, readCache),
		ListSchedules:        query.NewListSchedulesHandler(scheduleRepo),
		GetSchedule:          query.NewGetScheduleHandler(scheduleRepo, enforceOwnership),
		ListTeacherMarks:     query.NewListTeacherMarksHandler(markRepo),
		GetMark:              query.NewGetMarkHandler(markRepo, scheduleRepo, enforceOwnership),
		ListTeacherHomeTasks: query.NewListTeacherHomeTasksHandler(taskRepo),
		GetHomeTask:          query.NewGetHomeTaskHandler(taskRepo, scheduleRepo, enforceOwnership),
		ListStudents:         query.NewListStudentsHandler(userRepo),
		ListStudentMarks:     query.NewListStudentMarksHandler(markRepo),
		ListStudentHomeTasks: query.NewListStudentHomeTasksHandler(taskRepo, clock),
		GetStudentSchedule:   query.NewGetStudentScheduleHandler(scheduleRepo, markRepo, readCache, clock),

		Tokens:   tokens,
		Database: conn,
		Cache:    cachePings,
		Logger:   log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP server & graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
		EnableCORS:     cfg.Server.EnableCORS,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, deps)

	errCh := server.StartAsync()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigCh:
		log.Info("received signal, shutting down", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("stopped cleanly")
	return nil
}
