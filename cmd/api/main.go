package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/exam-service/internal/api/http"
	"github.com/spec-kit/exam-service/internal/api/http/handlers"
	"github.com/spec-kit/exam-service/internal/auth"
	"github.com/spec-kit/exam-service/internal/cache"
	"github.com/spec-kit/exam-service/internal/config"
	"github.com/spec-kit/exam-service/internal/events"
	"github.com/spec-kit/exam-service/internal/observability"
	"github.com/spec-kit/exam-service/internal/persistence"
	"github.com/spec-kit/exam-service/internal/repository"
	"github.com/spec-kit/exam-service/internal/service"
	"github.com/spec-kit/exam-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	optionRepo := repository.NewOptionRepository(pool)
	sessionRepo := repository.NewExamSessionRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)

	otpCache := cache.NewOTPCache(redis.Client, cfg.Auth.OTPTTL())
	sessionCache := cache.NewSessionCache(redis.Client)
	tokenService := auth.NewTokenService(cfg.Auth)

	dispatcher := events.NewInMemoryDispatcher()
	mailerService := service.NewMailerService(dispatcher, logger, cfg.Mailer)
	worker.StartMailerWorker(mailerService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     userRepo,
		RoleRepo:     roleRepo,
		TokenService: tokenService,
		OTPStore:     otpCache,
		SessionStore: sessionCache,
		Dispatcher:   dispatcher,
	})
	examService := service.NewExamService(service.ExamDependencies{
		UserRepo:        userRepo,
		TestRepo:        testRepo,
		QuestionRepo:    questionRepo,
		OptionRepo:      optionRepo,
		ExamSessionRepo: sessionRepo,
		AnswerRepo:      answerRepo,
	})

	guard := auth.NewGuard(auth.NewTokenAuthenticator(tokenService, sessionCache))

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(authService),
		Roles:    handlers.NewRolesHandler(roleRepo, permissionRepo),
		Tests:    handlers.NewTestsHandler(examService),
		Sessions: handlers.NewSessionsHandler(examService),
		Guard:    guard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
