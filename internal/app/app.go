package app

import (
	"context"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"coder_edu_client/internal/config"
	"coder_edu_client/internal/gateway"
	"coder_edu_client/internal/service"
	"coder_edu_client/internal/session"
	"coder_edu_client/internal/store"
	"coder_edu_client/pkg/logger"
	"coder_edu_client/pkg/monitoring"
	"coder_edu_client/pkg/tracing"
)

type App struct {
	Config  *config.Config
	Store   *store.TokenStore
	Session *session.Manager
	Gateway *gateway.Gateway

	services *services
	tracer   *sdktrace.TracerProvider
}

type services struct {
	assessment *service.AssessmentService
	course     *service.CourseService
	user       *service.UserService
	forum      *service.ForumService
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	monitoring.Init()

	a := &App{Config: cfg}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("coder-edu-client", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing disabled", zap.Error(err))
		} else {
			a.tracer = tp
		}
	}

	ts, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	a.Store = ts

	a.Session = session.NewManager(cfg.API, ts)
	a.Gateway = gateway.New(cfg, a.Session)
	a.services = a.initServices()

	return a, nil
}

func (a *App) initServices() *services {
	return &services{
		assessment: service.NewAssessmentService(a.Gateway),
		course:     service.NewCourseService(a.Gateway),
		user:       service.NewUserService(a.Gateway),
		forum:      service.NewForumService(a.Gateway),
	}
}

// Run 恢复会话后执行一条命令
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.Close()

	authenticated, err := a.Session.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if authenticated {
		if user := a.Session.CurrentUser(); user != nil {
			logger.Log.Debug("session restored", zap.String("email", user.Email))
		}
	}

	return a.dispatch(ctx, args)
}

func (a *App) Close() {
	if a.tracer != nil {
		a.tracer.Shutdown(context.Background())
	}
	if a.Store != nil {
		a.Store.Close()
	}
	logger.Log.Sync()
}
