// Package app assembles the console from configuration: durable storage,
// session, gateways, notification scheduling and the view controllers.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/api/handler"
	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/service"
	"github.com/99minutos/ims-console/internal/infrastructure/config"
	"github.com/99minutos/ims-console/internal/infrastructure/db/local"
	"github.com/99minutos/ims-console/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/ims-console/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/ims-console/internal/infrastructure/db/redis"
	"github.com/99minutos/ims-console/internal/infrastructure/gateway"
	"github.com/99minutos/ims-console/internal/infrastructure/queue"
)

// App is a running console.
type App struct {
	Session    *service.SessionStore
	Navigation *service.Navigation
	Views      *service.Views
	// Checks are the dependencies reported by the readiness probe.
	Checks map[string]handler.Pinger

	cancel  context.CancelFunc
	closers []func(context.Context) error
	log     zerolog.Logger
}

// New opens storage, restores the persisted session and builds the views.
// The returned App must be closed.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{log: log, Checks: map[string]handler.Pinger{}}

	store, err := a.openStorage(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Session = service.NewSessionStore(store, log.With().Str("component", "session").Logger())
	if err := a.Session.Load(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("restore session: %w", err)
	}

	start := domain.RouteLogin
	if a.Session.State() == domain.Authenticated {
		start = domain.RouteHome
	}
	a.Navigation = service.NewNavigation(start, log.With().Str("component", "navigation").Logger())

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	dispatcher := queue.NewDispatcher(0, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(runCtx)

	gwLog := log.With().Str("component", "gateway").Logger()
	authClient := gateway.NewClient("auth", cfg.Backend.AuthURL,
		gateway.WithTimeout(cfg.Backend.Timeout), gateway.WithLogger(gwLog))
	apiClient := gateway.NewClient("api", cfg.Backend.APIURL,
		gateway.WithTimeout(cfg.Backend.Timeout), gateway.WithLogger(gwLog))
	a.Checks["auth_service"] = authClient
	a.Checks["api_gateway"] = apiClient

	gws := service.Gateways{
		Auth:     gateway.NewAuthGateway(authClient),
		Products: gateway.NewProductGateway(apiClient),
		Orders: gateway.NewOrderGateway(apiClient,
			gateway.WithEnrichmentRate(cfg.Backend.EnrichRPS, cfg.Backend.EnrichBurst),
			gateway.WithEnrichmentWorkers(cfg.Backend.EnrichWorkers)),
		Suppliers: gateway.NewSupplierGateway(apiClient),
		Reports:   gateway.NewReportGateway(apiClient),
	}

	a.Views = service.NewViews(gws, service.ViewDeps{
		Session:   a.Session,
		Navigator: a.Navigation,
		Notify: service.NotifierOptions{
			Display:   cfg.Notify.Display,
			Fade:      cfg.Notify.Fade,
			Sink:      logSink{log: log.With().Str("component", "notifier").Logger()},
			Scheduler: dispatcher,
		},
		Logger: log,
	})
	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config) (ports.DurableStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewStore(), nil

	case config.StorageRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		s := redisdb.NewSessionStorage(client, cfg.Storage.Namespace)
		a.Checks["redis"] = s
		return s, nil

	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		s := mongodb.NewSessionStorage(db, cfg.Storage.Namespace)
		a.Checks["mongodb"] = s
		return s, nil

	default:
		s, err := local.NewFileStore(cfg.Storage.Path, cfg.Storage.Secret)
		if err != nil {
			return nil, err
		}
		a.log.Debug().Str("path", s.Path()).Msg("file session storage")
		a.Checks["storage"] = s
		return s, nil
	}
}

// Close unmounts the views, stops the notification workers and releases
// storage connections.
func (a *App) Close(ctx context.Context) {
	if a.Views != nil {
		a.Views.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close storage")
		}
	}
	a.closers = nil
}

// logSink traces notification changes.
type logSink struct {
	log zerolog.Logger
}

func (s logSink) Shown(view string, n domain.Notification) {
	s.log.Debug().Str("view", view).Str("kind", string(n.Kind)).Str("phase", string(n.Phase)).Msg(n.Message)
}

func (s logSink) Dismissed(view string) {
	s.log.Debug().Str("view", view).Msg("notification dismissed")
}
