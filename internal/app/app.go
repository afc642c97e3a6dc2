package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/ordermart/internal/cache"
	"github.com/GlebRadaev/ordermart/internal/config"
	"github.com/GlebRadaev/ordermart/internal/events"
	"github.com/GlebRadaev/ordermart/internal/handlers"
	"github.com/GlebRadaev/ordermart/internal/pg"
	"github.com/GlebRadaev/ordermart/internal/repo"
	"github.com/GlebRadaev/ordermart/internal/service"
	"github.com/GlebRadaev/ordermart/internal/service/orderservice"
	"github.com/GlebRadaev/ordermart/pkg/auth"
	"github.com/GlebRadaev/ordermart/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg    *config.Config
	api    *handlers.Handlers
	srv    *service.Services
	repo   *repo.Repositories
	events *events.Dispatcher

	pool    *pgxpool.Pool
	closers []io.Closer

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.AdminSecret == config.DefaultAdminSecret {
		zap.L().Warn("admin tokens are signed with the default secret, set ADMIN_SECRET")
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		pool.Close()
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	conn := pg.New(pool)
	a.cfg = cfg
	a.pool = pool
	a.repo = repo.New(conn, txManager)

	orderCache, closer := buildCache(cfg)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.events = events.NewDispatcher(events.NewWorkerPool(cfg.EventWorkers), buildPublisher(cfg))

	a.srv = service.New(a.repo, a.events, orderCache)
	a.api = handlers.New(a.srv, auth.NewJWTService(cfg.AdminSecret), cfg.RequestTimeout)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

// buildCache returns the redis order cache when an address is configured,
// together with the client to close on shutdown.
func buildCache(cfg *config.Config) (orderservice.Cache, io.Closer) {
	if cfg.RedisAddress == "" {
		zap.L().Info("redis address not set, order cache disabled")
		return cache.Nop{}, nil
	}
	client := cache.NewClient(cfg.RedisAddress)
	return cache.New(client, cfg.CacheTTL), client
}

func buildPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		zap.L().Info("kafka brokers not set, order events go to the log")
		return events.LogPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("can't shutdown http server", zap.Error(err))
		}
		a.shutdown()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// shutdown releases everything the server depended on once it has stopped
// taking requests. Pending order events are flushed before the pool closes.
func (a *Application) shutdown() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			zap.L().Error("can't close event dispatcher", zap.Error(err))
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			zap.L().Error("can't close resource", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
