package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamcart/product-catalog/internal/adapters/cache"
	eventadapter "github.com/streamcart/product-catalog/internal/adapters/events"
	httpadapter "github.com/streamcart/product-catalog/internal/adapters/http"
	"github.com/streamcart/product-catalog/internal/adapters/memory"
	"github.com/streamcart/product-catalog/internal/application"
	"github.com/streamcart/product-catalog/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Runtime wires the single-instance components: one store, one publisher, one
// subscriber, constructed once here and torn down once on shutdown.
type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	subscriber *eventadapter.Subscriber
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer

	var productCache ports.Cache
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			return nil, redisErr
		}
		productCache = cache.NewRedisCache(redisClient)
		closers = append(closers, redisClient)
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	var subscriber *eventadapter.Subscriber
	projection := application.NewCatalogProjection()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaProducerClientID)
		if pubErr != nil {
			closeAll(closers)
			return nil, pubErr
		}
		publisher = kafkaPublisher
		closers = append(closers, kafkaPublisher)

		source, srcErr := eventadapter.NewKafkaSource(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, cfg.KafkaTopic, cfg.KafkaConsumerClientID)
		if srcErr != nil {
			closeAll(closers)
			return nil, srcErr
		}
		subscriber = eventadapter.NewSubscriber(logger, source, projection.Apply)
	} else {
		logger.WarnContext(ctx, "no kafka brokers configured, events stay in process",
			"module", "app.bootstrap",
			"layer", "app",
		)
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:     cfg.ServiceID,
			ProductCacheTTL: cfg.ProductCacheTTL,
		},
		Logger:     logger,
		Products:   memory.NewProductRepository(),
		Publisher:  publisher,
		Cache:      productCache,
		Projection: projection,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		closeAll(closers)
		return nil, err
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		subscriber: subscriber,
		cleanupFn: func(context.Context) {
			closeAll(closers)
		},
	}, nil
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}

// RunAPI serves HTTP and gRPC health, runs the subscriber, and blocks until a
// shutdown signal or a server failure. Broker connections are released on
// every exit path.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	if r.subscriber != nil {
		if err := r.subscriber.Start(ctx); err != nil {
			r.cleanupFn(ctx)
			return err
		}
	}
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	if r.subscriber != nil {
		r.subscriber.Stop()
	}
	r.cleanupFn(shutdownCtx)
	return nil
}
