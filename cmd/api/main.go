package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vogiaan1904/seatqueue/config"
	grpcSvc "github.com/vogiaan1904/seatqueue/internal/delivery/grpc"
	httpDelivery "github.com/vogiaan1904/seatqueue/internal/delivery/http"
	"github.com/vogiaan1904/seatqueue/internal/delivery/kafka/consumer"
	"github.com/vogiaan1904/seatqueue/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/seatqueue/internal/delivery/ws"
	"github.com/vogiaan1904/seatqueue/internal/infra/redis"
	"github.com/vogiaan1904/seatqueue/internal/middleware"
	"github.com/vogiaan1904/seatqueue/internal/notify"
	repo "github.com/vogiaan1904/seatqueue/internal/repository/redis"
	"github.com/vogiaan1904/seatqueue/internal/service"
	pkgKafka "github.com/vogiaan1904/seatqueue/pkg/kafka"
	pkgLog "github.com/vogiaan1904/seatqueue/pkg/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const (
	healthPingInterval = 10 * time.Second
	shutdownTimeout    = 15 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})
	defer l.Sync()

	redisCli, err := redis.Connect(ctx, cfg.Redis, l)
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer redis.Disconnect(context.Background(), redisCli, l)

	custRepo := repo.NewRedisCustomerRepository(redisCli, l)
	ledger := repo.NewRedisSeatLedger(redisCli, l)
	departures := repo.NewRedisDepartureQueue(redisCli, l)

	// Sockets register here; the waitlist only sees the notifier.
	registry := notify.NewRegistry()
	notifier := notify.NewNotifier(registry, l)

	var prod producer.Producer
	if cfg.Kafka.Enabled {
		kSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			ClientID:     cfg.Kafka.ClientID,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod = producer.NewProducer(kSyncProd, l)
		defer prod.Close()

		l.Info(ctx, "Kafka producer connected", "brokers", cfg.Kafka.Brokers)
	}

	wlSvc := service.NewWaitlistService(custRepo, ledger, departures, notifier, prod, l, cfg.Waitlist)

	seats, err := wlSvc.Reconcile(ctx)
	if err != nil {
		l.Fatalf(ctx, "Failed to reconcile available seats: %v", err)
	}
	l.Infof(ctx, "Available seats on startup: %d", seats)

	proc := service.NewDepartureProcessor(departures, wlSvc, l, cfg.Waitlist)
	if err := proc.Start(ctx); err != nil {
		l.Fatalf(ctx, "Failed to start departure processor: %v", err)
	}

	var cons *consumer.Consumer
	if cfg.Kafka.Enabled {
		kConsGrCli, err := pkgKafka.NewConsumer(pkgKafka.ConsumerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
			GroupID:  cfg.Kafka.ConsumerGroupID,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka consumer: %v", err)
		}

		cons = consumer.NewConsumer(kConsGrCli, wlSvc, l)
		if err := cons.Start(ctx); err != nil {
			l.Fatalf(ctx, "Failed to start Kafka consumer: %v", err)
		}
	}

	// gRPC server
	lnr, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRpcPort))
	if err != nil {
		l.Fatalf(ctx, "gRPC server failed to listen: %v", err)
	}

	healthSvc := grpcSvc.NewHealthService(grpcSvc.PingerFunc(func(ctx context.Context) error {
		return redisCli.Ping(ctx).Err()
	}), healthPingInterval, l)
	gRpcSrv := grpc.NewServer()
	healthSvc.Register(gRpcSrv)

	// HTTP server
	var operator func(http.Handler) http.Handler
	if cfg.JWT.OperatorAuth {
		operator = middleware.OperatorAuth(cfg.JWT.Secret, l)
	}

	h := httpDelivery.NewHTTPHandler(wlSvc, proc, l)
	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      h.Routes(ws.NewHandler(registry, l), operator),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return healthSvc.Run(gCtx)
	})

	g.Go(func() error {
		l.Infof(ctx, "gRPC server is listening on port: %d", cfg.Server.GRpcPort)
		if err := gRpcSrv.Serve(lnr); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case <-quit:
		case <-gCtx.Done():
		}

		l.Info(ctx, "Server shutting down...")

		// Stops the consumer loop and health pings.
		cancel()

		if err := proc.Stop(); err != nil {
			l.Errorf(ctx, "Failed to stop departure processor: %v", err)
		}

		if cons != nil {
			if err := cons.Close(); err != nil {
				l.Errorf(ctx, "Failed to close Kafka consumer: %v", err)
			}
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			l.Errorf(ctx, "HTTP server shutdown: %v", err)
		}
		gRpcSrv.GracefulStop()

		return nil
	})

	if err := g.Wait(); err != nil {
		l.Errorf(ctx, "Server stopped with error: %v", err)
	}

	l.Info(ctx, "Server exited")
}
