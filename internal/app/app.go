package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/foodstream/internal/health"
	"github.com/vladislavdragonenkov/foodstream/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/foodstream/internal/service/outbox"
	"github.com/vladislavdragonenkov/foodstream/internal/service/rest"
	"github.com/vladislavdragonenkov/foodstream/internal/version"
)

// Run собирает зависимости и запускает API-сервер, сервер метрик,
// outbox worker и Kafka consumer. Блокируется до отмены ctx или
// фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опциональна: без брокеров события outbox уходят в лог.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	worker := newOutboxWorker(deps, kafkaProducer, logger)
	go worker.Run(ctx)

	consumer, err := startStatusConsumer(ctx, cfg.KafkaBrokers, deps.Orders, kafkaProducer, logger.WithField("component", "status-consumer"))
	if err == nil && consumer != nil {
		defer func() {
			if stopErr := consumer.Stop(); stopErr != nil {
				logger.WithError(stopErr).Warn("failed to stop kafka consumer")
			}
		}()
	}

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.RegisterChecker("state_store", healthcheck.NewStateStoreChecker("state_store", deps.StateStore, 2*time.Second))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	restServer := rest.NewServer(deps.Catalog, deps.Cart, deps.Orders, deps.Favorites, deps.Checkout, deps.MiniPlayer, logger.WithField("layer", "rest"))
	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: restServer.Router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newOutboxWorker создаёт outbox worker с Kafka publisher либо, когда Kafka
// не сконфигурирована, с publisher, пишущим события в лог.
func newOutboxWorker(deps *Dependencies, producer *kafka.Producer, logger *log.Entry) *outbox.Worker {
	workerLogger := logger.WithField("component", "outbox-worker")

	if producer == nil {
		return outbox.NewWorker(
			deps.OutboxRepo,
			outbox.NewLogPublisher(workerLogger),
			outbox.WithLogger(workerLogger),
		)
	}

	return outbox.NewWorker(
		deps.OutboxRepo,
		kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents),
		outbox.WithLogger(workerLogger),
		outbox.WithDLQPublisher(kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)),
	)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("server shutdown with error")
	}
}
