package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/raspadinha-premiada/platform/internal/shared/cache"
	"github.com/raspadinha-premiada/platform/internal/shared/config"
	"github.com/raspadinha-premiada/platform/internal/shared/kafka"
	"github.com/raspadinha-premiada/platform/internal/shared/logger"
	"github.com/raspadinha-premiada/platform/internal/shared/metrics"
	"github.com/raspadinha-premiada/platform/internal/stats"
)

var (
	consumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_worker_events_consumed_total",
		Help: "Eventos lidos do Kafka por tópico.",
	}, []string{"topic"})
	applied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_worker_events_applied_total",
		Help: "Eventos aplicados nos contadores do Redis por tópico.",
	}, []string{"topic"})
	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_worker_failures_total",
		Help: "Falhas por tópico e fase (read, apply).",
	}, []string{"topic", "phase"})
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New("stats-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "stats-worker"), zap.String("env", cfg.Env))

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	counters := stats.NewCounters(rdb)

	jogoReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicJogoLiquidado, "stats-worker")
	defer jogoReader.Close()
	saqueReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicSaqueSolicitado, "stats-worker")
	defer saqueReader.Close()
	statusReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicSaqueStatus, "stats-worker")
	defer statusReader.Close()

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	consumers := []*stats.Consumer{
		newConsumer(log, jogoReader, cfg.TopicJogoLiquidado,
			stats.DecodeInto(log, counters.ApplyJogoLiquidado)),
		newConsumer(log, saqueReader, cfg.TopicSaqueSolicitado,
			stats.DecodeInto(log, counters.ApplySaqueSolicitado)),
		newConsumer(log, statusReader, cfg.TopicSaqueStatus,
			stats.DecodeInto(log, counters.ApplySaqueStatus)),
	}
	ctx := context.Background()
	errCh := make(chan error, len(consumers))
	for _, c := range consumers {
		go func(c *stats.Consumer) { errCh <- c.Run(ctx) }(c)
	}

	log.Info("stats-worker started",
		zap.String("consume", cfg.TopicJogoLiquidado+","+cfg.TopicSaqueSolicitado+","+cfg.TopicSaqueStatus),
	)

	if err := <-errCh; err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}

func newConsumer(log *zap.Logger, r *kafka.Reader, topic string, apply func(context.Context, []byte) error) *stats.Consumer {
	return &stats.Consumer{
		Log:        log,
		Reader:     r,
		Apply:      apply,
		OnConsumed: func() { consumed.WithLabelValues(topic).Inc() },
		OnApplied:  func() { applied.WithLabelValues(topic).Inc() },
		OnError:    func(phase string) { failures.WithLabelValues(topic, phase).Inc() },
	}
}
