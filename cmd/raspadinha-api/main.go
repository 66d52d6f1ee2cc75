package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/raspadinha-premiada/platform/internal/api/auth"
	apihttp "github.com/raspadinha-premiada/platform/internal/api/http"
	"github.com/raspadinha-premiada/platform/internal/api/producer"
	"github.com/raspadinha-premiada/platform/internal/engine"
	"github.com/raspadinha-premiada/platform/internal/shared/cache"
	"github.com/raspadinha-premiada/platform/internal/shared/config"
	"github.com/raspadinha-premiada/platform/internal/shared/db"
	"github.com/raspadinha-premiada/platform/internal/shared/kafka"
	"github.com/raspadinha-premiada/platform/internal/shared/logger"
	"github.com/raspadinha-premiada/platform/internal/shared/metrics"
	"github.com/raspadinha-premiada/platform/internal/stats"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Inicializa logger estruturado
	log, err := logger.New("raspadinha-api", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "raspadinha-api"), zap.String("env", cfg.Env))

	// Conexão com Postgres e migração do schema
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(pg); err != nil {
		log.Fatal("postgres migrate", zap.Error(err))
	}

	// Redis com os contadores em tempo real mantidos pelo stats-worker
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka producers dos eventos da plataforma
	jogoWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicJogoLiquidado)
	defer jogoWriter.Close()
	saqueWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSaqueSolicitado)
	defer saqueWriter.Close()
	saqueStatusWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSaqueStatus)
	defer saqueStatusWriter.Close()

	repo := engine.NewPostgres(pg)
	authMgr := auth.NewManager(cfg.JWTSecret, cfg.AdminEmail, cfg.TokenTTL)
	publ := producer.NewKafkaPublisher(jogoWriter, saqueWriter, saqueStatusWriter)
	counters := stats.NewCounters(rdb)

	api := apihttp.NewServer(log, repo, authMgr, publ, counters)

	// Servidor de métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Servidor principal da API
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
