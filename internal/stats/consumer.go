package stats

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/raspadinha-premiada/platform/internal/shared/kafka"
)

// Consumer consome um tópico e aplica cada mensagem num contador.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Consumer struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Apply  func(ctx context.Context, value []byte) error

	OnConsumed func()       // métricas (counter++)
	OnApplied  func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo até o contexto ser cancelado.
func (c *Consumer) Run(ctx context.Context) error {
	topic := c.Reader.Config().Topic
	for {
		_, value, err := kafka.ReadNext(ctx, c.Reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Warn("kafka read failed", zap.String("topic", topic), zap.Error(err))
			if c.OnError != nil {
				c.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if c.OnConsumed != nil {
			c.OnConsumed()
		}

		if err := c.Apply(ctx, value); err != nil {
			c.Log.Warn("apply failed", zap.String("topic", topic), zap.Error(err))
			if c.OnError != nil {
				c.OnError("apply")
			}
			continue
		}
		if c.OnApplied != nil {
			c.OnApplied()
		}
	}
}

// DecodeInto devolve um Apply que decodifica o JSON do evento e delega.
func DecodeInto[E any](log *zap.Logger, apply func(context.Context, E) error) func(context.Context, []byte) error {
	return func(ctx context.Context, value []byte) error {
		var e E
		if err := json.Unmarshal(value, &e); err != nil {
			log.Warn("invalid message", zap.Error(err))
			return nil // mensagem podre não volta pra fila
		}
		return apply(ctx, e)
	}
}
