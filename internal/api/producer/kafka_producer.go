package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/raspadinha-premiada/platform/internal/shared/kafka"
	"github.com/raspadinha-premiada/platform/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de liquidação e saque nos tópicos
// consumidos pelo stats-worker. A chave é o user_id, preservando a ordem
// por usuário dentro da partição.
type KafkaPublisher struct {
	JogoWriter        *kafka.Writer
	SaqueWriter       *kafka.Writer
	SaqueStatusWriter *kafka.Writer
}

func NewKafkaPublisher(jogo, saque, saqueStatus *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{
		JogoWriter:        jogo,
		SaqueWriter:       saque,
		SaqueStatusWriter: saqueStatus,
	}
}

func (p *KafkaPublisher) PublishJogoLiquidado(ctx context.Context, e events.JogoLiquidado) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return kafka.WriteJSON(ctx, p.JogoWriter, e.UserID, b)
}

func (p *KafkaPublisher) PublishSaqueSolicitado(ctx context.Context, e events.SaqueSolicitado) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return kafka.WriteJSON(ctx, p.SaqueWriter, e.UserID, b)
}

func (p *KafkaPublisher) PublishSaqueStatus(ctx context.Context, e events.SaqueStatus) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return kafka.WriteJSON(ctx, p.SaqueStatusWriter, e.UserID, b)
}
