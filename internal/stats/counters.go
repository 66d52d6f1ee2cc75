package stats

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/raspadinha-premiada/platform/internal/engine"
	"github.com/raspadinha-premiada/platform/pkg/contracts/events"
)

// Chaves dos contadores agregados em tempo real. Valores monetários usam
// INCRBYFLOAT e trafegam como string decimal nos eventos.
const (
	keyJogosLiquidados   = "stats:jogos_liquidados"
	keyRaspadinhasTotal  = "stats:raspadinhas_total"
	keyApostadoTotal     = "stats:apostado_total"
	keyPremiadoTotal     = "stats:premiado_total"
	keySaquesSolicitados = "stats:saques_solicitados"
	keySaquesPendentes   = "stats:saques_pendentes"
	keySaquesConcluidos  = "stats:saques_concluidos"
	keySaquesCancelados  = "stats:saques_cancelados"
)

// Counters dobra os eventos da plataforma em contadores no Redis. O painel
// administrativo lê esses contadores em vez de varrer o Postgres.
type Counters struct {
	Client *redis.Client
}

func NewCounters(c *redis.Client) *Counters {
	return &Counters{Client: c}
}

func (c *Counters) ApplyJogoLiquidado(ctx context.Context, e events.JogoLiquidado) error {
	pipe := c.Client.TxPipeline()
	pipe.Incr(ctx, keyJogosLiquidados)
	pipe.IncrBy(ctx, keyRaspadinhasTotal, int64(e.PlayCount))
	if e.StakeTotal != "" {
		pipe.IncrByFloat(ctx, keyApostadoTotal, mustFloat(e.StakeTotal))
	}
	if e.PrizeTotal != "" {
		pipe.IncrByFloat(ctx, keyPremiadoTotal, mustFloat(e.PrizeTotal))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Counters) ApplySaqueSolicitado(ctx context.Context, e events.SaqueSolicitado) error {
	pipe := c.Client.TxPipeline()
	pipe.Incr(ctx, keySaquesSolicitados)
	pipe.Incr(ctx, keySaquesPendentes)
	_, err := pipe.Exec(ctx)
	return err
}

// ApplySaqueStatus ajusta o contador de pendência usando o status anterior
// do evento, sem consultar o banco. Um saque conta como pendente enquanto
// não chega num estado terminal.
func (c *Counters) ApplySaqueStatus(ctx context.Context, e events.SaqueStatus) error {
	terminal := func(s string) bool {
		return s == engine.StatusConcluido || s == engine.StatusCancelado
	}
	if terminal(e.OldStatus) || !terminal(e.NewStatus) {
		// pendente→processando não muda nada; repetição de terminal idem
		return nil
	}

	pipe := c.Client.TxPipeline()
	pipe.Decr(ctx, keySaquesPendentes)
	switch e.NewStatus {
	case engine.StatusConcluido:
		pipe.Incr(ctx, keySaquesConcluidos)
	case engine.StatusCancelado:
		pipe.Incr(ctx, keySaquesCancelados)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Snapshot devolve os contadores atuais. Chave ausente vale zero.
type Snapshot struct {
	JogosLiquidados   int64
	RaspadinhasTotal  int64
	ApostadoTotal     string
	PremiadoTotal     string
	SaquesSolicitados int64
	SaquesPendentes   int64
	SaquesConcluidos  int64
	SaquesCancelados  int64
}

func (c *Counters) Snapshot(ctx context.Context) (*Snapshot, error) {
	vals, err := c.Client.MGet(ctx,
		keyJogosLiquidados,
		keyRaspadinhasTotal,
		keyApostadoTotal,
		keyPremiadoTotal,
		keySaquesSolicitados,
		keySaquesPendentes,
		keySaquesConcluidos,
		keySaquesCancelados,
	).Result()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		JogosLiquidados:   asInt(vals[0]),
		RaspadinhasTotal:  asInt(vals[1]),
		ApostadoTotal:     asMoney(vals[2]),
		PremiadoTotal:     asMoney(vals[3]),
		SaquesSolicitados: asInt(vals[4]),
		SaquesPendentes:   asInt(vals[5]),
		SaquesConcluidos:  asInt(vals[6]),
		SaquesCancelados:  asInt(vals[7]),
	}, nil
}
