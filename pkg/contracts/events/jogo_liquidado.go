package events

// Evento publicado no tópico "jogo_liquidado" após a liquidação atômica de
// uma compra de raspadinhas. Valores monetários trafegam como string decimal
// para não perder precisão no caminho.
type JogoLiquidado struct {
	JogoID          string `json:"jogo_id"`
	UserID          string `json:"user_id"`
	PlayCount       int    `json:"quantidade_raspadinhas"`
	StakeTotal      string `json:"valor_total"`
	PrizeTotal      string `json:"premio_total"`
	FundedByBalance bool   `json:"origem_saldo"`
	UsedBonusPlay   bool   `json:"usou_bonus"`
	TsUnixMs        int64  `json:"ts_unix_ms"`
}
